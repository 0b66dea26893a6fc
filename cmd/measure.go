package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/helmcode/inr-assistant/pkg/formatter"
	"github.com/helmcode/inr-assistant/pkg/model"
	"github.com/helmcode/inr-assistant/pkg/tracker"
)

var (
	measureDate   string
	measureINR    float64
	measureDose   float64
	measureNote   string
	targetMin     float64
	targetMax     float64
	profileAge    int
	profileWeight float64
	listSince     string
)

func NewMeasureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "measure",
		Short: "Record and review INR measurements",
		Long: `Manage your INR history, target range and profile.

Examples:
  # Record today's reading and dose
  inr-assistant measure add --inr 2.6 --dose 5

  # Record a past reading
  inr-assistant measure add --date 2026-10-12 --inr 3.4 --dose 5 --note "after holiday"

  # Show the last month with statistics
  inr-assistant measure list --since 30d

  # Change the therapeutic range
  inr-assistant measure target --min 2.5 --max 3.5`,
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Record an INR measurement",
		Args:  cobra.NoArgs,
		RunE:  runMeasureAdd,
	}
	add.Flags().StringVar(&measureDate, "date", "", "Measurement date YYYY-MM-DD (default today)")
	add.Flags().Float64Var(&measureINR, "inr", 0, "INR value")
	add.Flags().Float64Var(&measureDose, "dose", 0, "Warfarin dose taken that day in mg")
	add.Flags().StringVar(&measureNote, "note", "", "Free-text note")
	_ = add.MarkFlagRequired("inr")

	list := &cobra.Command{
		Use:   "list",
		Short: "Show the measurement history",
		Args:  cobra.NoArgs,
		RunE:  runMeasureList,
	}
	list.Flags().StringVar(&listSince, "since", "", "Only show measurements from this window (e.g. 30d, 6w, 3m)")

	remove := &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a measurement",
		Args:  cobra.ExactArgs(1),
		RunE:  runMeasureRemove,
	}

	target := &cobra.Command{
		Use:   "target",
		Short: "Set the therapeutic INR range",
		Args:  cobra.NoArgs,
		RunE:  runMeasureTarget,
	}
	target.Flags().Float64Var(&targetMin, "min", model.DefaultTargetRange.Min, "Lower bound")
	target.Flags().Float64Var(&targetMax, "max", model.DefaultTargetRange.Max, "Upper bound")

	profile := &cobra.Command{
		Use:   "profile",
		Short: "Set age and weight used in analyses",
		Args:  cobra.NoArgs,
		RunE:  runMeasureProfile,
	}
	profile.Flags().IntVar(&profileAge, "age", 0, "Age in years")
	profile.Flags().Float64Var(&profileWeight, "weight", 0, "Weight in kg")

	cmd.AddCommand(add, list, remove, target, profile)
	return cmd
}

// withPatient loads the current user's state, runs fn and saves the state
// when fn reports a change.
func withPatient(cmd *cobra.Command, fn func(rt *runtime, s *tracker.State) (bool, error)) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.close()
	ctx := cmd.Context()

	st, err := rt.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	uid := currentUser()
	state, err := loadPatient(ctx, st, uid)
	if err != nil {
		return err
	}

	changed, err := fn(rt, state)
	if err != nil || !changed {
		return err
	}
	return savePatient(ctx, st, uid, state)
}

func runMeasureAdd(cmd *cobra.Command, args []string) error {
	return withPatient(cmd, func(rt *runtime, s *tracker.State) (bool, error) {
		m, err := s.AddMeasurement(model.Measurement{
			Date: measureDate,
			INR:  measureINR,
			Dose: measureDose,
			Note: measureNote,
		}, time.Now())
		if err != nil {
			return false, err
		}

		target := s.TargetOrDefault()
		rt.printSuccess(fmt.Sprintf("Recorded INR %.2f on %s", m.INR, m.Date))
		if !target.Contains(m.INR) {
			rt.printWarning(fmt.Sprintf("INR %.2f is outside your target range %.1f-%.1f", m.INR, target.Min, target.Max))
		}
		if !rt.human() {
			return true, formatter.DisplayMeasurements(rt.out, &tracker.State{Target: s.Target, Measurements: []model.Measurement{m}}, outputFormat)
		}
		return true, nil
	})
}

func runMeasureList(cmd *cobra.Command, args []string) error {
	return withPatient(cmd, func(rt *runtime, s *tracker.State) (bool, error) {
		if listSince != "" {
			from, err := tracker.ParseWindow(listSince, time.Now())
			if err != nil {
				return false, err
			}
			s = s.Since(from)
		}
		return false, formatter.DisplayMeasurements(rt.out, s, outputFormat)
	})
}

func runMeasureRemove(cmd *cobra.Command, args []string) error {
	return withPatient(cmd, func(rt *runtime, s *tracker.State) (bool, error) {
		if !s.RemoveMeasurement(args[0]) {
			return false, fmt.Errorf("measurement %q not found", args[0])
		}
		rt.printSuccess("Measurement removed")
		return true, nil
	})
}

func runMeasureTarget(cmd *cobra.Command, args []string) error {
	return withPatient(cmd, func(rt *runtime, s *tracker.State) (bool, error) {
		if err := s.SetTarget(targetMin, targetMax); err != nil {
			return false, err
		}
		rt.printSuccess(fmt.Sprintf("Target range set to %.1f-%.1f", targetMin, targetMax))
		return true, nil
	})
}

func runMeasureProfile(cmd *cobra.Command, args []string) error {
	return withPatient(cmd, func(rt *runtime, s *tracker.State) (bool, error) {
		age, weight := s.Patient.Age, s.Patient.Weight
		if cmd.Flags().Changed("age") {
			a := profileAge
			age = &a
		}
		if cmd.Flags().Changed("weight") {
			w := profileWeight
			weight = &w
		}
		if err := s.SetPatient(age, weight); err != nil {
			return false, err
		}
		rt.printSuccess("Profile updated")
		return true, nil
	})
}
