package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/helmcode/inr-assistant/pkg/analyzer"
	"github.com/helmcode/inr-assistant/pkg/formatter"
)

var (
	dietToday    string
	dietTomorrow string
	offline      bool
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze how your diet may affect your INR",
		Long: `Send today's and tomorrow's diet together with your recent INR history to the
AI analyzer. When no OpenAI key is configured, or the request fails, a neutral
local analysis is shown instead.

Examples:
  # Analyze two days of meals
  inr-assistant analyze --today "spinach salad, rice" --tomorrow "pasta"

  # Machine-readable output for another user
  inr-assistant analyze --today "kale smoothie" -u dana -o json

  # Skip the remote analyzer entirely
  inr-assistant analyze --today "broccoli" --offline`,
		Args: cobra.NoArgs,
		RunE: runAnalyze,
	}

	cmd.Flags().StringVar(&dietToday, "today", "", "What you ate or plan to eat today")
	cmd.Flags().StringVar(&dietTomorrow, "tomorrow", "", "What you plan to eat tomorrow")
	cmd.Flags().BoolVar(&offline, "offline", false, "Use the local analysis without calling OpenAI")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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

	svc := analyzer.FromConfig(rt.cfg.AI, rt.log)
	if rt.human() {
		printAnalyzeHeader(rt, uid, svc)
	}

	var out analyzer.Outcome
	if offline {
		out = svc.Offline(state)
	} else {
		s := rt.newSpinner("Analyzing diet with AI...")
		if rt.human() {
			s.Start()
		}
		out = svc.Perform(ctx, state, dietToday, dietTomorrow)
		s.Stop()
	}

	switch {
	case out.Source == analyzer.SourceRemote:
		rt.printSuccess("Analysis complete")
	case out.Err != nil && !rt.cfg.AI.FallbackToMock:
		rt.printError(fmt.Sprintf("Remote analysis failed: %v", out.Err))
	case out.Err != nil:
		rt.printWarning(fmt.Sprintf("Remote analysis unavailable (%s), showing local analysis", out.Reason))
	}

	return formatter.DisplayAnalysis(rt.out, out, outputFormat)
}

func printAnalyzeHeader(rt *runtime, uid string, svc *analyzer.Service) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(rt.errOut)
	cyan.Fprintln(rt.errOut, "🩸 INR Diet Assistant")
	fmt.Fprintf(rt.errOut, "👤 Patient: %s\n", uid)
	if svc.RemoteEnabled() && !offline {
		fmt.Fprintf(rt.errOut, "🤖 Model: %s\n", svc.Model())
	} else {
		fmt.Fprintln(rt.errOut, "🤖 Model: local analysis")
	}
	fmt.Fprintln(rt.errOut)
}
