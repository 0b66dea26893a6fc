package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helmcode/inr-assistant/pkg/config"
	"github.com/helmcode/inr-assistant/pkg/formatter"
	"github.com/helmcode/inr-assistant/pkg/logger"
	"github.com/helmcode/inr-assistant/pkg/model"
	"github.com/helmcode/inr-assistant/pkg/store"
	"github.com/helmcode/inr-assistant/pkg/tracker"
)

// EnvUserID selects the local patient when --user is not given.
const EnvUserID = "INR_USER_ID"

const localUser = "local"

var (
	configFile   string
	userID       string
	outputFormat string
)

// AddGlobalFlags registers the flags shared by every subcommand.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&configFile, "config", config.DefaultFile, "Path to the YAML configuration file")
	root.PersistentFlags().StringVarP(&userID, "user", "u", "", "User id of the patient (default $"+EnvUserID+" or \"local\")")
	root.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatter.FormatHuman, "Output format (human, json, yaml)")
}

// runtime is what a command needs after configuration has been resolved.
type runtime struct {
	cfg    *config.Config
	report *config.Report
	log    *zap.Logger
	out    io.Writer
	errOut io.Writer
}

func setup(cmd *cobra.Command) (*runtime, error) {
	if !formatter.ValidFormat(outputFormat) {
		return nil, fmt.Errorf("unsupported output format %q", outputFormat)
	}

	cfg, report := config.Load(configFile)
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	report.Log(log)

	return &runtime{
		cfg:    cfg,
		report: report,
		log:    log,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}, nil
}

func (rt *runtime) close() {
	logger.Sync(rt.log)
}

func (rt *runtime) openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, rt.cfg, rt.log)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", rt.cfg.Store.Backend, err)
	}
	return st, nil
}

// human reports whether decorations (spinner, status lines) should be printed.
func (rt *runtime) human() bool {
	return outputFormat == formatter.FormatHuman
}

func currentUser() string {
	if userID != "" {
		return userID
	}
	if id := os.Getenv(EnvUserID); id != "" {
		return id
	}
	return localUser
}

// loadPatient makes sure the user exists and returns their tracking state.
func loadPatient(ctx context.Context, st store.Store, uid string) (*tracker.State, error) {
	err := st.EnsureUser(ctx, model.UserRecord{ID: uid, DisplayName: uid, CreatedAt: time.Now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	data, err := st.LoadINRData(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to load INR data: %w", err)
	}
	return tracker.FromINRData(data), nil
}

func savePatient(ctx context.Context, st store.Store, uid string, s *tracker.State) error {
	if err := st.SaveINRData(ctx, uid, s.INRData(time.Now())); err != nil {
		return fmt.Errorf("failed to save INR data: %w", err)
	}
	return nil
}

func (rt *runtime) newSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(rt.errOut))
	s.Suffix = " " + suffix
	return s
}

func (rt *runtime) printSuccess(msg string) {
	if rt.human() {
		color.New(color.FgGreen).Fprintf(rt.errOut, "✓ %s\n", msg)
	}
}

func (rt *runtime) printWarning(msg string) {
	color.New(color.FgYellow).Fprintf(rt.errOut, "! %s\n", msg)
}

func (rt *runtime) printError(msg string) {
	color.New(color.FgRed).Fprintf(rt.errOut, "✗ %s\n", msg)
}
