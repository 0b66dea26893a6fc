package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helmcode/inr-assistant/pkg/admin"
	"github.com/helmcode/inr-assistant/pkg/analyzer"
	"github.com/helmcode/inr-assistant/pkg/auth"
	"github.com/helmcode/inr-assistant/pkg/server"
)

var serveAddr string

// NewServeCmd starts the HTTP API. version is reported by /health.
func NewServeCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the patient and administrator API over HTTP. Callers authenticate with
a Firebase ID token (Authorization: Bearer <token>), or with X-User-* headers
when AUTH_MODE=header.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, version)
		},
	}
	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides SERVER_ADDR)")
	return cmd
}

func runServe(cmd *cobra.Command, version string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.close()
	ctx := cmd.Context()

	v := rt.cfg.Validate()
	for _, w := range v.Warnings {
		rt.log.Warn(w)
	}
	if !v.OK() {
		for _, e := range v.Errors {
			rt.log.Error(e)
		}
		return fmt.Errorf("configuration has %d error(s), run 'config validate'", len(v.Errors))
	}

	st, err := rt.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	verifier, err := auth.NewVerifier(ctx, rt.cfg, rt.log)
	if err != nil {
		return fmt.Errorf("failed to initialize authentication: %w", err)
	}

	svc := analyzer.FromConfig(rt.cfg.AI, rt.log)
	h := server.NewHandler(st, svc, admin.New(st, rt.cfg.AdminEmail, rt.log), verifier, rt.log, version)

	addr := rt.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	rt.log.Info("starting",
		zap.String("store", rt.cfg.Store.Backend),
		zap.String("auth", rt.cfg.Server.AuthMode),
		zap.Bool("remoteAnalysis", svc.RemoteEnabled()),
	)
	return server.New(addr, h, rt.log).Run(ctx)
}
