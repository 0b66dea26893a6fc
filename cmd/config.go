package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helmcode/inr-assistant/pkg/config"
	"github.com/helmcode/inr-assistant/pkg/formatter"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
		Long: `Settings are resolved per field from the environment (including .env),
then the YAML config file, then built-in defaults.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print every setting and where it came from",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}, &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for errors",
		Args:  cobra.NoArgs,
		RunE:  runConfigValidate,
	})
	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	settings := make([]formatter.Setting, 0, len(config.Keys))
	for _, key := range config.Keys {
		value := rt.cfg.Value(key)
		if config.IsSecret(key) && value != "" {
			value = config.AIConfig{APIKey: value}.MaskedAPIKey()
		}
		settings = append(settings, formatter.Setting{
			Key:    key,
			Value:  value,
			Source: rt.report.Origins[key],
		})
	}
	return formatter.DisplaySettings(rt.out, settings, outputFormat)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	v := rt.cfg.Validate()
	warnings := append(append([]string{}, rt.report.Warnings...), v.Warnings...)
	formatter.DisplayValidation(rt.out, v.Errors, warnings)
	if !v.OK() {
		return fmt.Errorf("configuration has %d error(s)", len(v.Errors))
	}
	return nil
}
