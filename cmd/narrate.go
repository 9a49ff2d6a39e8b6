// Package cmd defines and implements the CLI commands for the route-narrator executable.
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newNarrateCmd creates the 'narrate' subcommand. The root command runs the
// same logic when invoked without a subcommand.
func newNarrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "narrate",
		Short: "Narrates the configured route",
		Long: `Prompts for a language unless --locale is set, then narrates each step
of the configured route with a pause between steps.`,
		Args: cobra.NoArgs,
		RunE: runNarrateCommand,
	}
}

func runNarrateCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.GetLogger()

	summary, err := appInstance.GetNarrator().Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), appInstance.GetRoute())
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("narration interrupted", zap.Int("steps", summary.Steps))
		return nil
	case err != nil:
		return fmt.Errorf("narrate: %w", err)
	case summary.Rejected:
		logger.Debug("narration skipped after invalid locale selection")
	default:
		logger.Debug("narrate command finished",
			zap.Stringer("run_id", summary.RunID),
			zap.String("locale", summary.Locale),
			zap.Int("percent", summary.Percent),
		)
	}
	return nil
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}
