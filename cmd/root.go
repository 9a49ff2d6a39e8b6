package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/JakeFAU/route-narrator/internal/app"
	settings "github.com/JakeFAU/route-narrator/internal/config"
	"github.com/JakeFAU/route-narrator/internal/locale"
	"github.com/JakeFAU/route-narrator/internal/logging"
	"github.com/JakeFAU/route-narrator/internal/narration"
	"github.com/JakeFAU/route-narrator/internal/route"
	"github.com/JakeFAU/route-narrator/pkg/config"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// Narrator runs one narration over a route.
type Narrator interface {
	Run(ctx context.Context, in io.Reader, out io.Writer, r route.Route) (narration.Summary, error)
}

// App defines the application interface that commands will use.
// This allows us to inject a fake app during tests.
type App interface {
	Close()
	GetLogger() *zap.Logger
	GetNarrator() Narrator
	GetRoute() route.Route
}

// runtimeApp adapts *app.App to the command-facing interface.
type runtimeApp struct {
	*app.App
}

func (r runtimeApp) GetNarrator() Narrator {
	return r.App.GetNarrator()
}

// newApp is the application factory. It's a variable so we can
// replace it with a fake factory in our tests.
var newApp = func(ctx context.Context, cfg settings.Config, logger *zap.Logger) (App, error) {
	a, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return runtimeApp{a}, nil
}

// newRootCmd creates and configures the root command. Each call owns a
// fresh viper instance so commands can be built repeatedly in tests.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "route-narrator",
		Short: "Narrates a route step by step in Turkish or English.",
		Long: `route-narrator asks for a language, then walks a fixed route one step
at a time, printing progress, the converted distance and direction of each
leg, and a lookahead to the next step. Turkish narration uses kilometres,
English narration uses miles.`,
		SilenceUsage:  true,
		SilenceErrors: true,

		// Builds the logger and the application before any subcommand runs.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			used, err := config.InitConfig(v, cfgFile)
			if err != nil {
				return err
			}
			cfg, err := settings.FromViper(v)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(logging.Config{
				Development: cfg.Logging.Development,
				Level:       cfg.Logging.Level,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			zap.ReplaceGlobals(logger)
			if used == "" {
				logger.Debug("config file not found; using defaults and environment variables")
			} else {
				logger.Debug("config file loaded", zap.String("path", used))
			}

			appInstance, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		// Shuts services down once the command returns.
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},

		RunE: runNarrateCommand,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or $HOME/.route-narrator/config.yaml)")
	flags.String("locale", "", localeUsage())
	flags.Duration("interval", route.DefaultInterval, "pause between narrated steps")
	flags.Bool("trailing-delay", false, "pause after the final step as well")
	flags.String("log-level", "info", "minimum log level (debug, info, warn, error)")
	bindFlags(v, cmd, map[string]string{
		"narration.locale":      "locale",
		"pacing.interval":       "interval",
		"pacing.trailing_delay": "trailing-delay",
		"logging.level":         "log-level",
	})

	cmd.AddCommand(newNarrateCmd())
	return cmd
}

// localeUsage lists the selectable locale tokens, e.g. "1 = tr, 2 = en".
func localeUsage() string {
	choices := make([]string, 0, 2)
	for _, loc := range locale.All() {
		choices = append(choices, fmt.Sprintf("%d = %s", loc.Token, loc.Tag))
	}
	return fmt.Sprintf("locale token (%s); skips the prompt", strings.Join(choices, ", "))
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		// BindPFlag only fails on a nil flag, which would be a wiring bug.
		if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %q: %v", flag, err))
		}
	}
}

// Execute is the main entry point. SIGINT and SIGTERM cancel the running
// narration and exit cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
