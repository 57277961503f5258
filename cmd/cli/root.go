package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/exopredict/exopredict/internal/config"
	"github.com/exopredict/exopredict/internal/initialization"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// errReported is returned after a failure has already been rendered
var errReported = errors.New("failure already reported")

// app is filled in by the root command before any subcommand runs
type app struct {
	container *initialization.Container
}

func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "exopredict",
		Short: "Exoplanet prediction client",
		Long: `exopredict asks a scoring service how likely a Kepler object is to be a planet.
Objects can be looked up by KepID, described by a full feature vector, or uploaded
in bulk as a CSV file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(config.LoadOptions{
				ConfigFile: configFile,
				Flags:      cmd.Flags(),
			})
			if err != nil {
				return err
			}

			if cfg.Debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			a.container = initialization.NewContainer(cfg)
			return nil
		},
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("api-url", "", "Override the scoring service URL")
	rootCmd.PersistentFlags().String("download-dir", "", "Directory for downloaded files")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Request timeout")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: config.yaml in ., ./config or $HOME/.exopredict)")

	rootCmd.AddCommand(NewFeaturesCommand(a))
	rootCmd.AddCommand(NewPredictCommand(a))
	rootCmd.AddCommand(NewTemplateCommand(a))
	rootCmd.AddCommand(NewInteractiveCommand(a))
	rootCmd.AddCommand(NewStatusCommand(a))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			log.Debug().Err(err).Msg("command failed")
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		cancel()
		os.Exit(1)
	}
}
