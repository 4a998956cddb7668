package cli

import (
	"fmt"

	app "github.com/rocketscienceinc/gridtactoe/internal"
	"github.com/rocketscienceinc/gridtactoe/internal/config"
	"github.com/spf13/cobra"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the game over HTTP and WebSocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.Load(rootOpts.ConfigPath)
			if err != nil {
				return err
			}

			logger := NewLogger(conf.LogLevel, cmd.OutOrStdout())

			if err = app.RunApp(logger, conf); err != nil {
				return fmt.Errorf("app run failed: %w", err)
			}

			return nil
		},
	}
}
