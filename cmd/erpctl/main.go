// Command erpctl operates the ERP back office from a terminal
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/erp/backoffice/internal/client"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	envFile   string
	statePath string
	yes       bool

	cfg      *client.Config
	log      *zap.Logger
	client   *client.Client
	services *client.Services
	term     *terminal
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "erpctl",
		Short:         "Command line client for the ERP back office",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = logger.Sync(a.log)
			}
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "environment file with ERP_* settings")
	root.PersistentFlags().StringVar(&a.statePath, "state", "", "session state file (default: <user config dir>/erp-backoffice/state.json)")
	root.PersistentFlags().BoolVarP(&a.yes, "yes", "y", false, "answer yes to confirmation prompts")

	root.AddCommand(
		loginCommand(a),
		logoutCommand(a),
		whoamiCommand(a),
		themeCommand(a),
		referenceCommand(a),
		callCommand(a),
		exportCommand(a),
		printCommand(a),
		attachCommand(a),
	)
	for _, cmd := range familyCommands(a) {
		root.AddCommand(cmd)
	}
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := client.LoadConfig(a.envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	level := "warn"
	if cfg.Enabled("debug") {
		level = "debug"
	}
	a.log, err = logger.New(&logger.Config{
		Level:      level,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "15:04:05",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	path := a.statePath
	if path == "" {
		if path, err = defaultStatePath(); err != nil {
			return err
		}
	}
	state, err := client.OpenState(path)
	if err != nil {
		return err
	}

	a.term = newTerminal(cmd.InOrStdin(), cmd.ErrOrStderr(), a.yes)
	a.client, err = client.New(cfg, state,
		client.WithNotifier(a.term),
		client.WithNavigator(a.term),
		client.WithLogger(a.log))
	if err != nil {
		return err
	}
	a.services = client.NewServices(a.client)
	a.log.Debug("Client ready",
		zap.String("base_url", cfg.BaseURL),
		zap.String("state", path))
	return nil
}

func defaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "erp-backoffice", "state.json"), nil
}
