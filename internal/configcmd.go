package internal

import (
	"fmt"
	"os"

	"github.com/MrSnakeDoc/artcrate/internal/config"
	"github.com/MrSnakeDoc/artcrate/internal/errs"
	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/middleware"

	"github.com/spf13/cobra"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the artcrate configuration file",
	}
	cmd.AddCommand(
		middleware.UseMiddlewareChain(middleware.LoadConfig)(newConfigInitCmd)(),
		newConfigPathCmd(),
	)
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}

			path := configPath(cmd)
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(path); err == nil && !force {
				return middleware.FlagComboError(errs.ConfigExists, path)
			}

			if err := cfg.Save(path); err != nil {
				return err
			}
			logger.Success("config written to %s", path)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	cmd.Flags().Bool("force", false, "overwrite an existing config file")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the config file is read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), configPath(cmd))
			return err
		},
	}
}

func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}
