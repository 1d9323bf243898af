package middleware

import (
	"context"

	"github.com/MrSnakeDoc/artcrate/internal/config"
	"github.com/spf13/cobra"
)

// LoadConfig reads the file named by --config (or the default location) and
// stores the result under CtxKeyConfig.
func LoadConfig(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	ctx := context.WithValue(cmd.Context(), CtxKeyConfig, cfg)
	cmd.SetContext(ctx)

	return next(cmd, args)
}
