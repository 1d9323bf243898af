package internal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/artcrate/internal/config"
	"github.com/MrSnakeDoc/artcrate/internal/errs"
	"github.com/MrSnakeDoc/artcrate/internal/fetcher"
	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/middleware"
	"github.com/MrSnakeDoc/artcrate/internal/models"
	"github.com/MrSnakeDoc/artcrate/internal/prompter"
	"github.com/MrSnakeDoc/artcrate/internal/utils"

	"github.com/spf13/cobra"
)

func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the local copy of the catalog",
	}

	for _, factory := range []middleware.CommandFactory{
		newCacheInfoCmd,
		newCacheClearCmd,
		newCachePathCmd,
		newCacheOpenCmd,
	} {
		cmd.AddCommand(withCoordinator(factory)())
	}
	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show when the local copy was downloaded and how many assets it holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coord, err := middleware.Get[*fetcher.Coordinator](cmd, middleware.CtxKeyCoordinator)
			if err != nil {
				return err
			}
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}

			info := coord.CacheInfo(cmd.Context())

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			return renderCacheInfo(cmd, cfg, coord.CacheLocation(), info)
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func renderCacheInfo(cmd *cobra.Command, cfg *config.Config, location string, info models.CacheInfo) error {
	rows := [][]string{
		{"Location", location},
		{"Backend", cfg.Store.Backend},
		{"Expiry", cfg.EffectiveExpiry().String()},
	}

	if !info.Exists {
		rows = append(rows, []string{"Cached", "no"})
	} else {
		ts := time.UnixMilli(*info.Timestamp)
		rows = append(rows,
			[]string{"Cached", "yes"},
			[]string{"Downloaded", fmt.Sprintf("%s (%s ago)", ts.Local().Format(time.RFC1123), utils.HumanAge(time.Now(), ts))},
			[]string{"Assets", strconv.Itoa(*info.AssetCount)},
		)
	}
	if size, err := utils.DirSize(location); err == nil {
		rows = append(rows, []string{"Size on disk", utils.HumanSize(size)})
	} else {
		logger.Debug("cache size: %v", err)
	}

	table := logger.CreateTable(cmd.OutOrStdout(), []string{"Cache", ""})
	for _, r := range rows {
		if err := table.Append(r); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

func newCacheClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the local copy and download the catalog again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coord, err := middleware.Get[*fetcher.Coordinator](cmd, middleware.CtxKeyCoordinator)
			if err != nil {
				return err
			}

			yes, err := cmd.Flags().GetBool("yes")
			if err != nil {
				return err
			}
			if !yes {
				p := prompter.New(cmd.InOrStdin(), cmd.ErrOrStderr())
				ok, err := p.Confirm("Delete the cached catalog and download it again?")
				if err != nil {
					return err
				}
				if !ok {
					return middleware.FlagComboError(errs.ClearNotConfirmed)
				}
			}

			assets, err := coord.ClearAndRefetch(cmd.Context())
			if err != nil {
				return err
			}
			logger.Success("Cache rebuilt with %d assets", len(assets))
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coord, err := middleware.Get[*fetcher.Coordinator](cmd, middleware.CtxKeyCoordinator)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), coord.CacheLocation())
			return err
		},
	}
}

func newCacheOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open the cache directory in the file browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coord, err := middleware.Get[*fetcher.Coordinator](cmd, middleware.CtxKeyCoordinator)
			if err != nil {
				return err
			}
			if err := coord.OpenCacheLocation(cmd.Context()); err != nil {
				return fmt.Errorf("failed to open cache location: %w", err)
			}
			logger.Info("Opened %s", coord.CacheLocation())
			return nil
		},
	}
}
