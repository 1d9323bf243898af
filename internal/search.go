package internal

import (
	"slices"

	"github.com/MrSnakeDoc/artcrate/internal/catalog"
	"github.com/MrSnakeDoc/artcrate/internal/errs"
	"github.com/MrSnakeDoc/artcrate/internal/fetcher"
	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/middleware"
	"github.com/MrSnakeDoc/artcrate/internal/search"

	"github.com/spf13/cobra"
)

func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the asset catalog",
		Long: `Searches asset names, types and packs for the query (case-insensitive).
Without a query every asset is listed. Results are paged; use --page and
--per-page (10, 20, 50, or 0 for everything) to move through them.`,
		Example: `  artcrate search knight
  artcrate search --type character --type enemy --pack heroes
  artcrate search '^slime' --regex --json
  artcrate search --tag melee --per-page 50 --page 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := middleware.Get[*fetcher.Coordinator](cmd, middleware.CtxKeyCoordinator)
			if err != nil {
				return err
			}

			opts, err := searchOptions(cmd, args)
			if err != nil {
				return err
			}

			return search.New(coord, cmd.OutOrStdout(), !logger.FlagJSON).Execute(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringSliceP("type", "t", nil, "Only assets of this type (repeatable)")
	cmd.Flags().StringSliceP("pack", "p", nil, "Only assets from this pack (repeatable)")
	cmd.Flags().StringSlice("tag", nil, "Only assets carrying this tag (repeatable, all must match)")
	cmd.Flags().BoolP("regex", "r", false, "Treat the query as a regular expression")
	cmd.Flags().Int("page", 1, "Page to show")
	cmd.Flags().Int("per-page", catalog.DefaultPerPage, "Assets per page (10, 20, 50, 0 = all)")
	cmd.Flags().Bool("json", false, "Output the page as JSON")
	cmd.Flags().BoolP("refresh", "R", false, "Download the catalog even if the local copy is fresh")

	return cmd
}

func searchOptions(cmd *cobra.Command, args []string) (search.Options, error) {
	var opts search.Options
	var err error

	if len(args) > 0 {
		opts.Filter.Query = args[0]
	}
	if opts.Filter.Types, err = cmd.Flags().GetStringSlice("type"); err != nil {
		return opts, err
	}
	if opts.Filter.Packs, err = cmd.Flags().GetStringSlice("pack"); err != nil {
		return opts, err
	}
	if opts.Filter.Tags, err = cmd.Flags().GetStringSlice("tag"); err != nil {
		return opts, err
	}
	if opts.Filter.Regex, err = cmd.Flags().GetBool("regex"); err != nil {
		return opts, err
	}
	if opts.Page, err = cmd.Flags().GetInt("page"); err != nil {
		return opts, err
	}
	if opts.PerPage, err = cmd.Flags().GetInt("per-page"); err != nil {
		return opts, err
	}
	if opts.JSON, err = cmd.Flags().GetBool("json"); err != nil {
		return opts, err
	}
	if opts.Refresh, err = cmd.Flags().GetBool("refresh"); err != nil {
		return opts, err
	}

	switch {
	case opts.Filter.Regex && opts.Filter.Query == "":
		return opts, middleware.FlagComboError(errs.RegexNeedsQuery)
	case opts.Page < 1:
		return opts, middleware.FlagComboError(errs.InvalidPage, opts.Page)
	case !slices.Contains(catalog.PageSizes, opts.PerPage):
		return opts, middleware.FlagComboError(errs.InvalidPerPage, opts.PerPage)
	}
	return opts, nil
}
