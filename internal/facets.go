package internal

import (
	"github.com/MrSnakeDoc/artcrate/internal/fetcher"
	"github.com/MrSnakeDoc/artcrate/internal/list"
	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/middleware"

	"github.com/spf13/cobra"
)

func NewTypesCmd() *cobra.Command {
	return newFacetCmd("types", "List asset types with their asset counts", list.FacetType)
}

func NewPacksCmd() *cobra.Command {
	return newFacetCmd("packs", "List asset packs with their asset counts", list.FacetPack)
}

func newFacetCmd(use, short string, facet list.Facet) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coord, err := middleware.Get[*fetcher.Coordinator](cmd, middleware.CtxKeyCoordinator)
			if err != nil {
				return err
			}

			jsonOut, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}

			return list.New(coord, cmd.OutOrStdout(), !logger.FlagJSON).Execute(cmd.Context(), facet, jsonOut)
		},
	}

	cmd.Flags().Bool("json", false, "Output results in JSON format")
	return cmd
}
