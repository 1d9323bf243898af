package internal

import (
	"github.com/MrSnakeDoc/artcrate/internal/middleware"
	"github.com/spf13/cobra"
)

var withCoordinator = middleware.UseMiddlewareChain(middleware.LoadConfig, middleware.OpenCoordinator)

var defaultCommands = []middleware.CommandFactory{
	withCoordinator(NewSearchCmd),
	withCoordinator(NewTypesCmd),
	withCoordinator(NewPacksCmd),
	NewCacheCmd,
	middleware.UseMiddlewareChain(middleware.LoadConfig)(NewServeCmd),
	NewConfigCmd,
	NewVersionCmd,
}

func RegisterSubCommands(cmd *cobra.Command) {
	for _, factory := range defaultCommands {
		cmd.AddCommand(factory())
	}
}
