package internal

import (
	"errors"
	"os"
	"strings"

	"github.com/MrSnakeDoc/artcrate/internal/logger"
	"github.com/MrSnakeDoc/artcrate/internal/middleware"
	"github.com/MrSnakeDoc/artcrate/internal/version"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artcrate",
		Short: "Browse the game asset catalog from the terminal",
		Long: `artcrate downloads the published game asset spreadsheet, keeps a local copy
and lets you search, filter and page through it, online or offline.

The copy is refreshed at most once a day (once a week with env: development);
use "artcrate cache clear" to force a fresh download.`,
		Example: `artcrate search knight --type character
artcrate packs
artcrate serve --addr 127.0.0.1:7777`,
		PersistentPreRun: func(*cobra.Command, []string) {
			logger.ConfigureLoggerFromFlags()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				version.Print(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolP("version", "v", false, "Print version information")
	cmd.PersistentFlags().CountVarP(&logger.FlagVerboseCount, "verbose", "V", "Verbose output (repeatable)")
	cmd.PersistentFlags().BoolVarP(&logger.FlagQuiet, "quiet", "q", false, "Only print errors")
	cmd.PersistentFlags().BoolVar(&logger.FlagJSON, "json-logs", false, "Emit logs as JSON")
	cmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/artcrate/config.yml)")

	RegisterSubCommands(cmd)

	return cmd
}

func Execute() error {
	root := NewRootCmd()
	defer middleware.Cleanup()
	defer logger.Sync()

	if os.Getenv("COMP_LINE") != "" ||
		(len(os.Args) > 1 && strings.HasPrefix(os.Args[1], "__complete")) {
		return root.Execute()
	}

	if err := root.Execute(); err != nil {
		if !errors.Is(err, middleware.ErrLogged) {
			logger.LogError("%v", err)
		}
		return err
	}
	return nil
}
