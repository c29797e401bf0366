package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flipmatch/flipmatch-go/internal/model"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Query game sessions",
	}

	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameRecentCmd())
	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get CODE",
		Short: "Show the current snapshot of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var snap model.Snapshot
			if err := client.Get("/api/v1/games/"+args[0], &snap); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(&snap)
			return nil
		},
	}
}

func newGameRecentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently completed games",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result RecentResult
			path := fmt.Sprintf("/api/v1/games/recent?limit=%d", limit)
			if err := client.Get(path, &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of games")
	return cmd
}
