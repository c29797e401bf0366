package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flipmatch/flipmatch-go/internal/ws"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch CODE",
		Short: "Spectate a game without taking a seat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)
			gameCode := args[0]

			conn, err := DialGame(cfg.WSURL())
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			if err := conn.Send(ws.TypeWatchGame, ws.WatchGamePayload{GameCode: gameCode}); err != nil {
				return err
			}
			out.PrintMessage("Watching " + gameCode)

			for {
				event, err := conn.ReadEvent()
				if err != nil {
					return nil
				}

				switch event.Type {
				case ws.TypeGameState:
					out.Print(event.Snapshot)
				case ws.TypePlayerJoined:
					names := make([]string, 0, len(event.Roster.Players))
					for _, p := range event.Roster.Players {
						names = append(names, p.Name)
					}
					out.PrintMessage("Players: " + strings.Join(names, ", "))
				case ws.TypeErrorMessage:
					out.PrintError(fmt.Errorf("%s", event.Error.Message))
				}
			}
		},
	}
}
