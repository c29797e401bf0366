package cli

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flipmatch/flipmatch-go/internal/dependencies/random"
	"github.com/flipmatch/flipmatch-go/internal/model"
	"github.com/flipmatch/flipmatch-go/internal/services/bot"
	"github.com/flipmatch/flipmatch-go/internal/ws"
)

func newPlayCmd() *cobra.Command {
	var name string
	var botStrategy string
	var start int
	var botDelay time.Duration

	cmd := &cobra.Command{
		Use:   "play CODE",
		Short: "Join a game and play it live",
		Long: `Join the game with the given code over WebSocket and play it.

Without --bot the session is interactive: type a card index to flip it,
"start N" to begin a round with N pairs, or "quit" to leave. With --bot
a strategy plays the seat automatically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := &playSession{
				out:      NewOutput(cfg.Output),
				gameCode: args[0],
				name:     name,
				start:    start,
				botDelay: botDelay,
			}

			if botStrategy != "" {
				strategy, err := bot.ForName(botStrategy, random.New())
				if err != nil {
					return err
				}
				session.strategy = strategy
				session.memory = bot.NewMemory()
			}

			return session.run()
		},
	}

	cmd.Flags().StringVar(&name, "name", "Player", "Display name")
	cmd.Flags().StringVar(&botStrategy, "bot", "", "Play automatically with a strategy: easy, hard")
	cmd.Flags().IntVar(&start, "start", 0, "Start a round with this many pairs after joining")
	cmd.Flags().DurationVar(&botDelay, "bot-delay", time.Second, "Pause between bot moves")
	return cmd
}

type playSession struct {
	out      *Output
	gameCode string
	name     string
	start    int
	botDelay time.Duration

	strategy bot.Strategy
	memory   *bot.Memory

	conn     *GameConn
	connID   string
	lastDeck []string
}

func (p *playSession) run() error {
	conn, err := DialGame(cfg.WSURL())
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	p.conn = conn

	if err := conn.Send(ws.TypeJoinGame, ws.JoinGamePayload{
		GameCode: p.gameCode,
		Name:     p.name,
	}); err != nil {
		return err
	}

	if p.strategy == nil {
		go p.readCommands()
	}

	for {
		event, err := conn.ReadEvent()
		if err != nil {
			// The server going away ends the session cleanly
			return nil
		}

		switch event.Type {
		case ws.TypeJoined:
			p.connID = event.Joined.ConnID
			if event.Joined.Host {
				p.out.PrintMessage("Joined " + p.gameCode + " as host")
				if p.start > 0 {
					if err := p.conn.Send(ws.TypeInitializeGame, ws.InitializeGamePayload{
						GameCode:   p.gameCode,
						NumMatches: p.start,
					}); err != nil {
						return err
					}
				}
			} else {
				p.out.PrintMessage("Joined " + p.gameCode)
			}

		case ws.TypeGameState:
			p.out.Print(event.Snapshot)
			if p.strategy != nil {
				if done := p.botMove(event.Snapshot); done {
					return nil
				}
			}

		case ws.TypePlayerJoined:
			names := make([]string, 0, len(event.Roster.Players))
			for _, pl := range event.Roster.Players {
				names = append(names, pl.Name)
			}
			p.out.PrintMessage("Players: " + strings.Join(names, ", "))

		case ws.TypeErrorMessage:
			p.out.PrintError(fmt.Errorf("%s", event.Error.Message))
		}
	}
}

// readCommands feeds interactive stdin commands to the server
func (p *playSession) readCommands() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "quit":
			_ = p.conn.Close()
			return
		case strings.HasPrefix(line, "start"):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "start")))
			if err != nil {
				p.out.PrintError(fmt.Errorf("usage: start N"))
				continue
			}
			_ = p.conn.Send(ws.TypeInitializeGame, ws.InitializeGamePayload{
				GameCode:   p.gameCode,
				NumMatches: n,
			})
		default:
			index, err := strconv.Atoi(line)
			if err != nil {
				p.out.PrintError(fmt.Errorf("type a card index, \"start N\" or \"quit\""))
				continue
			}
			_ = p.conn.Send(ws.TypeCardFlip, ws.CardFlipPayload{
				GameCode: p.gameCode,
				Index:    index,
			})
		}
	}
	_ = p.conn.Close()
}

// botMove reacts to a state broadcast: update memory, and flip a card
// when it is this seat's turn. Returns true when the round is over.
func (p *playSession) botMove(snap *model.Snapshot) bool {
	if !slices.Equal(snap.ShuffledImages, p.lastDeck) {
		p.memory.Reset()
		p.lastDeck = slices.Clone(snap.ShuffledImages)
	}
	p.memory.Observe(snap)

	if snap.GameWon {
		return true
	}
	if len(snap.ShuffledImages) == 0 || !p.isMyTurn(snap) || len(snap.FlippedCards) >= 2 {
		return false
	}

	index, ok := p.strategy.ChooseCard(snap, p.memory)
	if !ok {
		return false
	}

	time.Sleep(p.botDelay)
	_ = p.conn.Send(ws.TypeCardFlip, ws.CardFlipPayload{
		GameCode: p.gameCode,
		Index:    index,
	})
	return false
}

func (p *playSession) isMyTurn(snap *model.Snapshot) bool {
	if snap.CurrentPlayerIndex < 0 || snap.CurrentPlayerIndex >= len(snap.Players) {
		return false
	}
	return snap.Players[snap.CurrentPlayerIndex].ID == p.connID
}
