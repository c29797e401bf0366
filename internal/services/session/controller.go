package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/flipmatch/flipmatch-go/internal/dependencies/clock"
	"github.com/flipmatch/flipmatch-go/internal/dependencies/random"
	"github.com/flipmatch/flipmatch-go/internal/model"
	"github.com/flipmatch/flipmatch-go/internal/storage"
)

// RevealDelay is the pause between a pair of cards both becoming
// face-up and the server resolving match or mismatch, so every client
// gets to render both faces.
const RevealDelay = 900 * time.Millisecond

// Notifier delivers outbound events to every connection currently
// joined to a game code. Delivery is fire-and-forget.
type Notifier interface {
	GameState(code model.GameCode, snap *model.Snapshot)
	PlayerJoined(code model.GameCode, roster []model.PlayerInfo)
}

// Controller owns every session's state and the turn-resolution
// algorithm. A single mutex serializes all commands for all sessions
// in the process, so no two handlers ever interleave a read-modify-
// write on session fields. The only deliberate yield is the
// RevealDelay timer; when it fires, the resolution step re-acquires
// the lock and re-validates everything it is about to touch, since
// joins, leaves and a third flip attempt may legally have run in
// between.
type Controller struct {
	mu       sync.Mutex
	registry *Registry
	notifier Notifier
	storage  storage.Storage
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
}

// NewController creates a new session Controller
func NewController(
	registry *Registry,
	notifier Notifier,
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		registry: registry,
		notifier: notifier,
		storage:  store,
		clock:    clk,
		random:   rnd,
		logger:   logger.With(slog.String("component", "session")),
	}
}

// Join admits a connection into the session for code, creating the
// session if the code is unseen. Rejoining with the same connection is
// a no-op on the roster. Returns the current snapshot for the joiner
// and whether it is the host (the first participant, derived on
// demand).
func (c *Controller) Join(code model.GameCode, connID model.ConnID, name string) (*model.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	sess := c.registry.GetOrCreate(code, now)

	if name == "" {
		name = model.DefaultDisplayName
	}

	if sess.GetParticipant(connID) == nil {
		sess.Participants = append(sess.Participants, model.Participant{
			ConnID:      connID,
			DisplayName: name,
			JoinedAt:    now,
		})
		sess.UpdatedAt = now

		c.logger.Info("participant joined",
			slog.String("game_code", string(code)),
			slog.String("conn_id", string(connID)),
			slog.String("name", name),
			slog.Int("participants", len(sess.Participants)),
		)
	}

	snap := sess.Snapshot()
	c.notifier.GameState(code, snap)
	c.notifier.PlayerJoined(code, sess.Roster())

	return snap, sess.IsHost(connID)
}

// Initialize starts or restarts a round: fresh shuffled deck, scores
// zeroed, turn back to the first participant. Any participant may
// issue it; calling it repeatedly always fully resets round state.
// Issued by a non-participant or against an unknown code it is
// silently dropped.
func (c *Controller) Initialize(code model.GameCode, connID model.ConnID, numMatches int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess := c.registry.Get(code)
	if sess == nil {
		c.dropped(code, connID, "initialize", "unknown session")
		return
	}
	if sess.GetParticipant(connID) == nil {
		c.dropped(code, connID, "initialize", "not a participant")
		return
	}

	n := model.ClampMatchCount(numMatches)
	deck := make([]string, 0, 2*n)
	for _, symbol := range model.CardPalette[:n] {
		deck = append(deck, symbol, symbol)
	}
	c.random.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	sess.Deck = deck
	sess.MatchCount = n
	sess.Revealed = nil
	sess.Matched = nil
	for i := range sess.Participants {
		sess.Participants[i].Score = 0
	}
	sess.TurnIndex = 0
	sess.Completed = false
	sess.Epoch++
	sess.UpdatedAt = c.clock.Now()

	c.logger.Info("round initialized",
		slog.String("game_code", string(code)),
		slog.Int("num_matches", n),
		slog.Int("participants", len(sess.Participants)),
	)

	c.notifier.GameState(code, sess.Snapshot())
}

// Flip reveals the card at index for the active participant. The
// checks run in order and the first failure drops the command without
// state change or broadcast: late and duplicate flips are expected
// network races, not client errors. Revealing the second card of a
// pair broadcasts both faces and schedules the resolution step after
// RevealDelay.
func (c *Controller) Flip(code model.GameCode, connID model.ConnID, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess := c.registry.Get(code)
	if sess == nil {
		c.dropped(code, connID, "flip", "unknown session")
		return
	}
	if !sess.InProgress() {
		c.dropped(code, connID, "flip", "round not in progress")
		return
	}
	active := sess.ActiveParticipant()
	if active == nil || active.ConnID != connID {
		c.dropped(code, connID, "flip", "not this connection's turn")
		return
	}
	if len(sess.Revealed) >= 2 {
		c.dropped(code, connID, "flip", "pair already pending")
		return
	}
	if index < 0 || index >= len(sess.Deck) {
		c.dropped(code, connID, "flip", "index out of range")
		return
	}
	if sess.IsRevealed(index) || sess.IsMatched(index) {
		c.dropped(code, connID, "flip", "card already face-up")
		return
	}

	sess.Revealed = append(sess.Revealed, index)
	sess.UpdatedAt = c.clock.Now()

	// Schedule before broadcasting so anyone who sees both faces can
	// rely on the resolution already being queued
	if len(sess.Revealed) == 2 {
		epoch := sess.Epoch
		c.clock.AfterFunc(RevealDelay, func() {
			c.resolvePair(code, epoch)
		})
	}

	c.notifier.GameState(code, sess.Snapshot())
}

// resolvePair runs when the reveal delay elapses. The session may have
// been reset, emptied or destroyed since the pair was revealed, so
// everything is re-validated under the lock before any mutation.
func (c *Controller) resolvePair(code model.GameCode, epoch int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess := c.registry.Get(code)
	if sess == nil || sess.Epoch != epoch || len(sess.Revealed) != 2 {
		return
	}

	a, b := sess.Revealed[0], sess.Revealed[1]

	if sess.Deck[a] == sess.Deck[b] {
		// The matcher keeps the turn
		if active := sess.ActiveParticipant(); active != nil {
			active.Score++
		}
		sess.Matched = append(sess.Matched, a, b)
		sess.Revealed = nil

		if sess.AllMatched() {
			sess.Completed = true
			c.logger.Info("round completed",
				slog.String("game_code", string(code)),
				slog.Int("participants", len(sess.Participants)),
			)
			c.recordResults(sess)
		}
	} else {
		sess.Revealed = nil
		// Guard against an empty roster; the timer is never cancelled
		// even if everyone left mid-resolution
		if n := len(sess.Participants); n > 0 {
			sess.TurnIndex = (sess.TurnIndex + 1) % n
		}
	}

	sess.UpdatedAt = c.clock.Now()
	c.notifier.GameState(code, sess.Snapshot())
}

// Leave removes a connection from the session's roster. The session is
// destroyed when the roster empties; otherwise the turn is re-based to
// the first participant whenever the removal would disturb it.
func (c *Controller) Leave(code model.GameCode, connID model.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess := c.registry.Get(code)
	if sess == nil {
		return
	}

	idx := sess.ParticipantIndex(connID)
	if idx < 0 {
		return
	}

	sess.Participants = append(sess.Participants[:idx], sess.Participants[idx+1:]...)

	c.logger.Info("participant left",
		slog.String("game_code", string(code)),
		slog.String("conn_id", string(connID)),
		slog.Int("participants", len(sess.Participants)),
	)

	if len(sess.Participants) == 0 {
		c.registry.Remove(code)
		c.logger.Info("session destroyed", slog.String("game_code", string(code)))
		return
	}

	if idx < sess.TurnIndex || sess.TurnIndex >= len(sess.Participants) {
		sess.TurnIndex = 0
	}
	sess.UpdatedAt = c.clock.Now()

	c.notifier.PlayerJoined(code, sess.Roster())
	c.notifier.GameState(code, sess.Snapshot())
}

// Snapshot returns the current state of the session for code. Read
// path for the HTTP API; goes through the same command lock.
func (c *Controller) Snapshot(code model.GameCode) (*model.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess := c.registry.Get(code)
	if sess == nil {
		return nil, model.ErrSessionNotFound
	}
	return sess.Snapshot(), nil
}

// recordResults archives a completed round: one summary for the game
// plus a high-score entry per participant. Failures are logged, never
// surfaced; archiving must not disturb play.
func (c *Controller) recordResults(sess *model.Session) {
	ctx := context.Background()
	now := c.clock.Now()

	scores := make(map[string]int, len(sess.Participants))
	for _, p := range sess.Participants {
		scores[p.DisplayName] = p.Score

		entry := &model.HighScore{
			Name:       p.DisplayName,
			Score:      p.Score,
			GameCode:   string(sess.Code),
			RecordedAt: now,
		}
		if err := c.storage.SaveHighScore(ctx, entry); err != nil {
			c.logger.Error("failed to save high score",
				slog.String("game_code", string(sess.Code)),
				slog.String("name", p.DisplayName),
				slog.String("error", err.Error()),
			)
		}
	}

	summary := &model.GameSummary{
		GameCode:    string(sess.Code),
		FinalScores: scores,
		Winner:      model.WinnerName(scores),
		CompletedAt: now,
	}
	if err := c.storage.SaveGameSummary(ctx, summary); err != nil {
		c.logger.Error("failed to save game summary",
			slog.String("game_code", string(sess.Code)),
			slog.String("error", err.Error()),
		)
	}
}

func (c *Controller) dropped(code model.GameCode, connID model.ConnID, command, reason string) {
	c.logger.Debug("command dropped",
		slog.String("game_code", string(code)),
		slog.String("conn_id", string(connID)),
		slog.String("command", command),
		slog.String("reason", reason),
	)
}
