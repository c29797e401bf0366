package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/flipmatch/flipmatch-go/internal/dependencies/mocks"
	"github.com/flipmatch/flipmatch-go/internal/model"
	"github.com/flipmatch/flipmatch-go/internal/storage/memory"
	"github.com/flipmatch/flipmatch-go/internal/testutil"
)

// recordingNotifier captures broadcasts for assertions
type recordingNotifier struct {
	states  []*model.Snapshot
	rosters [][]model.PlayerInfo
}

func (n *recordingNotifier) GameState(code model.GameCode, snap *model.Snapshot) {
	n.states = append(n.states, snap)
}

func (n *recordingNotifier) PlayerJoined(code model.GameCode, roster []model.PlayerInfo) {
	n.rosters = append(n.rosters, roster)
}

func (n *recordingNotifier) lastState() *model.Snapshot {
	if len(n.states) == 0 {
		return nil
	}
	return n.states[len(n.states)-1]
}

type ControllerSuite struct {
	suite.Suite
	registry   *Registry
	notifier   *recordingNotifier
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.registry = NewRegistry()
	s.notifier = &recordingNotifier{}
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.registry, s.notifier, s.storage, s.clock, s.random, testutil.NopLogger())
}

// twoPlayerRound joins p1 and p2 and initializes a two-pair round.
// With the mock random the deck stays in construction order:
// [palette0, palette0, palette1, palette1].
func (s *ControllerSuite) twoPlayerRound() {
	s.controller.Join("GAME1", "conn-1", "Alice")
	s.controller.Join("GAME1", "conn-2", "Bob")
	s.controller.Initialize("GAME1", "conn-1", 2)
}

// Join tests

func (s *ControllerSuite) TestJoinCreatesSessionAndReportsHost() {
	snap, host := s.controller.Join("GAME1", "conn-1", "Alice")
	s.True(host)
	s.Equal("GAME1", snap.GameCode)
	s.Require().Len(snap.Players, 1)
	s.Equal("Alice", snap.Players[0].Name)
	s.Equal(1, s.registry.Len())

	_, host = s.controller.Join("GAME1", "conn-2", "Bob")
	s.False(host)
}

func (s *ControllerSuite) TestJoinIsIdempotentForSameConnection() {
	s.twoPlayerRound()
	s.controller.Flip("GAME1", "conn-1", 0)
	s.controller.Flip("GAME1", "conn-1", 1)
	s.clock.Advance(RevealDelay)

	snap, host := s.controller.Join("GAME1", "conn-1", "Alice")
	s.True(host)
	s.Require().Len(snap.Players, 2)
	s.Equal(1, snap.Players[0].Score, "rejoin must not reset the score")
}

func (s *ControllerSuite) TestJoinSubstitutesDefaultName() {
	snap, _ := s.controller.Join("GAME1", "conn-1", "")
	s.Equal(model.DefaultDisplayName, snap.Players[0].Name)
}

func (s *ControllerSuite) TestJoinBroadcastsStateAndRoster() {
	s.controller.Join("GAME1", "conn-1", "Alice")
	s.Len(s.notifier.states, 1)
	s.Len(s.notifier.rosters, 1)
}

// Initialize tests

func (s *ControllerSuite) TestInitializeBuildsDeckWithEverySymbolTwice() {
	s.controller.Join("GAME1", "conn-1", "Alice")
	s.controller.Initialize("GAME1", "conn-1", 4)

	snap := s.notifier.lastState()
	s.Require().Len(snap.ShuffledImages, 8)

	counts := map[string]int{}
	for _, symbol := range snap.ShuffledImages {
		counts[symbol]++
	}
	s.Len(counts, 4)
	for symbol, count := range counts {
		s.Equal(2, count, "symbol %s", symbol)
	}
}

func (s *ControllerSuite) TestInitializeClampsMatchCount() {
	s.controller.Join("GAME1", "conn-1", "Alice")

	s.controller.Initialize("GAME1", "conn-1", 999)
	s.Len(s.notifier.lastState().ShuffledImages, 2*len(model.CardPalette))

	s.controller.Initialize("GAME1", "conn-1", 0)
	s.Len(s.notifier.lastState().ShuffledImages, 2)
}

func (s *ControllerSuite) TestInitializeResetsRoundState() {
	s.twoPlayerRound()
	s.controller.Flip("GAME1", "conn-1", 0)
	s.controller.Flip("GAME1", "conn-1", 1)
	s.clock.Advance(RevealDelay)
	s.controller.Flip("GAME1", "conn-1", 2)
	s.controller.Flip("GAME1", "conn-1", 3)
	s.clock.Advance(RevealDelay)
	s.True(s.notifier.lastState().GameWon)

	s.controller.Initialize("GAME1", "conn-2", 2)

	snap := s.notifier.lastState()
	s.False(snap.GameWon)
	s.Empty(snap.FlippedCards)
	s.Empty(snap.MatchedCards)
	s.Equal(0, snap.CurrentPlayerIndex)
	s.Equal(0, snap.Players[0].Score)
}

func (s *ControllerSuite) TestInitializeByNonParticipantDropped() {
	s.controller.Join("GAME1", "conn-1", "Alice")
	before := len(s.notifier.states)

	s.controller.Initialize("GAME1", "stranger", 2)

	s.Len(s.notifier.states, before)
	s.Empty(s.registry.Get("GAME1").Deck)
}

func (s *ControllerSuite) TestInitializeUnknownSessionDropped() {
	s.controller.Initialize("NOPE", "conn-1", 2)
	s.Empty(s.notifier.states)
	s.Equal(0, s.registry.Len())
}

// Flip tests

func (s *ControllerSuite) TestFirstFlipBroadcastsImmediately() {
	s.twoPlayerRound()

	s.controller.Flip("GAME1", "conn-1", 0)

	snap := s.notifier.lastState()
	s.Equal([]int{0}, snap.FlippedCards)
	s.Equal(0, s.clock.PendingTimers(), "no resolution scheduled for a single card")
}

func (s *ControllerSuite) TestSecondFlipSchedulesResolution() {
	s.twoPlayerRound()

	s.controller.Flip("GAME1", "conn-1", 0)
	s.controller.Flip("GAME1", "conn-1", 2)

	snap := s.notifier.lastState()
	s.Equal([]int{0, 2}, snap.FlippedCards)
	s.Equal(1, s.clock.PendingTimers())
}

func (s *ControllerSuite) TestMismatchAdvancesTurnAndClearsPair() {
	s.twoPlayerRound()

	s.controller.Flip("GAME1", "conn-1", 0)
	s.controller.Flip("GAME1", "conn-1", 2)
	s.clock.Advance(RevealDelay)

	snap := s.notifier.lastState()
	s.Empty(snap.FlippedCards)
	s.Empty(snap.MatchedCards)
	s.Equal(1, snap.CurrentPlayerIndex)
	s.Equal(0, snap.Players[0].Score)
	s.Equal(0, snap.Players[1].Score)
}

func (s *ControllerSuite) TestMatchKeepsTurnAndScores() {
	s.twoPlayerRound()

	s.controller.Flip("GAME1", "conn-1", 0)
	s.controller.Flip("GAME1", "conn-1", 1)
	s.clock.Advance(RevealDelay)

	snap := s.notifier.lastState()
	s.Empty(snap.FlippedCards)
	s.ElementsMatch([]int{0, 1}, snap.MatchedCards)
	s.Equal(0, snap.CurrentPlayerIndex, "matcher keeps the turn")
	s.Equal(1, snap.Players[0].Score)
	s.False(snap.GameWon)
}

func (s *ControllerSuite) TestCompletionWhenAllPairsMatched() {
	s.twoPlayerRound()

	s.controller.Flip("GAME1", "conn-1", 0)
	s.controller.Flip("GAME1", "conn-1", 1)
	s.clock.Advance(RevealDelay)
	s.controller.Flip("GAME1", "conn-1", 2)
	s.controller.Flip("GAME1", "conn-1", 3)
	s.clock.Advance(RevealDelay)

	snap := s.notifier.lastState()
	s.True(snap.GameWon)
	s.ElementsMatch([]int{0, 1, 2, 3}, snap.MatchedCards)
	s.Equal(2, snap.Players[0].Score)
}

func (s *ControllerSuite) TestFlipAfterCompletionDropped() {
	s.twoPlayerRound()
	s.controller.Flip("GAME1", "conn-1", 0)
	s.controller.Flip("GAME1", "conn-1", 1)
	s.clock.Advance(RevealDelay)
	s.controller.Flip("GAME1", "conn-1", 2)
	s.controller.Flip("GAME1", "conn-1", 3)
	s.clock.Advance(RevealDelay)
	before := len(s.notifier.states)

	s.controller.Flip("GAME1", "conn-1", 0)

	s.Len(s.notifier.states, before, "completed round must drop flips silently")
}

func (s *ControllerSuite) TestFlipFromNonActiveParticipantDropped() {
	s.twoPlayerRound()
	before := len(s.notifier.states)

	s.controller.Flip("GAME1", "conn-2", 0)

	s.Len(s.notifier.states, before)
	s.Empty(s.registry.Get("GAME1").Revealed)
}

func (s *ControllerSuite) TestThirdFlipWhilePairPendingDropped() {
	s.twoPlayerRound()
	s.controller.Flip("GAME1", "conn-1", 0)
	s.controller.Flip("GAME1", "conn-1", 2)
	before := len(s.notifier.states)

	s.controller.Flip("GAME1", "conn-1", 3)

	s.Len(s.notifier.states, before)
	s.Len(s.registry.Get("GAME1").Revealed, 2)
}

func (s *ControllerSuite) TestFlipSameCardTwiceDropped() {
	s.twoPlayerRound()
	s.controller.Flip("GAME1", "conn-1", 0)
	before := len(s.notifier.states)

	s.controller.Flip("GAME1", "conn-1", 0)

	s.Len(s.notifier.states, before)
	s.Equal([]int{0}, s.registry.Get("GAME1").Revealed)
}

func (s *ControllerSuite) TestFlipMatchedCardDropped() {
	s.twoPlayerRound()
	s.controller.Flip("GAME1", "conn-1", 0)
	s.controller.Flip("GAME1", "conn-1", 1)
	s.clock.Advance(RevealDelay)
	before := len(s.notifier.states)

	s.controller.Flip("GAME1", "conn-1", 1)

	s.Len(s.notifier.states, before)
}

func (s *ControllerSuite) TestFlipIndexOutOfRangeDropped() {
	s.twoPlayerRound()
	before := len(s.notifier.states)

	s.controller.Flip("GAME1", "conn-1", -1)
	s.controller.Flip("GAME1", "conn-1", 4)

	s.Len(s.notifier.states, before)
}

func (s *ControllerSuite) TestFlipBeforeInitializeDropped() {
	s.controller.Join("GAME1", "conn-1", "Alice")
	before := len(s.notifier.states)

	s.controller.Flip("GAME1", "conn-1", 0)

	s.Len(s.notifier.states, before)
}

func (s *ControllerSuite) TestAtMostTwoRevealedUnderRapidFire() {
	s.controller.Join("GAME1", "conn-1", "Alice")
	s.controller.Join("GAME1", "conn-2", "Bob")
	s.controller.Initialize("GAME1", "conn-1", 4)

	// Both connections hammer every index without waiting for
	// resolution; the invariant must hold after every command
	for round := 0; round < 3; round++ {
		for index := 0; index < 8; index++ {
			s.controller.Flip("GAME1", "conn-1", index)
			s.LessOrEqual(len(s.registry.Get("GAME1").Revealed), 2)
			s.controller.Flip("GAME1", "conn-2", index)
			s.LessOrEqual(len(s.registry.Get("GAME1").Revealed), 2)
		}
		s.clock.Advance(RevealDelay)
	}
}

// Resolution edge cases

func (s *ControllerSuite) TestInitializeWhilePairPendingInvalidatesTimer() {
	s.twoPlayerRound()
	s.controller.Flip("GAME1", "conn-1", 0)
	s.controller.Flip("GAME1", "conn-1", 2)

	s.controller.Initialize("GAME1", "conn-1", 2)
	s.controller.Flip("GAME1", "conn-1", 0)

	// The stale timer fires against the new round and must not touch it
	s.clock.Advance(RevealDelay)

	sess := s.registry.Get("GAME1")
	s.Equal([]int{0}, sess.Revealed)
	s.Equal(0, sess.TurnIndex)
}

func (s *ControllerSuite) TestResolutionAfterActivePlayerLeft() {
	s.twoPlayerRound()
	s.controller.Flip("GAME1", "conn-1", 0)
	s.controller.Flip("GAME1", "conn-1", 2)

	s.controller.Leave("GAME1", "conn-1")
	s.clock.Advance(RevealDelay)

	sess := s.registry.Get("GAME1")
	s.Require().NotNil(sess)
	s.Empty(sess.Revealed)
	s.Equal(0, sess.TurnIndex)
	s.Len(sess.Participants, 1)
}

func (s *ControllerSuite) TestResolutionAfterSessionDestroyed() {
	s.twoPlayerRound()
	s.controller.Flip("GAME1", "conn-1", 0)
	s.controller.Flip("GAME1", "conn-1", 2)

	s.controller.Leave("GAME1", "conn-1")
	s.controller.Leave("GAME1", "conn-2")
	s.Require().Equal(0, s.registry.Len())

	// Must not panic or resurrect the session
	s.clock.Advance(RevealDelay)
	s.Equal(0, s.registry.Len())
}

// Leave tests

func (s *ControllerSuite) TestLeaveRemovesParticipantAndBroadcasts() {
	s.twoPlayerRound()

	s.controller.Leave("GAME1", "conn-2")

	snap := s.notifier.lastState()
	s.Require().Len(snap.Players, 1)
	s.Equal("Alice", snap.Players[0].Name)
}

func (s *ControllerSuite) TestLeaveLastParticipantDestroysSession() {
	s.controller.Join("GAME1", "conn-1", "Alice")

	s.controller.Leave("GAME1", "conn-1")

	s.Nil(s.registry.Get("GAME1"))
	s.Equal(0, s.registry.Len())
}

func (s *ControllerSuite) TestLeaveBeforeActiveReBasesTurn() {
	s.controller.Join("GAME1", "conn-1", "Alice")
	s.controller.Join("GAME1", "conn-2", "Bob")
	s.controller.Join("GAME1", "conn-3", "Carol")
	s.controller.Initialize("GAME1", "conn-1", 2)
	s.registry.Get("GAME1").TurnIndex = 2

	s.controller.Leave("GAME1", "conn-1")

	s.Equal(0, s.registry.Get("GAME1").TurnIndex)
}

func (s *ControllerSuite) TestLeaveOfLastSeatClampsTurn() {
	s.twoPlayerRound()
	s.registry.Get("GAME1").TurnIndex = 1

	s.controller.Leave("GAME1", "conn-2")

	s.Equal(0, s.registry.Get("GAME1").TurnIndex)
}

func (s *ControllerSuite) TestLeaveAfterActiveKeepsTurn() {
	s.controller.Join("GAME1", "conn-1", "Alice")
	s.controller.Join("GAME1", "conn-2", "Bob")
	s.controller.Join("GAME1", "conn-3", "Carol")
	s.controller.Initialize("GAME1", "conn-1", 2)
	s.registry.Get("GAME1").TurnIndex = 1

	s.controller.Leave("GAME1", "conn-3")

	s.Equal(1, s.registry.Get("GAME1").TurnIndex)
}

func (s *ControllerSuite) TestLeaveUnknownConnectionNoOp() {
	s.twoPlayerRound()
	before := len(s.notifier.states)

	s.controller.Leave("GAME1", "stranger")

	s.Len(s.notifier.states, before)
	s.Len(s.registry.Get("GAME1").Participants, 2)
}

// Completion archival

func (s *ControllerSuite) TestCompletionRecordsScoresAndSummary() {
	s.twoPlayerRound()
	s.controller.Flip("GAME1", "conn-1", 0)
	s.controller.Flip("GAME1", "conn-1", 1)
	s.clock.Advance(RevealDelay)
	s.controller.Flip("GAME1", "conn-1", 2)
	s.controller.Flip("GAME1", "conn-1", 3)
	s.clock.Advance(RevealDelay)

	top, err := s.storage.TopHighScores(s.T().Context(), 10)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal("Alice", top[0].Name)
	s.Equal(2, top[0].Score)

	recent, err := s.storage.RecentGameSummaries(s.T().Context(), 10)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal("GAME1", recent[0].GameCode)
	s.Equal("Alice", recent[0].Winner)
}

// Snapshot read path

func (s *ControllerSuite) TestSnapshotReturnsCurrentState() {
	s.twoPlayerRound()

	snap, err := s.controller.Snapshot("GAME1")
	s.Require().NoError(err)
	s.Equal("GAME1", snap.GameCode)
	s.Len(snap.ShuffledImages, 4)
}

func (s *ControllerSuite) TestSnapshotUnknownCode() {
	_, err := s.controller.Snapshot("NOPE")
	s.ErrorIs(err, model.ErrSessionNotFound)
}
