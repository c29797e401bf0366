package factory_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/flipmatch/flipmatch-go/internal/api"
	"github.com/flipmatch/flipmatch-go/internal/api/response"
	"github.com/flipmatch/flipmatch-go/internal/factory"
	"github.com/flipmatch/flipmatch-go/internal/model"
	"github.com/flipmatch/flipmatch-go/internal/services/session"
	"github.com/flipmatch/flipmatch-go/internal/testutil"
)

// IntegrationSuite drives a full game through the wired application
// and checks the REST surface reflects it
type IntegrationSuite struct {
	suite.Suite
	app    *factory.TestApp
	server *httptest.Server
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:     testutil.NopLogger(),
		Controller: s.app.Controller,
		Storage:    s.app.Storage,
		WSHandler:  s.app.WSHandler,
	})
	s.server = httptest.NewServer(router)
}

func (s *IntegrationSuite) TearDownTest() {
	s.server.Close()
}

func (s *IntegrationSuite) get(path string, out any) int {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func (s *IntegrationSuite) TestFullGameEndToEnd() {
	ctrl := s.app.Controller

	ctrl.Join("PARTY", "conn-a", "Alice")
	ctrl.Join("PARTY", "conn-b", "Bob")
	ctrl.Initialize("PARTY", "conn-a", 2)

	// The mock random leaves the deck in construction order:
	// [p0, p0, p1, p1]. Alice opens with a mismatch.
	ctrl.Flip("PARTY", "conn-a", 0)
	ctrl.Flip("PARTY", "conn-a", 2)
	s.app.MockClock.Advance(session.RevealDelay)

	var snap model.Snapshot
	s.Equal(http.StatusOK, s.get("/api/v1/games/PARTY", &snap))
	s.Equal(1, snap.CurrentPlayerIndex)
	s.Empty(snap.FlippedCards)

	// Bob clears the board
	ctrl.Flip("PARTY", "conn-b", 0)
	ctrl.Flip("PARTY", "conn-b", 1)
	s.app.MockClock.Advance(session.RevealDelay)
	ctrl.Flip("PARTY", "conn-b", 2)
	ctrl.Flip("PARTY", "conn-b", 3)
	s.app.MockClock.Advance(session.RevealDelay)

	s.Equal(http.StatusOK, s.get("/api/v1/games/PARTY", &snap))
	s.True(snap.GameWon)
	s.Equal(2, snap.Players[1].Score)
	s.Equal(0, snap.Players[0].Score)

	var scores response.ScoresResponse
	s.Equal(http.StatusOK, s.get("/api/v1/scores", &scores))
	s.Require().Len(scores.Scores, 2)
	s.Equal("Bob", scores.Scores[0].Name)
	s.Equal(2, scores.Scores[0].Score)

	var recent response.RecentGamesResponse
	s.Equal(http.StatusOK, s.get("/api/v1/games/recent", &recent))
	s.Require().Len(recent.Games, 1)
	s.Equal("PARTY", recent.Games[0].GameCode)
	s.Equal("Bob", recent.Games[0].Winner)
}

func (s *IntegrationSuite) TestSessionGoneAfterEveryoneLeaves() {
	ctrl := s.app.Controller

	ctrl.Join("PARTY", "conn-a", "Alice")
	ctrl.Leave("PARTY", "conn-a")

	var body map[string]any
	s.Equal(http.StatusNotFound, s.get("/api/v1/games/PARTY", &body))
	s.Equal(0, s.app.Registry.Len())
}
