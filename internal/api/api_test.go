package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/flipmatch/flipmatch-go/internal/api"
	"github.com/flipmatch/flipmatch-go/internal/api/apierr"
	"github.com/flipmatch/flipmatch-go/internal/api/response"
	"github.com/flipmatch/flipmatch-go/internal/dependencies/clock"
	"github.com/flipmatch/flipmatch-go/internal/dependencies/random"
	"github.com/flipmatch/flipmatch-go/internal/model"
	"github.com/flipmatch/flipmatch-go/internal/services/session"
	"github.com/flipmatch/flipmatch-go/internal/storage/memory"
	"github.com/flipmatch/flipmatch-go/internal/testutil"
	"github.com/flipmatch/flipmatch-go/internal/ws"
)

type APISuite struct {
	suite.Suite
	controller *session.Controller
	storage    *memory.Storage
	server     *httptest.Server
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()

	hub := ws.NewHub(logger)
	s.controller = session.NewController(
		session.NewRegistry(),
		hub,
		s.storage,
		clock.New(),
		random.New(),
		logger,
	)

	router := api.NewRouter(api.RouterConfig{
		Logger:     logger,
		Controller: s.controller,
		Storage:    s.storage,
		WSHandler:  ws.NewHandler(hub, s.controller, logger),
	})
	s.server = httptest.NewServer(router)
}

func (s *APISuite) TearDownTest() {
	s.server.Close()
}

func (s *APISuite) get(path string, out any) *http.Response {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	defer resp.Body.Close()

	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (s *APISuite) TestHealth() {
	var body response.HealthResponse
	resp := s.get("/api/v1/health", &body)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("ok", body.Status)
}

func (s *APISuite) TestGetGameSnapshot() {
	s.controller.Join("GAME1", "conn-1", "Alice")

	var snap model.Snapshot
	resp := s.get("/api/v1/games/GAME1", &snap)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("GAME1", snap.GameCode)
	s.Require().Len(snap.Players, 1)
	s.Equal("Alice", snap.Players[0].Name)
	s.NotNil(snap.FlippedCards)
	s.NotNil(snap.MatchedCards)
}

func (s *APISuite) TestGetUnknownGame() {
	var body apierr.ErrorResponse
	resp := s.get("/api/v1/games/NOPE", &body)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal(apierr.CodeGameNotFound, body.Error.Code)
}

func (s *APISuite) TestTopScores() {
	for _, entry := range []model.HighScore{
		{Name: "Alice", Score: 4, GameCode: "GAME1", RecordedAt: time.Now()},
		{Name: "Bob", Score: 7, GameCode: "GAME1", RecordedAt: time.Now()},
	} {
		s.Require().NoError(s.storage.SaveHighScore(s.T().Context(), &entry))
	}

	var body response.ScoresResponse
	resp := s.get("/api/v1/scores", &body)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Require().Len(body.Scores, 2)
	s.Equal("Bob", body.Scores[0].Name)
}

func (s *APISuite) TestRecentGames() {
	summary := model.GameSummary{
		GameCode:    "GAME1",
		FinalScores: map[string]int{"Alice": 2},
		Winner:      "Alice",
		CompletedAt: time.Now(),
	}
	s.Require().NoError(s.storage.SaveGameSummary(s.T().Context(), &summary))

	var body response.RecentGamesResponse
	resp := s.get("/api/v1/games/recent", &body)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Require().Len(body.Games, 1)
	s.Equal("GAME1", body.Games[0].GameCode)
	s.Equal("Alice", body.Games[0].Winner)
}

func (s *APISuite) TestInvalidLimitRejected() {
	var body apierr.ErrorResponse
	resp := s.get("/api/v1/scores?limit=zero", &body)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal(apierr.CodeInvalidRequest, body.Error.Code)
}
