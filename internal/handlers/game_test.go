package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/store"
)

type roundResponse struct {
	SessionID string `json:"session_id"`
	Board     struct {
		Size  int   `json:"size"`
		Tiles []int `json:"tiles"`
	} `json:"board"`
	Size      int    `json:"size"`
	MineCount int    `json:"mine_count"`
	Status    string `json:"status"`
	Started   bool   `json:"started"`
	EndedAt   *int64 `json:"ended_at"`
	Token     string `json:"token"`
	Error     string `json:"error"`
}

func setupServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := store.New(logger, time.Minute, time.Minute)
	t.Cleanup(func() { s.Close() })
	tokens, err := config.NewTokens(config.TokenConfig{
		Secret: "test", Lifetime: time.Hour, Issuer: "test",
	})
	require.NoError(t, err)
	ws := config.NewWebSocket(config.CorsConfig{})

	g := NewGameHandler(logger, s, tokens, ws, func() *rand.Rand {
		return rand.New(rand.NewPCG(1, 2))
	}, 0)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/round", g.NewGame)
	mux.HandleFunc("GET /v1/round/{id}", g.Fetch)
	mux.HandleFunc("POST /v1/round/{id}/open", g.Open)
	mux.HandleFunc("POST /v1/round/{id}/flag", g.Flag)
	mux.HandleFunc("POST /v1/round/{id}/batch", g.Batch)
	mux.HandleFunc("POST /v1/round/{id}/forfeit", g.Forfeit)
	mux.HandleFunc("GET /v1/round/{id}/connect", g.ConnectWS)
	mux.HandleFunc("GET /v1/status", g.Status)

	srv := httptest.NewServer(middleware.Wrap(mux, middleware.Auth(logger, tokens)))
	t.Cleanup(srv.Close)
	return srv, s
}

// findMine peeks at the stored round. The round must have been started.
func findMine(t *testing.T, s *store.Store, id string) mines.Point {
	t.Helper()
	session, err := s.Get(id)
	require.NoError(t, err)
	session.Lock()
	defer session.Unlock()
	size := session.Round.Size
	for row := range size {
		for col := range size {
			p := mines.Point{Row: row, Col: col}
			c, err := session.Round.Cell(p)
			require.NoError(t, err)
			if c.Mine {
				return p
			}
		}
	}
	t.Fatal("no mine on the board")
	return mines.Point{}
}

func index(p mines.Point, size int) int {
	return p.Row*size + p.Col
}

func do(t *testing.T, method, url, token, body string) (int, roundResponse) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var round roundResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&round))
	return res.StatusCode, round
}

func createRound(t *testing.T, srv *httptest.Server, query string) roundResponse {
	t.Helper()
	code, round := do(t, http.MethodPost, srv.URL+"/v1/round?"+query, "", "")
	require.Equal(t, http.StatusCreated, code, round.Error)
	require.NotEmpty(t, round.Token)
	return round
}

func roundURL(srv *httptest.Server, round roundResponse, action string) string {
	url := srv.URL + "/v1/round/" + round.SessionID
	if action != "" {
		url += "/" + action
	}
	return url
}

func TestNewGame(t *testing.T) {
	srv, _ := setupServer(t)

	round := createRound(t, srv, "size=8&difficulty=easy")
	assert.Equal(t, 8, round.Size)
	assert.Equal(t, 10, round.MineCount)
	assert.Equal(t, "in_progress", round.Status)
	assert.False(t, round.Started)
	assert.Nil(t, round.EndedAt)
	require.Len(t, round.Board.Tiles, 64)
	for _, tile := range round.Board.Tiles {
		assert.Equal(t, int(mines.TileHidden), tile)
	}

	round = createRound(t, srv, "size=8")
	assert.Equal(t, 16, round.MineCount, "medium by default")

	round = createRound(t, srv, "size=4&mine_count=0")
	assert.Equal(t, 0, round.MineCount)
}

func TestNewGameInvalid(t *testing.T) {
	srv, _ := setupServer(t)

	tests := []string{
		"",
		"size=abc",
		"size=20",
		"size=8&difficulty=brutal",
		"size=4&mine_count=16",
		"size=4&mine_count=-1",
		"size=4&mine_count=2&difficulty=easy",
	}
	for _, query := range tests {
		t.Run(query, func(t *testing.T) {
			code, res := do(t, http.MethodPost, srv.URL+"/v1/round?"+query, "", "")
			assert.Equal(t, http.StatusBadRequest, code)
			assert.NotEmpty(t, res.Error)
		})
	}
}

func TestFetch(t *testing.T) {
	srv, _ := setupServer(t)

	code, res := do(t, http.MethodGet, srv.URL+"/v1/round/nope", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.NotEmpty(t, res.Error)

	round := createRound(t, srv, "size=4&difficulty=hard")
	code, res = do(t, http.MethodGet, roundURL(srv, round, ""), "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, round.SessionID, res.SessionID)
	assert.Empty(t, res.Token)
}

func TestMoveRequiresToken(t *testing.T) {
	srv, _ := setupServer(t)
	round := createRound(t, srv, "size=4&difficulty=easy")
	other := createRound(t, srv, "size=4&difficulty=easy")

	code, _ := do(t, http.MethodPost, roundURL(srv, round, "open")+"?row=0&col=0", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, http.MethodPost, roundURL(srv, round, "open")+"?row=0&col=0", other.Token, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, http.MethodPost, roundURL(srv, round, "open")+"?row=0&col=0", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, res := do(t, http.MethodPost, roundURL(srv, round, "open")+"?row=0&col=0", round.Token, "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, res.Started)
}

func TestOpen(t *testing.T) {
	srv, s := setupServer(t)
	// The first square opened has no safe neighbour, so it cannot cascade.
	round := createRound(t, srv, "size=4&mine_count=14")
	open := func(row, col int) (int, roundResponse) {
		url := fmt.Sprintf("%s?row=%d&col=%d", roundURL(srv, round, "open"), row, col)
		return do(t, http.MethodPost, url, round.Token, "")
	}

	code, _ := open(4, 0)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = open(-1, 0)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, http.MethodPost, roundURL(srv, round, "open")+"?row=1", round.Token, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, res := open(0, 0)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "in_progress", res.Status)
	assert.GreaterOrEqual(t, res.Board.Tiles[0], 2)
	assert.LessOrEqual(t, res.Board.Tiles[0], 3)

	mine := findMine(t, s, round.SessionID)
	code, res = open(mine.Row, mine.Col)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "lost", res.Status)
	assert.NotNil(t, res.EndedAt)
	mineTiles := 0
	for i, tile := range res.Board.Tiles {
		switch {
		case i == index(mine, 4):
			assert.Equal(t, int(mines.TileExploded), tile)
		case tile == int(mines.TileMine):
			mineTiles++
		}
	}
	assert.Equal(t, 13, mineTiles)

	code, res = open(0, 0)
	assert.Equal(t, http.StatusConflict, code)
	assert.NotEmpty(t, res.Error)
}

func TestOpenWins(t *testing.T) {
	srv, _ := setupServer(t)
	round := createRound(t, srv, "size=4&mine_count=0")

	code, res := do(t, http.MethodPost, roundURL(srv, round, "open")+"?row=2&col=1", round.Token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "won", res.Status)
	assert.NotNil(t, res.EndedAt)
	for _, tile := range res.Board.Tiles {
		assert.Equal(t, 0, tile)
	}
}

func TestFlag(t *testing.T) {
	srv, _ := setupServer(t)
	round := createRound(t, srv, "size=4&difficulty=easy")
	flag := roundURL(srv, round, "flag") + "?row=1&col=1"

	code, res := do(t, http.MethodPost, flag, round.Token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int(mines.TileFlagged), res.Board.Tiles[5])

	code, res = do(t, http.MethodPost, roundURL(srv, round, "open")+"?row=1&col=1", round.Token, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, res.Error, "flagged")

	code, res = do(t, http.MethodPost, flag, round.Token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int(mines.TileHidden), res.Board.Tiles[5])
}

func TestBatch(t *testing.T) {
	srv, s := setupServer(t)
	round := createRound(t, srv, "size=4&mine_count=14")
	batch := roundURL(srv, round, "batch")

	code, res := do(t, http.MethodPost, batch, round.Token, "o 0 0\nz")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, res.Error, "line 1")

	code, _ = do(t, http.MethodPost, batch, round.Token, "o 0 0\nf 9 9")
	assert.Equal(t, http.StatusBadRequest, code)
	_, res = do(t, http.MethodGet, roundURL(srv, round, ""), "", "")
	assert.False(t, res.Started, "a failed batch changes nothing")

	code, res = do(t, http.MethodPost, batch, round.Token, "\no 0 0\nf 1 1\n\ng\n")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, res.Started)
	assert.Equal(t, int(mines.TileFlagged), res.Board.Tiles[5])

	mine := findMine(t, s, round.SessionID)
	moves := fmt.Sprintf("o %d %d\no 5 5", mine.Row, mine.Col)
	code, res = do(t, http.MethodPost, batch, round.Token, moves)
	require.Equal(t, http.StatusOK, code, "commands after the end are skipped")
	assert.Equal(t, "lost", res.Status)
}

func TestForfeit(t *testing.T) {
	srv, _ := setupServer(t)
	round := createRound(t, srv, "size=4&difficulty=easy")

	code, res := do(t, http.MethodPost, roundURL(srv, round, "forfeit"), round.Token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "lost", res.Status)
	assert.NotNil(t, res.EndedAt)

	code, _ = do(t, http.MethodPost, roundURL(srv, round, "flag")+"?row=0&col=0", round.Token, "")
	assert.Equal(t, http.StatusConflict, code)
}

func TestStatus(t *testing.T) {
	srv, _ := setupServer(t)
	createRound(t, srv, "size=4&difficulty=easy")

	res, err := http.Get(srv.URL + "/v1/status")
	require.NoError(t, err)
	defer res.Body.Close()
	var status StatusDTO
	require.NoError(t, json.NewDecoder(res.Body).Decode(&status))
	assert.Equal(t, StatusDTO{Status: "ok", Sessions: 1}, status)
}

func TestConnectWS(t *testing.T) {
	srv, s := setupServer(t)
	round := createRound(t, srv, "size=4&mine_count=14")
	url := "ws" + strings.TrimPrefix(roundURL(srv, round, "connect"), "http")

	_, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	c, _, err := websocket.DefaultDialer.Dial(url+"?token="+round.Token, nil)
	require.NoError(t, err)
	defer c.Close()

	send := func(text string) roundResponse {
		t.Helper()
		require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(text)))
		var res roundResponse
		require.NoError(t, c.ReadJSON(&res))
		return res
	}

	got := send("g")
	assert.Equal(t, round.SessionID, got.SessionID)
	assert.False(t, got.Started)

	got = send("o 0 0")
	assert.True(t, got.Started)
	assert.Equal(t, "in_progress", got.Status)

	got = send("x 1 1")
	assert.Contains(t, got.Error, "syntax")

	mine := findMine(t, s, round.SessionID)
	got = send(fmt.Sprintf("g\no %d %d", mine.Row, mine.Col))
	assert.Equal(t, "lost", got.Status)

	got = send("f 0 0")
	assert.Contains(t, got.Error, "illegal")

	_, fetched := do(t, http.MethodGet, roundURL(srv, round, ""), "", "")
	assert.Equal(t, "lost", fetched.Status)
}
