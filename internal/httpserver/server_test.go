package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cthoyt/pyrdle/assets"
	"github.com/cthoyt/pyrdle/internal/daily"
	"github.com/cthoyt/pyrdle/internal/results"
	"github.com/cthoyt/pyrdle/internal/sim"
	"github.com/cthoyt/pyrdle/internal/store"
	"github.com/cthoyt/pyrdle/internal/words"
)

const testSecret = "test-secret"

var vocabulary = []string{"adieu", "crane", "grace", "lotus", "trace"}

func newTestServer(t *testing.T, height int) *Server {
	t.Helper()
	return newTestServerWithStore(t, height, store.NewMemoryStore(0))
}

func newTestServerWithStore(t *testing.T, height int, games store.Store) *Server {
	t.Helper()
	c, err := words.NewCorpus(5, "en", vocabulary)
	require.NoError(t, err)

	db, err := results.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, results.Migrate(db, assets.Migrations()))

	return New(Options{
		Corpus:    c,
		Height:    height,
		Games:     games,
		Daily:     daily.NewStore(db),
		Runs:      results.NewStore(db),
		DailySalt: "salt",
		JWTSecret: testSecret,
		Now:       func() time.Time { return time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC) },
	})
}

func do(t *testing.T, s *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func newGame(t *testing.T, s *Server, body map[string]string) string {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/game/new", body, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[newGameRes](t, rec)
	require.NotEmpty(t, res.GameID)
	return res.GameID
}

type guessBody struct {
	Feedback []string `json:"feedback"`
	State    string   `json:"state"`
	Guesses  int      `json:"guesses"`
	Secret   string   `json:"secret"`
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, 6), http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestGame_Flow(t *testing.T) {
	s := newTestServer(t, 6)
	id := newGame(t, s, map[string]string{"secret": "crane"})

	rec := do(t, s, http.MethodPost, "/game/guess", map[string]string{"gameId": id, "guess": "TRACE"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[guessBody](t, rec)
	assert.Equal(t, []string{"absent", "correct", "correct", "present", "correct"}, res.Feedback)
	assert.Equal(t, "playing", res.State)
	assert.Equal(t, 1, res.Guesses)

	rec = do(t, s, http.MethodPost, "/game/guess", map[string]string{"gameId": id, "guess": "crane"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "won", decode[guessBody](t, rec).State)

	rec = do(t, s, http.MethodPost, "/game/guess", map[string]string{"gameId": id, "guess": "lotus"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "game_over", errorCode(t, rec))
}

func TestGame_Lost(t *testing.T) {
	s := newTestServer(t, 1)
	id := newGame(t, s, map[string]string{"secret": "crane"})

	rec := do(t, s, http.MethodPost, "/game/guess", map[string]string{"gameId": id, "guess": "lotus"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[guessBody](t, rec)
	assert.Equal(t, "lost", res.State)
	assert.Equal(t, "crane", res.Secret)
}

func TestGame_Errors(t *testing.T) {
	s := newTestServer(t, 6)
	id := newGame(t, s, nil)

	cases := []struct {
		name, gameID, guess, code string
		status                    int
	}{
		{"length", id, "cranes", "invalid_length", http.StatusBadRequest},
		{"vocabulary", id, "zzzzz", "not_in_vocabulary", http.StatusBadRequest},
		{"unknown game", "nope", "crane", "not_found", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/game/guess", map[string]string{"gameId": tc.gameID, "guess": tc.guess}, "")
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, errorCode(t, rec))
		})
	}

	rec := do(t, s, http.MethodPost, "/game/new", map[string]string{"secret": "zzzzz"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "not_in_vocabulary", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, "/game/new", map[string]string{"mode": "hard"}, "")
	assert.Equal(t, "bad_mode", errorCode(t, rec))
}

func TestDaily(t *testing.T) {
	s := newTestServer(t, 1)

	rec := do(t, s, http.MethodPost, "/game/new", map[string]string{"mode": "daily"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[newGameRes](t, rec)
	assert.Equal(t, "2026-04-01", res.Date)

	rec = do(t, s, http.MethodPost, "/game/guess", map[string]string{"gameId": res.GameID, "guess": "adieu"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	won := decode[guessBody](t, rec).State == "won"

	rec = do(t, s, http.MethodGet, "/daily/stats", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[daily.Stats](t, rec)
	assert.Equal(t, 1, st.Played)
	if won {
		assert.Equal(t, 1, st.Won)
	} else {
		assert.Equal(t, 1, st.Failures)
	}

	rec = do(t, s, http.MethodGet, "/daily/stats?date=yesterday", nil, "")
	assert.Equal(t, "bad_date", errorCode(t, rec))
}

func TestDaily_SessionCarriesMetadata(t *testing.T) {
	games := store.NewMemoryStore(0)
	s := newTestServerWithStore(t, 6, games)
	id := newGame(t, s, map[string]string{"mode": "daily"})

	sess, unlock, err := games.Get(context.Background(), id)
	require.NoError(t, err)
	defer unlock()
	require.NotNil(t, sess.Daily)
	assert.Equal(t, "2026-04-01", sess.Daily.Date)
	assert.Equal(t, s.opts.Corpus.Words()[sess.Daily.Index], sess.Game.Secret())

	random := newGame(t, s, nil)
	rsess, runlock, err := games.Get(context.Background(), random)
	require.NoError(t, err)
	defer runlock()
	assert.Nil(t, rsess.Daily)
}

func TestDaily_AbandonedGamesAreSwept(t *testing.T) {
	games := store.NewMemoryStore(time.Nanosecond)
	s := newTestServerWithStore(t, 6, games)

	ids := make([]string, 0, 200)
	for range 200 {
		ids = append(ids, newGame(t, s, map[string]string{"mode": "daily"}))
	}
	time.Sleep(time.Millisecond)

	assert.Equal(t, 200, games.Sweep())
	assert.Zero(t, games.Len())

	rec := do(t, s, http.MethodPost, "/game/guess", map[string]string{"gameId": ids[0], "guess": "crane"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/daily/stats", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decode[daily.Stats](t, rec).Played)
}

func TestOpenings(t *testing.T) {
	s := newTestServer(t, 6)

	rec := do(t, s, http.MethodGet, "/openings?k=1&n=3", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ranked []struct {
		Words []string `json:"words"`
		Score float64  `json:"score"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ranked))
	require.Len(t, ranked, 3)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}

	rec = do(t, s, http.MethodGet, "/openings?k=0", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_width", errorCode(t, rec))
}

func TestSimulate_Auth(t *testing.T) {
	s := newTestServer(t, 6)
	body := map[string]any{"player": "greedy"}

	rec := do(t, s, http.MethodPost, "/simulate", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other, _, err := SignToken("other-secret", "alice", time.Hour)
	require.NoError(t, err)
	rec = do(t, s, http.MethodPost, "/simulate", body, other)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", errorCode(t, rec))

	expired, _, err := SignToken(testSecret, "alice", -time.Hour)
	require.NoError(t, err)
	rec = do(t, s, http.MethodPost, "/simulate", body, expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSimulate(t *testing.T) {
	s := newTestServer(t, 6)
	token, _, err := SignToken(testSecret, "alice", time.Hour)
	require.NoError(t, err)

	rec := do(t, s, http.MethodPost, "/simulate", map[string]any{"player": "cached", "initial": []string{"lotus"}}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[simulateRes](t, rec)
	assert.Equal(t, "cached(lotus)", res.Player)
	assert.Equal(t, len(vocabulary), res.Histogram.Total)
	assert.InDelta(t, res.Histogram.SuccessRate(), res.Success, 1e-12)

	rec = do(t, s, http.MethodPost, "/simulate", map[string]any{"player": "oracle"}, token)
	assert.Equal(t, "unknown_player", errorCode(t, rec))

	rec = do(t, s, http.MethodPost, "/simulate", map[string]any{"player": "greedy", "initial": []string{"toolong"}}, token)
	assert.Equal(t, "invalid_length", errorCode(t, rec))
}

func TestSearchAndRuns(t *testing.T) {
	s := newTestServer(t, 6)
	token, _, err := SignToken(testSecret, "alice", time.Hour)
	require.NoError(t, err)

	rec := do(t, s, http.MethodPost, "/search", map[string]any{"k": 1, "n": 2, "player": "greedy"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[searchRes](t, rec)
	require.Len(t, res.Rows, 2)
	require.Positive(t, res.RunID)

	rec = do(t, s, http.MethodGet, "/runs/"+strconv.FormatInt(res.RunID, 10), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	run := decode[results.Run](t, rec)
	assert.Equal(t, "greedy", run.Player)
	assert.Equal(t, res.Rows, run.Rows)

	rec = do(t, s, http.MethodGet, "/runs", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]results.Run](t, rec), 1)

	rec = do(t, s, http.MethodGet, "/runs/999", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/search", map[string]any{"k": 9}, token)
	assert.Equal(t, "invalid_width", errorCode(t, rec))
}

func TestNotFound(t *testing.T) {
	rec := do(t, newTestServer(t, 6), http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignToken_NoSecret(t *testing.T) {
	_, _, err := SignToken("", "alice", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
}

// Options.Sim defaults to a controller over Corpus.
func TestDefaultController(t *testing.T) {
	s := newTestServer(t, 4)
	assert.IsType(t, &sim.Controller{}, s.opts.Sim)
	assert.Equal(t, 4, s.opts.Sim.Height())
}
