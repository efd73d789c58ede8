package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"othello_go/internal/config"
	"othello_go/internal/game"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const openingText = "00000000\n00000000\n00000000\n00021000\n00012000\n00000000\n00000000\n00000000\n1\n"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func TestMovesCommand(t *testing.T) {
	out, err := run(t, openingText, "moves")
	require.NoError(t, err)
	assert.Contains(t, out, "1.D3 2.C4 3.F5 4.E6")
	assert.Contains(t, out, "X=2 O=2, A to move")
}

func TestMovesRejectsMalformedInput(t *testing.T) {
	_, err := run(t, "0000", "moves", "-")
	assert.ErrorIs(t, err, game.ErrMalformedInput)
}

func TestEvalCommand(t *testing.T) {
	out, err := run(t, openingText, "eval")
	require.NoError(t, err)
	assert.Contains(t, out, "total=")
	assert.Contains(t, out, "side to move (A): ")
	assert.Contains(t, out, "stable: X=0 O=0")
}

func TestPlayCommandSaves(t *testing.T) {
	out, err := run(t, "", "play", "d3", "c3", "--save")
	require.NoError(t, err)
	assert.Equal(t,
		"00000000\n00000000\n00210000\n00021000\n00012000\n00000000\n00000000\n00000000\n1\n",
		out)

	_, err = run(t, "", "play", "a1")
	assert.ErrorIs(t, err, game.ErrIllegalMove)
}

func TestDecideCommand(t *testing.T) {
	out, err := run(t, openingText, "decide", "--time", "30", "--depth", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "depth=2")
	assert.Contains(t, out, "searched=true")
}

func serveDecide(t *testing.T, router http.Handler, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/decide", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDecideRoute(t *testing.T) {
	cfg := config.Default()
	cfg.Search.TimeBudget = 5
	cfg.Search.MaxDepth = 2
	router := newRouter(cfg, slog.New(slog.DiscardHandler))

	w := serveDecide(t, router, http.MethodPost, openingText)
	require.Equal(t, http.StatusOK, w.Code)
	var d decideResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Contains(t, []string{"D3", "C4", "F5", "E6"}, d.Move)
	assert.Equal(t, 2, d.Depth)
	assert.True(t, d.Searched)

	var e errorResponse
	w = serveDecide(t, router, http.MethodPost, "12")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, "MALFORMED_POSITION", e.Code)

	w = serveDecide(t, router, http.MethodPost, strings.Repeat(" ", 2*maxPositionBytes))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, "BODY_TOO_LARGE", e.Code)

	over := "11000000\n" + strings.Repeat("00000000\n", 7) + "2\n"
	w = serveDecide(t, router, http.MethodPost, over)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, "GAME_OVER", e.Code)

	w = serveDecide(t, router, http.MethodGet, "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mw := httptest.NewRecorder()
	router.ServeHTTP(mw, req)
	assert.Equal(t, http.StatusOK, mw.Code)
	assert.Contains(t, mw.Body.String(), "othello_search_decisions_total")
}
