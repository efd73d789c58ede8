package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"othello_go/internal/config"
	"othello_go/internal/game"
	"othello_go/internal/search"
)

const maxPositionBytes = 4096

type decideResponse struct {
	Move      string `json:"move"`
	Index     int    `json:"index"`
	Score     int    `json:"score"`
	Depth     int    `json:"depth"`
	Nodes     int64  `json:"nodes"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Searched  bool   `json:"searched"`
	Exhausted bool   `json:"exhausted"`
	TimedOut  bool   `json:"timed_out"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// decideHandler answers a position in the load format with the engine's
// decision. Requests are served one at a time.
type decideHandler struct {
	mu     sync.Mutex
	engine *search.Engine
	budget time.Duration
	log    *slog.Logger
}

// newRouter wires /metrics and POST /decide.
func newRouter(cfg config.Config, logger *slog.Logger) *gin.Engine {
	h := &decideHandler{
		engine: search.New(cfg.EngineOptions(logger)),
		budget: cfg.Search.Budget(),
		log:    logger,
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("othello-analyze"))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/decide", h.handleDecide)
	return router
}

// handleDecide handles POST /decide.
//
//	200 OK: decideResponse
//	400 Bad Request: unreadable or malformed position
//	422 Unprocessable Entity: the game is already over
func (h *decideHandler) handleDecide(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxPositionBytes)
	b, err := game.LoadBoard(body)
	if err != nil {
		code := "MALFORMED_POSITION"
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			code = "BODY_TOO_LARGE"
		}
		h.log.Warn("bad position", slog.String("remote", c.ClientIP()), slog.Any("err", err))
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: code})
		return
	}
	if game.IsTerminal(b) {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: game.ErrGameOver.Error(), Code: "GAME_OVER"})
		return
	}

	h.mu.Lock()
	d := h.engine.DecideMove(c.Request.Context(), b, h.budget)
	h.mu.Unlock()

	h.log.Info("decide request", slog.String("remote", c.ClientIP()), slog.String("decision", d.String()))
	c.JSON(http.StatusOK, decideResponse{
		Move:      d.Move.String(),
		Index:     d.Index,
		Score:     d.Score,
		Depth:     d.Depth,
		Nodes:     d.Nodes,
		ElapsedMS: d.Elapsed.Milliseconds(),
		Searched:  d.Searched,
		Exhausted: d.Exhausted,
		TimedOut:  d.TimedOut,
	})
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Serve /metrics and a POST /decide endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if a.cfg.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           newRouter(a.cfg, a.log),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			a.log.Info("listening", slog.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:9464", "listen address")
	return cmd
}
