package search

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"othello_go/internal/game"
)

var tracer = otel.Tracer("othello.search")

// outcome labels
const (
	outcomeSingle    = "single"
	outcomeExhausted = "exhausted"
	outcomeTimeout   = "timeout"
	outcomeMaxDepth  = "max_depth"
)

var (
	// decisionsTotal counts DecideMove calls by how the search ended
	decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "othello_search_decisions_total",
		Help: "Move decisions by outcome",
	}, []string{"outcome"})

	nodesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "othello_search_nodes_total",
		Help: "Negamax nodes visited",
	})

	// completedDepth tracks the deepest finished iteration per decision
	completedDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "othello_search_completed_depth",
		Help:    "Deepest completed iteration per searched decision",
		Buckets: prometheus.LinearBuckets(1, 2, 12),
	})

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "othello_search_duration_seconds",
		Help:    "Wall time per searched decision",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	})
)

func outcomeOf(d Decision) string {
	switch {
	case !d.Searched:
		return outcomeSingle
	case d.Exhausted:
		return outcomeExhausted
	case d.TimedOut:
		return outcomeTimeout
	}
	return outcomeMaxDepth
}

func observeDecision(d Decision) {
	decisionsTotal.WithLabelValues(outcomeOf(d)).Inc()
	if !d.Searched {
		return
	}
	nodesTotal.Add(float64(d.Nodes))
	completedDepth.Observe(float64(d.Depth))
	searchDuration.Observe(d.Elapsed.Seconds())
}

func startDecideSpan(ctx context.Context, b *game.Board, budget time.Duration) (context.Context, trace.Span) {
	return tracer.Start(ctx, "othello.decide",
		trace.WithAttributes(
			attribute.String("othello.side", b.ToMove.String()),
			attribute.Int("othello.disks", b.Total),
			attribute.Int64("othello.budget_ms", budget.Milliseconds()),
		),
	)
}

func endDecideSpan(span trace.Span, d Decision) {
	span.SetAttributes(
		attribute.String("othello.move", d.Move.String()),
		attribute.Int("othello.depth", d.Depth),
		attribute.Int("othello.score", d.Score),
		attribute.Int64("othello.nodes", d.Nodes),
		attribute.String("othello.outcome", outcomeOf(d)),
	)
	if d.Depth == 0 {
		span.SetStatus(codes.Error, "no iteration completed")
		return
	}
	span.SetStatus(codes.Ok, "")
}
