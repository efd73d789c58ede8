package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"othello_go/internal/game"
)

func TestFullScore(t *testing.T) {
	assert.Equal(t, 0.0, fullScore(0, 0, 0))
	assert.False(t, math.IsNaN(fullScore(0, 0, 0)))
	assert.Equal(t, 100.0, fullScore(3, 0, 0))
	assert.Equal(t, 50.0, fullScore(1, 1, 2))
	assert.Equal(t, 25.0, fullScore(0, 1, 1))
}

func TestAblateZeroesOnePhase(t *testing.T) {
	base := game.DefaultEvalParams()

	p := ablate(base, game.PhaseLate, "stability")
	assert.Zero(t, p.Late.Stability)
	assert.Equal(t, base.Midgame, p.Midgame)
	assert.Equal(t, base.Late.Mobility, p.Late.Mobility)

	p = ablate(base, game.PhaseMidgame, "mobility")
	assert.Zero(t, p.Midgame.Mobility)
	assert.Equal(t, base.Late, p.Late)
	// base is a value, so it is left alone
	assert.Equal(t, game.DefaultEvalParams(), base)
}
