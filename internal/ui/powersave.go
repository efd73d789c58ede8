package ui

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	activeTPS = 60
	idleTPS   = 10
	idleAfter = 2 * time.Second
)

// powerSaver drops the tick rate while nothing moves on screen.
type powerSaver struct {
	enabled    bool
	perfOn     bool
	lastActive time.Time
}

func newPowerSaver(enabled bool) *powerSaver {
	return &powerSaver{enabled: enabled, perfOn: true, lastActive: time.Now()}
}

func (p *powerSaver) enterPerf() {
	if p.perfOn {
		return
	}
	ebiten.SetVsyncEnabled(true)
	ebiten.SetTPS(activeTPS)
	p.perfOn = true
}

func (p *powerSaver) leavePerf() {
	if !p.perfOn {
		return
	}
	ebiten.SetVsyncEnabled(false)
	ebiten.SetTPS(idleTPS)
	p.perfOn = false
}

// update records activity and switches modes; it is a no-op when disabled.
func (p *powerSaver) update(active bool, now time.Time) {
	if !p.enabled {
		return
	}
	if active {
		p.lastActive = now
		p.enterPerf()
		return
	}
	if now.Sub(p.lastActive) > idleAfter {
		p.leavePerf()
	}
}
