package assets

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// Sound names the UI plays.
const (
	SoundPlace    = "place"
	SoundPass     = "pass"
	SoundInvalid  = "invalid"
	SoundUndo     = "undo"
	SoundGameOver = "game_over"
)

type tone struct {
	freq float64 // Hz, 0 for silence
	dur  time.Duration
	gain float64
}

// built-in clips, used when no file overrides them
var toneTable = map[string][]tone{
	SoundPlace:    {{freq: 660, dur: 50 * time.Millisecond, gain: 0.35}, {freq: 990, dur: 40 * time.Millisecond, gain: 0.2}},
	SoundPass:     {{freq: 392, dur: 120 * time.Millisecond, gain: 0.3}, {freq: 294, dur: 160 * time.Millisecond, gain: 0.3}},
	SoundInvalid:  {{freq: 150, dur: 120 * time.Millisecond, gain: 0.3}},
	SoundUndo:     {{freq: 520, dur: 60 * time.Millisecond, gain: 0.25}, {freq: 390, dur: 60 * time.Millisecond, gain: 0.25}},
	SoundGameOver: {{freq: 523, dur: 150 * time.Millisecond, gain: 0.3}, {freq: 659, dur: 150 * time.Millisecond, gain: 0.3}, {freq: 784, dur: 320 * time.Millisecond, gain: 0.3}},
}

// AudioManager holds decoded 16-bit stereo PCM per sound name.
type AudioManager struct {
	ctx     *audio.Context
	clips   map[string][]byte
	enabled bool
}

// NewAudioManager prepares every sound. A <name>.wav or <name>.mp3 in dir
// replaces the built-in tone; dir may be empty. A nil ctx gives a silent
// manager.
func NewAudioManager(ctx *audio.Context, dir string, enabled bool) (*AudioManager, error) {
	am := &AudioManager{ctx: ctx, clips: map[string][]byte{}, enabled: enabled && ctx != nil}
	if ctx == nil {
		return am, nil
	}
	for name, seq := range toneTable {
		pcm, err := loadClip(ctx.SampleRate(), dir, name)
		if err != nil {
			return nil, err
		}
		if pcm == nil {
			pcm = synthPCM(ctx.SampleRate(), seq)
		}
		am.clips[name] = pcm
	}
	return am, nil
}

// SetEnabled mutes or unmutes playback.
func (am *AudioManager) SetEnabled(on bool) { am.enabled = on && am.ctx != nil }

// Enabled reports whether sounds are played.
func (am *AudioManager) Enabled() bool { return am.enabled }

// Play starts the named sound; unknown names are ignored.
func (am *AudioManager) Play(name string) {
	if !am.enabled {
		return
	}
	pcm, ok := am.clips[name]
	if !ok {
		return
	}
	am.ctx.NewPlayerFromBytes(pcm).Play()
}

// loadClip returns nil, nil when dir has no file for name.
func loadClip(sampleRate int, dir, name string) ([]byte, error) {
	if dir == "" {
		return nil, nil
	}
	wavPath := filepath.Join(dir, name+".wav")
	if f, err := os.Open(wavPath); err == nil {
		defer f.Close()
		s, err := wav.DecodeWithSampleRate(sampleRate, f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", wavPath, err)
		}
		return io.ReadAll(s)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("open %s: %w", wavPath, err)
	}

	mp3Path := filepath.Join(dir, name+".mp3")
	if f, err := os.Open(mp3Path); err == nil {
		defer f.Close()
		s, err := mp3.DecodeWithSampleRate(sampleRate, f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", mp3Path, err)
		}
		return io.ReadAll(s)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("open %s: %w", mp3Path, err)
	}
	return nil, nil
}

// synthPCM renders seq as 16-bit little-endian stereo PCM with a short
// linear fade at both ends of every tone.
func synthPCM(sampleRate int, seq []tone) []byte {
	n := 0
	for _, t := range seq {
		n += int(t.dur.Seconds() * float64(sampleRate))
	}
	out := make([]byte, 0, n*4)
	fade := sampleRate / 200 // 5ms
	var frame [4]byte
	for _, t := range seq {
		samples := int(t.dur.Seconds() * float64(sampleRate))
		for i := 0; i < samples; i++ {
			env := 1.0
			if i < fade {
				env = float64(i) / float64(fade)
			} else if samples-i < fade {
				env = float64(samples-i) / float64(fade)
			}
			v := 0.0
			if t.freq > 0 {
				v = t.gain * env * math.Sin(2*math.Pi*t.freq*float64(i)/float64(sampleRate))
			}
			s := int16(v * math.MaxInt16)
			binary.LittleEndian.PutUint16(frame[0:], uint16(s))
			binary.LittleEndian.PutUint16(frame[2:], uint16(s))
			out = append(out, frame[:]...)
		}
	}
	return out
}
