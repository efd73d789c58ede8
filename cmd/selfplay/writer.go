package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"othello_go/internal/game"
)

type chunkMeta struct {
	Samples   int       `json:"samples"`
	Games     []string  `json:"games"`
	TensorLen int       `json:"tensor_len"`
	PolicyLen int       `json:"policy_len"`
	Created   time.Time `json:"created"`
}

// chunkWriter writes samples in chunks: X.bin (float32 tensors), P.bin
// (float32 one-hot policies), Z.bin (int8 outcomes) and meta.json.
type chunkWriter struct {
	outDir    string
	chunkSize int

	idx         int
	count       int
	currentBase string
	gameIDs     []string
	fx, fp, fz  *os.File
	wx, wp, wz  *bufio.Writer

	games int
	total int
}

func newChunkWriter(outDir string, chunkSize int) *chunkWriter {
	if chunkSize <= 0 {
		chunkSize = 1
	}
	return &chunkWriter{outDir: outDir, chunkSize: chunkSize}
}

func (w *chunkWriter) rotate() error {
	if err := w.finish(); err != nil {
		return err
	}
	w.idx++
	w.count = 0
	w.gameIDs = nil
	w.currentBase = fmt.Sprintf("chunk_%05d", w.idx)

	var err error
	open := func(suffix string) (*os.File, *bufio.Writer) {
		if err != nil {
			return nil, nil
		}
		var f *os.File
		f, err = os.Create(filepath.Join(w.outDir, w.currentBase+suffix))
		if err != nil {
			return nil, nil
		}
		return f, bufio.NewWriter(f)
	}
	w.fx, w.wx = open("_X.bin")
	w.fp, w.wp = open("_P.bin")
	w.fz, w.wz = open("_Z.bin")
	return err
}

func (w *chunkWriter) writeMeta() error {
	meta := chunkMeta{
		Samples:   w.count,
		Games:     w.gameIDs,
		TensorLen: game.TensorLen,
		PolicyLen: game.PolicyLen,
		Created:   time.Now().UTC(),
	}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(w.outDir, w.currentBase+"_meta.json"), b, 0o644)
}

func (w *chunkWriter) writeSample(s sample, z int8) error {
	if w.fx == nil || w.count >= w.chunkSize {
		if err := w.rotate(); err != nil {
			return err
		}
	}
	if err := binary.Write(w.wx, binary.LittleEndian, s.state[:]); err != nil {
		return err
	}
	var policy [game.PolicyLen]float32
	policy[s.policy] = 1
	if err := binary.Write(w.wp, binary.LittleEndian, policy[:]); err != nil {
		return err
	}
	if err := w.wz.WriteByte(byte(z)); err != nil {
		return err
	}
	w.count++
	w.total++
	return nil
}

func (w *chunkWriter) writeGame(rec gameRecord) error {
	for i, s := range rec.samples {
		if err := w.writeSample(s, rec.value(s)); err != nil {
			return err
		}
		// a game split over two chunks is listed in both
		if i == 0 || w.count == 1 {
			w.gameIDs = append(w.gameIDs, rec.id.String())
		}
	}
	w.games++
	return nil
}

// finish flushes and closes the open chunk and writes its meta file.
func (w *chunkWriter) finish() error {
	if w.fx == nil {
		return nil
	}
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, bw := range []*bufio.Writer{w.wx, w.wp, w.wz} {
		if bw != nil {
			keep(bw.Flush())
		}
	}
	for _, f := range []*os.File{w.fx, w.fp, w.fz} {
		if f != nil {
			keep(f.Close())
		}
	}
	if w.count > 0 {
		keep(w.writeMeta())
	}
	w.fx, w.fp, w.fz = nil, nil, nil
	w.wx, w.wp, w.wz = nil, nil, nil
	return firstErr
}

func (w *chunkWriter) run(ch <-chan gameRecord, logger *slog.Logger) error {
	for rec := range ch {
		if err := w.writeGame(rec); err != nil {
			_ = w.finish()
			return fmt.Errorf("write game %s: %w", rec.id, err)
		}
		logger.Debug("game written",
			slog.String("id", rec.id.String()),
			slog.Int("plies", len(rec.samples)),
			slog.Int("score_a", rec.scoreA),
			slog.Int("score_b", rec.scoreB))
	}
	return w.finish()
}
