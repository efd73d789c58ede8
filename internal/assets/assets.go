package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/draw"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed svg/*.svg
var svgFS embed.FS

type spriteKey struct {
	name string
	size int
}

// rasterised sprites, keyed by name and pixel size
var imgCache = map[spriteKey]*ebiten.Image{}

// Sprite names shipped in svg/.
const (
	SpriteDiskA    = "disk_a"
	SpriteDiskB    = "disk_b"
	SpriteHint     = "hint"
	SpriteThinking = "thinking"
)

// LoadSprite rasterises the embedded SVG name at size pixels high (width
// follows the view box) and caches the result.
func LoadSprite(name string, size int) (*ebiten.Image, error) {
	key := spriteKey{name, size}
	if img := imgCache[key]; img != nil {
		return img, nil
	}
	data, err := svgFS.ReadFile("svg/" + name + ".svg")
	if err != nil {
		return nil, fmt.Errorf("read sprite %s: %w", name, err)
	}
	rgba, err := RasterizeSVG(data, 0, size)
	if err != nil {
		return nil, fmt.Errorf("rasterise sprite %s: %w", name, err)
	}
	img := ebiten.NewImageFromImage(rgba)
	imgCache[key] = img
	return img, nil
}

// RasterizeSVG renders svgData to an RGBA image. A non-positive dimension is
// derived from the other one and the view box.
func RasterizeSVG(svgData []byte, targetW, targetH int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, err
	}
	vb := icon.ViewBox

	w := float64(targetW)
	h := float64(targetH)
	switch {
	case w <= 0 && h <= 0:
		w, h = vb.W, vb.H
	case w <= 0:
		w = h * vb.W / vb.H
	case h <= 0:
		h = w * vb.H / vb.W
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	icon.SetTarget(0, 0, w, h)

	dstW, dstH := int(w+0.5), int(h+0.5)
	rgba := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.Draw(rgba, rgba.Bounds(), image.Transparent, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(dstW, dstH, rgba, rgba.Bounds())
	dasher := rasterx.NewDasher(dstW, dstH, scanner)
	icon.Draw(dasher, 1.0)
	return rgba, nil
}
