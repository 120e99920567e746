// Command lilacdemo renders a handful of fixed demo scenes through
// lilac's public engine API, to PNG.
package main

import (
	"flag"
	"log"

	"github.com/canidlogic/lilac"
)

func main() {
	var (
		width  = flag.Int("width", 600, "image width")
		height = flag.Int("height", 400, "image height")
		dim    = flag.Int("dim", 64, "tile side length")
		scene  = flag.String("scene", "dot", "demo scene: checker, dot, rectangle")
		output = flag.String("output", "demo.png", "output PNG path")
	)
	flag.Parse()

	eng, err := lilac.Init(*width, *height, lilac.WithDim(*dim))
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	var render func(*lilac.Engine, int, int) error
	switch *scene {
	case "checker":
		render = renderChecker
	case "dot":
		render = renderDot
	case "rectangle":
		render = renderRectangle
	default:
		log.Fatalf("unknown scene %q (want checker, dot, or rectangle)", *scene)
	}

	for eng.TilesFinished() < eng.TileCount() {
		if err := eng.BeginTile(); err != nil {
			log.Fatalf("begin_tile: %v", err)
		}
		if err := render(eng, *width, *height); err != nil {
			log.Fatalf("render: %v", err)
		}
		if err := eng.EndTile(); err != nil {
			log.Fatalf("end_tile: %v", err)
		}
	}

	if err := eng.Compile(*output, nil); err != nil {
		log.Fatalf("compile: %v", err)
	}
	log.Printf("Demo %q saved to %s (%dx%d)\n", *scene, *output, *width, *height)
}

// renderChecker fills every other tile, in tile-grid checkerboard
// order, solid green via a direct Lock/Unlock write.
func renderChecker(eng *lilac.Engine, _, _ int) error {
	rec, err := eng.Lock()
	if err != nil {
		return err
	}
	if (rec.X/rec.Pitch+rec.Y/rec.Pitch)%2 == 1 {
		green := lilac.ARGB(255, 0, 255, 0)
		for y := 0; y < rec.H; y++ {
			for x := 0; x < rec.W; x++ {
				rec.Pixels[y*rec.Pitch+x] = uint32(green)
			}
		}
	}
	return eng.Unlock()
}

// renderDot draws a single large dot centered on the image, replaying
// the same full-image-coordinate path against every tile.
func renderDot(eng *lilac.Engine, width, height int) error {
	if err := eng.SetColor(lilac.ARGB(255, 0, 0, 255)); err != nil {
		return err
	}
	if err := eng.BeginPath(); err != nil {
		return err
	}
	cx, cy := float64(width)/2, float64(height)/2
	radius := cy
	if cx < radius {
		radius = cx
	}
	if err := eng.Dot(cx, cy, radius*0.75); err != nil {
		return err
	}
	return eng.EndPath()
}

// renderRectangle draws a solid rectangle inset 10% from every edge.
func renderRectangle(eng *lilac.Engine, width, height int) error {
	if err := eng.SetColor(lilac.Black); err != nil {
		return err
	}
	if err := eng.BeginPath(); err != nil {
		return err
	}
	x0, y0 := float64(width)*0.1, float64(height)*0.1
	x1, y1 := float64(width)*0.9, float64(height)*0.9
	if err := eng.Line(x0, y0, x1, y0); err != nil {
		return err
	}
	if err := eng.Line(x1, y0, x1, y1); err != nil {
		return err
	}
	if err := eng.Line(x1, y1, x0, y1); err != nil {
		return err
	}
	if err := eng.Line(x0, y1, x0, y0); err != nil {
		return err
	}
	return eng.EndPath()
}
