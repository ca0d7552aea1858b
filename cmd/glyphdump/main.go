// Command glyphdump lays out text with the glyphs library and prints the
// chunks, placed glyphs and hit-test results. It can also write the
// rasterized glyph atlas and a CPU preview of the text as PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/glyphs"
	"github.com/gogpu/glyphs/atlas"
	"github.com/gogpu/glyphs/fonts"
	"github.com/gogpu/glyphs/gpu"
	"github.com/gogpu/glyphs/layout"
	"github.com/gogpu/glyphs/raster"
	"github.com/gogpu/glyphs/text"
)

func main() {
	var (
		input     = flag.String("text", "Hello World  !\nAnother line  :)", "text to lay out")
		fontPath  = flag.String("font", "", "TrueType/OpenType font file (default: Go Regular)")
		parser    = flag.String("parser", "sfnt", "font parser: sfnt or gotext")
		size      = flag.Float64("size", 12, "font size in points")
		dpr       = flag.Float64("dpr", 1, "device pixel ratio")
		wrapFlag  = flag.String("wrap", "word", "wrap mode: none, char, word, ellipsis")
		width     = flag.Float64("width", 200, "layout width in logical pixels (ellipsis budget)")
		hit       = flag.String("hit", "", "hit-test point \"x,y\" in logical pixels")
		atlasSize = flag.Int("atlas-size", 1024, "atlas texture size")
		atlasOut  = flag.String("atlas", "", "write the glyph atlas to this PNG file")
		preview   = flag.String("preview", "", "write a CPU preview of the text to this PNG file")
		workers   = flag.Int("workers", 0, "rasterization workers (0: GOMAXPROCS)")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		glyphs.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	reg := fonts.NewRegistry()
	fontID, err := loadFont(reg, *fontPath, *parser)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}

	mode, err := text.ParseWrapMode(*wrapFlag)
	if err != nil {
		log.Fatal(err)
	}

	cache, err := atlas.NewCache(reg, atlas.Config{Size: *atlasSize})
	if err != nil {
		log.Fatal(err)
	}
	batch := gpu.NewBatch(0)
	env := text.Env{
		Fonts:     reg,
		Atlas:     cache,
		Instancer: batch,
		DPR:       float32(*dpr),
		Widths:    text.NewWidthCache(0),
	}

	props := text.DefaultProps()
	props.Style.FontID = fontID
	props.Style.FontSize = float32(*size)
	props.Wrapping = text.Wrapping{Mode: mode, MaxWidth: float32(*width)}

	chunks, err := text.Wrap(reg, *input, props, text.WithWidthCache(env.Widths))
	if err != nil {
		log.Fatal(err)
	}
	printChunks(chunks)

	flow := layout.NewFlow(f32.Vec2{}, float32(*width))
	area, err := text.DrawWalk(env, flow, *input, props)
	if err != nil {
		log.Fatal(err)
	}
	placed := batch.Instances(area)
	printGlyphs(placed)

	if *hit != "" {
		pos, err := parsePoint(*hit)
		if err != nil {
			log.Fatal(err)
		}
		if off, ok := text.ClosestOffsetInArea(batch, area, pos, props.Style.LineSpacing); ok {
			fmt.Printf("\nhit %v -> offset %d\n", pos, off)
		} else {
			fmt.Printf("\nhit %v -> no glyphs\n", pos)
		}
	}

	pool := raster.NewPool(*workers)
	defer pool.Close()
	worker := &raster.Worker{Cache: cache, Fonts: reg, Pool: pool}
	res, err := worker.Run()
	if err != nil {
		log.Printf("Rasterization errors: %v", err)
	}
	st := cache.Stats()
	fmt.Printf("\natlas: %d rasterized, %d blank, %d pages, %.1f%% used\n",
		res.Rasterized, res.Blank, st.Pages, st.Utilization*100)

	if *atlasOut != "" {
		err := cache.WithAtlas(func(a *atlas.Atlas) error {
			return savePNG(*atlasOut, a.Image())
		})
		if err != nil {
			log.Fatalf("Failed to save atlas: %v", err)
		}
		log.Printf("Atlas saved to %s", *atlasOut)
	}

	if *preview != "" {
		img := renderPreview(cache, placed, float32(*dpr), flow.Cursor())
		if err := savePNG(*preview, img); err != nil {
			log.Fatalf("Failed to save preview: %v", err)
		}
		log.Printf("Preview saved to %s (%dx%d)", *preview, img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func loadFont(reg *fonts.Registry, path, parser string) (fonts.FontID, error) {
	if path == "" {
		return reg.Load(goregular.TTF, fonts.WithParser(parser), fonts.WithName("Go Regular"))
	}
	return reg.LoadFile(path, fonts.WithParser(parser))
}

func parsePoint(s string) (f32.Vec2, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return f32.Vec2{}, fmt.Errorf("invalid point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 32)
	if err != nil {
		return f32.Vec2{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 32)
	if err != nil {
		return f32.Vec2{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return f32.Vec2{float32(x), float32(y)}, nil
}

func printChunks(chunks []text.Chunk) {
	fmt.Printf("%d chunks\n", len(chunks))
	for i, c := range chunks {
		fmt.Printf("  %3d  %7.2f  %q", i, c.Width, c.String())
		if c.Newline {
			fmt.Print("  \\n")
		}
		fmt.Println()
	}
}

func printGlyphs(placed []text.PlacedGlyph) {
	fmt.Printf("\n%d glyphs\n", len(placed))
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "offset\tbase.x\tbase.y\trect.x\trect.y\tw\th\tdepth\t")
	for _, g := range placed {
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.5f\t\n",
			int(g.CharOffset), g.Base[0], g.Base[1], g.RectPos[0], g.RectPos[1],
			g.RectSize[0], g.RectSize[1], g.CharDepth)
	}
	_ = tw.Flush()
}

// renderPreview composites the atlas cells of placed onto a white canvas
// at device resolution.
func renderPreview(cache *atlas.Cache, placed []text.PlacedGlyph, dpr float32, extent f32.Vec2) *image.RGBA {
	w, h := int(extent[0]*dpr)+1, int(extent[1]*dpr)+1
	for _, g := range placed {
		w = max(w, int((g.RectPos[0]+g.RectSize[0])*dpr)+1)
		h = max(h, int(g.RectPos[1]*dpr)+1)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	_ = cache.WithAtlas(func(a *atlas.Atlas) error {
		size := float32(a.Size())
		src := image.NewUniform(color.Black)
		for _, g := range placed {
			cell := image.Rect(
				int(g.FontT1[0]*size+0.5), int(g.FontT1[1]*size+0.5),
				int(g.FontT2[0]*size+0.5), int(g.FontT2[1]*size+0.5),
			)
			at := image.Pt(int(g.RectPos[0]*dpr+0.5), int((g.RectPos[1]-g.RectSize[1])*dpr+0.5))
			r := image.Rectangle{Min: at, Max: at.Add(cell.Size())}
			draw.DrawMask(dst, r, src, image.Point{}, a.Image(), cell.Min, draw.Over)
		}
		return nil
	})
	return dst
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
