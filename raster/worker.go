package raster

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/draw"

	"github.com/gogpu/glyphs"
	"github.com/gogpu/glyphs/atlas"
	"github.com/gogpu/glyphs/fonts"
)

// Worker drains an atlas cache's pending queue and fills the reserved
// cells with glyph coverage.
type Worker struct {
	Cache *atlas.Cache
	Fonts fonts.Source

	// Pool runs rasterization in parallel. Nil rasterizes on the calling
	// goroutine.
	Pool *Pool
}

// Result counts what a Run did.
type Result struct {
	// Rasterized cells were written to the atlas.
	Rasterized int

	// Blank cells belong to fonts without outlines or glyphs without ink
	// and were left empty.
	Blank int

	// Stale cells were reserved before a Cache.Reset and dropped.
	Stale int
}

type job struct {
	item atlas.PendingRasterization
	img  *image.Alpha
	err  error
}

// Run rasterizes every pending cell. Outlines are rendered without holding
// the cache lock; only the final copy into the atlas is exclusive.
// Errors for individual glyphs are joined; the other cells are still
// written.
func (w *Worker) Run() (Result, error) {
	var res Result
	pending := w.Cache.DrainPending()
	if len(pending) == 0 {
		return res, nil
	}

	jobs := make([]job, len(pending))
	work := make([]func(), len(pending))
	var fontErrs sync.Map
	for i := range pending {
		jobs[i].item = pending[i]
		work[i] = func() { w.rasterize(&jobs[i], &fontErrs) }
	}
	if w.Pool != nil {
		w.Pool.Run(work)
	} else {
		for _, fn := range work {
			fn()
		}
	}

	var errs []error
	err := w.Cache.WithAtlas(func(a *atlas.Atlas) error {
		for i := range jobs {
			j := &jobs[i]
			switch {
			case j.item.Generation != a.Generation():
				res.Stale++
			case j.err != nil:
				errs = append(errs, j.err)
			case j.img == nil:
				res.Blank++
			default:
				draw.Draw(a.Image(), j.item.Rect, j.img, image.Point{}, draw.Src)
				res.Rasterized++
			}
		}
		if res.Rasterized > 0 {
			a.MarkDirty()
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	glyphs.Logger().Debug("raster: run",
		"rasterized", res.Rasterized, "blank", res.Blank, "stale", res.Stale, "errors", len(errs))
	return res, errors.Join(errs...)
}

func (w *Worker) rasterize(j *job, fontErrs *sync.Map) {
	it := j.item
	f, err := w.Fonts.Font(it.FontID)
	if err != nil {
		// Report a missing font once per run.
		if _, seen := fontErrs.LoadOrStore(it.FontID, true); !seen {
			j.err = err
		}
		return
	}
	if f.Outliner == nil {
		return
	}
	img, err := Glyph(f, it.GlyphID, it.PPEM, it.SubpixelX, it.SubpixelY, it.Rect.Dx(), it.Rect.Dy())
	if err != nil {
		j.err = fmt.Errorf("raster: glyph %d of font %d: %w", it.GlyphID, it.FontID, err)
		return
	}
	if isBlank(img) {
		return
	}
	j.img = img
}

func isBlank(img *image.Alpha) bool {
	for _, a := range img.Pix {
		if a != 0 {
			return false
		}
	}
	return true
}
