package gpu

import (
	"sync"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/glyphs/text"
)

// DefaultMaxInstances is the default number of instances per batch.
const DefaultMaxInstances = 16384

// batch is one instance buffer and the uniforms it is drawn with.
type batch struct {
	instances   []text.PlacedGlyph
	uniforms    text.Uniforms
	hasUniforms bool
	scroll      f32.Vec2
}

// Batch collects placed glyphs into instance batches. A run never spans
// two batches: when it does not fit in the current batch, a new one is
// started.
//
// Batch is safe for concurrent use. Slices returned by Instances alias
// the batch storage and must not be used across Reset.
type Batch struct {
	mu           sync.Mutex
	maxInstances int
	batches      []*batch
}

// NewBatch creates an empty Batch. maxInstances <= 0 selects
// DefaultMaxInstances.
func NewBatch(maxInstances int) *Batch {
	if maxInstances <= 0 {
		maxInstances = DefaultMaxInstances
	}
	return &Batch{maxInstances: maxInstances}
}

// AddInstances implements text.Instancer.
func (b *Batch) AddInstances(glyphs []text.PlacedGlyph) text.Area {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur := b.current()
	if len(cur.instances) > 0 && len(cur.instances)+len(glyphs) > b.maxInstances {
		cur = &batch{}
		b.batches = append(b.batches, cur)
	}
	area := text.Area{
		Batch: len(b.batches) - 1,
		Start: len(cur.instances),
		Count: len(glyphs),
	}
	cur.instances = append(cur.instances, glyphs...)
	return area
}

// current returns the last batch, creating the first one on demand.
// b.mu must be held.
func (b *Batch) current() *batch {
	if len(b.batches) == 0 {
		b.batches = append(b.batches, &batch{})
	}
	return b.batches[len(b.batches)-1]
}

func (b *Batch) get(i int) *batch {
	if i < 0 || i >= len(b.batches) {
		return nil
	}
	return b.batches[i]
}

// Instances implements text.Instancer.
func (b *Batch) Instances(area text.Area) []text.PlacedGlyph {
	b.mu.Lock()
	defer b.mu.Unlock()
	bt := b.get(area.Batch)
	if bt == nil || area.Start < 0 || area.Start+area.Count > len(bt.instances) {
		return nil
	}
	return bt.instances[area.Start : area.Start+area.Count : area.Start+area.Count]
}

// IsFirstInstance implements text.Instancer.
func (b *Batch) IsFirstInstance(area text.Area) bool {
	return area.Start == 0
}

// WriteUniforms implements text.Instancer.
func (b *Batch) WriteUniforms(area text.Area, u text.Uniforms) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bt := b.get(area.Batch); bt != nil {
		bt.uniforms = u
		bt.hasUniforms = true
	}
}

// ScrollOffset implements text.Instancer.
func (b *Batch) ScrollOffset(area text.Area) f32.Vec2 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bt := b.get(area.Batch); bt != nil {
		return bt.scroll
	}
	return f32.Vec2{}
}

// SetScrollOffset sets the scroll position of a batch.
func (b *Batch) SetScrollOffset(batchIndex int, offset f32.Vec2) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bt := b.get(batchIndex); bt != nil {
		bt.scroll = offset
	}
}

// Len returns the number of batches.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.batches)
}

// Uniforms returns the uniforms of a batch and whether they were written.
func (b *Batch) Uniforms(batchIndex int) (text.Uniforms, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bt := b.get(batchIndex); bt != nil {
		return bt.uniforms, bt.hasUniforms
	}
	return text.Uniforms{}, false
}

// Encode returns the instance buffer contents of a batch.
func (b *Batch) Encode(batchIndex int) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	bt := b.get(batchIndex)
	if bt == nil {
		return nil
	}
	return EncodeInstances(bt.instances)
}

// Reset drops all batches. Areas handed out before are invalid afterwards.
func (b *Batch) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batches = nil
}
