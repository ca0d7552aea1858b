package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/glyphs"
	"github.com/gogpu/glyphs/atlas"
)

// ErrNoTextureCreator is returned by Upload when no creator is given.
var ErrNoTextureCreator = errors.New("gpu: texture creator is nil")

// TextureCreator creates textures from RGBA pixels.
// gpucontext.TextureCreator implementations satisfy it.
type TextureCreator interface {
	NewTextureFromRGBA(width, height int, data []byte) (any, error)
}

// AtlasUploader keeps a GPU texture in sync with an atlas cache. The
// texture is created on the first Upload and updated in place afterwards
// when it implements gpucontext.TextureUpdater.
type AtlasUploader struct {
	texture    any
	generation uint64
	uploads    int
}

// Texture returns the current texture, or nil before the first Upload.
func (u *AtlasUploader) Texture() any {
	return u.texture
}

// Generation returns the atlas generation of the last upload.
func (u *AtlasUploader) Generation() uint64 {
	return u.generation
}

// Uploads returns how many times pixel data was sent to the GPU.
func (u *AtlasUploader) Uploads() int {
	return u.uploads
}

// Upload sends the atlas to the GPU if it changed since the last call and
// returns the texture. A clean atlas with an existing texture is a no-op.
func (u *AtlasUploader) Upload(creator TextureCreator, cache *atlas.Cache) (any, error) {
	if creator == nil {
		return nil, ErrNoTextureCreator
	}

	var (
		data       []byte
		size       int
		generation uint64
	)
	_ = cache.WithAtlas(func(a *atlas.Atlas) error {
		if u.texture != nil && !a.IsDirty() {
			return nil
		}
		size = a.Size()
		generation = a.Generation()
		data = expandRGBA(a.Image().Pix)
		a.MarkClean()
		return nil
	})
	if data == nil {
		return u.texture, nil
	}

	if err := u.write(creator, size, data); err != nil {
		// Retry on the next call.
		_ = cache.WithAtlas(func(a *atlas.Atlas) error {
			a.MarkDirty()
			return nil
		})
		return u.texture, err
	}
	u.generation = generation
	u.uploads++
	glyphs.Logger().Debug("gpu: atlas uploaded", "size", size, "generation", generation)
	return u.texture, nil
}

func (u *AtlasUploader) write(creator TextureCreator, size int, data []byte) error {
	if updater, ok := u.texture.(gpucontext.TextureUpdater); ok {
		if err := updater.UpdateData(data); err != nil {
			return fmt.Errorf("gpu: atlas texture update failed: %w", err)
		}
		return nil
	}
	tex, err := creator.NewTextureFromRGBA(size, size, data)
	if err != nil {
		return fmt.Errorf("gpu: NewTextureFromRGBA failed: %w", err)
	}
	u.texture = tex
	return nil
}

// expandRGBA replicates single-channel coverage into all four channels.
func expandRGBA(pix []byte) []byte {
	out := make([]byte, len(pix)*4)
	for i, a := range pix {
		j := i * 4
		out[j] = a
		out[j+1] = a
		out[j+2] = a
		out[j+3] = a
	}
	return out
}
