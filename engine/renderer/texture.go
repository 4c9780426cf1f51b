package renderer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
)

// Texture is a sampled RGBA8 sRGB image.
type Texture struct {
	renderer *Renderer
	id       uuid.UUID
	width    uint32
	height   uint32
	resident metadata.GPUTexture
}

func (r *Renderer) NewTexture(pixels []uint8, width, height uint32) (*Texture, error) {
	t := &Texture{
		renderer: r,
		id:       uuid.New(),
	}
	if err := t.Upload(pixels, width, height); err != nil {
		return nil, err
	}
	r.register(t)
	return t, nil
}

func (t *Texture) ID() uuid.UUID  { return t.id }
func (t *Texture) Width() uint32  { return t.width }
func (t *Texture) Height() uint32 { return t.height }

// Upload replaces the image. Materials using the texture must attach it again.
func (t *Texture) Upload(pixels []uint8, width, height uint32) error {
	if width == 0 || height == 0 || uint64(len(pixels)) != uint64(width)*uint64(height)*4 {
		return &core.InvalidOperationError{
			Op:     "texture upload",
			Reason: fmt.Sprintf("%d bytes do not describe a %dx%d RGBA8 image", len(pixels), width, height),
		}
	}
	resident, err := t.renderer.backend.CreateTexture(pixels, width, height)
	if err != nil {
		core.LogError("failed to upload %dx%d texture: %s", width, height, err)
		return err
	}
	t.drop()
	t.resident = resident
	t.width, t.height = width, height
	return nil
}

func (t *Texture) release() {
	if t.resident != nil {
		t.renderer.backend.DestroyTexture(t.resident)
		t.resident = nil
	}
}

func (t *Texture) drop() {
	if t.resident == nil {
		return
	}
	old := t.resident
	t.resident = nil
	t.renderer.retire(func() { t.renderer.backend.DestroyTexture(old) })
}

func (t *Texture) Destroy() {
	t.renderer.unregister(t.id)
	t.drop()
}
