package renderer

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/math"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
)

// Buffer is a device-local vertex or index buffer. Every upload replaces the
// resident region with one sized to the new content.
type Buffer struct {
	renderer *Renderer
	id       uuid.UUID
	usage    metadata.BufferUsage
	resident metadata.GPUBuffer
}

func (r *Renderer) NewBuffer(usage metadata.BufferUsage) *Buffer {
	b := &Buffer{
		renderer: r,
		id:       uuid.New(),
		usage:    usage,
	}
	r.register(b)
	return b
}

func (b *Buffer) ID() uuid.UUID               { return b.id }
func (b *Buffer) Usage() metadata.BufferUsage { return b.usage }

// Size is the byte size of the resident region.
func (b *Buffer) Size() uint64 {
	if b.resident == nil {
		return 0
	}
	return b.resident.Size()
}

func (b *Buffer) Empty() bool {
	return b.Size() == 0
}

// Upload copies data into a new resident region. On failure the previous
// region stays bound. An empty upload releases the resident region.
func (b *Buffer) Upload(data []byte) error {
	if len(data) == 0 {
		b.drop()
		return nil
	}
	resident, err := b.renderer.backend.CreateBuffer(b.usage, data)
	if err != nil {
		core.LogError("failed to upload %d bytes to %s buffer: %s", len(data), b.usage, err)
		return err
	}
	b.drop()
	b.resident = resident
	return nil
}

func (b *Buffer) UploadVec2(v []math.Vec2) error {
	return b.Upload(metadata.EncodeVec2s(v))
}

func (b *Buffer) UploadVec3(v []math.Vec3) error {
	return b.Upload(metadata.EncodeVec3s(v))
}

func (b *Buffer) UploadVec4(v []math.Vec4) error {
	return b.Upload(metadata.EncodeVec4s(v))
}

func (b *Buffer) UploadIndices(indices []uint32) error {
	return b.Upload(metadata.EncodeIndices(indices))
}

func (b *Buffer) release() {
	if b.resident != nil {
		b.renderer.backend.DestroyBuffer(b.resident)
		b.resident = nil
	}
}

// drop detaches the resident region and frees it once no frame uses it.
func (b *Buffer) drop() {
	if b.resident == nil {
		return
	}
	old := b.resident
	b.resident = nil
	b.renderer.retire(func() { b.renderer.backend.DestroyBuffer(old) })
}

func (b *Buffer) Destroy() {
	b.renderer.unregister(b.id)
	b.drop()
}
