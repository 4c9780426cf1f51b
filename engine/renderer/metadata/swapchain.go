package metadata

import (
	"github.com/spaghettifunk/voxelcraft/engine/math"
)

// UndefinedExtent is the value a surface reports as its current extent when
// the swapchain decides the size.
const UndefinedExtent uint32 = 0xFFFFFFFF

type Extent2D struct {
	Width  uint32
	Height uint32
}

func (e Extent2D) IsZero() bool {
	return e.Width == 0 || e.Height == 0
}

type SurfaceCapabilities struct {
	CurrentExtent  Extent2D
	MinImageExtent Extent2D
	MaxImageExtent Extent2D
	MinImageCount  uint32
	/** @brief Zero means no upper bound. */
	MaxImageCount uint32
}

type PresentResult int

const (
	PresentOK PresentResult = iota
	PresentSuboptimal
	PresentOutOfDate
)

func (p PresentResult) String() string {
	switch p {
	case PresentSuboptimal:
		return "suboptimal"
	case PresentOutOfDate:
		return "out-of-date"
	}
	return "ok"
}

type ClearColor struct {
	R, G, B, A float32
}

// ChooseExtent picks the swapchain size. The surface's current extent wins
// unless it is undefined, then the framebuffer size is clamped to the limits.
func ChooseExtent(caps SurfaceCapabilities, framebufferWidth, framebufferHeight uint32) Extent2D {
	if caps.CurrentExtent.Width != UndefinedExtent {
		return caps.CurrentExtent
	}
	return Extent2D{
		Width:  math.Clamp(framebufferWidth, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: math.Clamp(framebufferHeight, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image more than the minimum.
func ChooseImageCount(caps SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}
