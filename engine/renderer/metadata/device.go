package metadata

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/voxelcraft/engine/core"
)

type DeviceType int

const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

func (d DeviceType) String() string {
	switch d {
	case DeviceTypeIntegratedGPU:
		return "integrated"
	case DeviceTypeDiscreteGPU:
		return "discrete"
	case DeviceTypeVirtualGPU:
		return "virtual"
	case DeviceTypeCPU:
		return "cpu"
	}
	return "other"
}

/**
 * @brief What the bootstrap learned about one physical device.
 */
type DeviceCandidate struct {
	Name string
	Type DeviceType
	/** @brief Queue family index with graphics support, -1 when none. */
	GraphicsQueueIndex int32
	/** @brief Queue family index that can present to the surface, -1 when none. */
	PresentQueueIndex int32
	MissingExtensions []string
	FormatCount       uint32
	PresentModeCount  uint32
}

// Unsuitable returns why the candidate cannot drive the renderer, or an
// empty string.
func (c DeviceCandidate) Unsuitable() string {
	switch {
	case c.GraphicsQueueIndex < 0:
		return "no graphics queue family"
	case c.PresentQueueIndex < 0:
		return "no queue family can present to the surface"
	case len(c.MissingExtensions) > 0:
		return "missing extensions: " + strings.Join(c.MissingExtensions, ", ")
	case c.FormatCount == 0:
		return "no surface formats"
	case c.PresentModeCount == 0:
		return "no present modes"
	}
	return ""
}

func deviceRank(t DeviceType) int {
	switch t {
	case DeviceTypeDiscreteGPU:
		return 2
	case DeviceTypeIntegratedGPU:
		return 1
	}
	return 0
}

// SelectDevice returns the index of the best suitable candidate. Discrete
// GPUs win over integrated ones, which win over anything else; ties keep
// enumeration order.
func SelectDevice(candidates []DeviceCandidate) (int, error) {
	best, bestRank := -1, -1
	for i, c := range candidates {
		if reason := c.Unsuitable(); reason != "" {
			core.LogDebug("device '%s' skipped: %s", c.Name, reason)
			continue
		}
		if r := deviceRank(c.Type); r > bestRank {
			best, bestRank = i, r
		}
	}
	if best >= 0 {
		return best, nil
	}
	if len(candidates) == 1 && len(candidates[0].MissingExtensions) > 0 {
		return -1, fmt.Errorf("device '%s': %w: %s", candidates[0].Name, core.ErrMissingExtension,
			strings.Join(candidates[0].MissingExtensions, ", "))
	}
	return -1, core.ErrNoSuitableDevice
}
