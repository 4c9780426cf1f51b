package testbed

import (
	"testing"

	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/math"
	"github.com/stretchr/testify/assert"
)

func TestCameraPitchIsClamped(t *testing.T) {
	c := NewFreeCamera(math.NewVec3Zero())
	c.Pitch(200)
	assert.Equal(t, float32(89.9), c.Rotation().X)
	c.Pitch(-500)
	assert.Equal(t, float32(-89.9), c.Rotation().X)

	c.SetRotation(math.NewVec3(120, 45, 10))
	assert.Equal(t, math.NewVec3(89.9, 45, 0), c.Rotation())
}

func TestCameraForwardAndRight(t *testing.T) {
	c := NewFreeCamera(math.NewVec3Zero())
	assert.True(t, c.Forward().Compare(math.NewVec3(0, 0, -1), 1e-6))
	assert.True(t, c.Right().Compare(math.NewVec3(1, 0, 0), 1e-6))

	c.Yaw(-90)
	assert.True(t, c.Forward().Compare(math.NewVec3(1, 0, 0), 1e-6))
	assert.True(t, c.Right().Compare(math.NewVec3(0, 0, 1), 1e-6))
}

func TestCameraUpdateMovesWithKeys(t *testing.T) {
	in := core.NewInputState(nil)
	c := NewFreeCamera(math.NewVec3(0, 10, 0))

	in.ProcessKey(core.KEY_W, true)
	c.Update(in, 0.5)
	assert.True(t, c.Position().Compare(math.NewVec3(0, 10, -2.5), 1e-5))

	in.ProcessKey(core.KEY_W, false)
	in.ProcessKey(core.KEY_SPACE, true)
	c.Update(in, 1)
	assert.True(t, c.Position().Compare(math.NewVec3(0, 15, -2.5), 1e-5))

	// Opposite keys cancel out.
	in.ProcessKey(core.KEY_LSHIFT, true)
	c.Update(in, 1)
	assert.True(t, c.Position().Compare(math.NewVec3(0, 15, -2.5), 1e-5))
}

func TestCameraMouseLook(t *testing.T) {
	in := core.NewInputState(nil)
	in.ResetMouse(100, 100)
	c := NewFreeCamera(math.NewVec3Zero())

	in.ProcessMouseMove(120, 90)
	c.Update(in, 0)
	assert.Equal(t, float32(-10), c.Rotation().Y)
	assert.Equal(t, float32(5), c.Rotation().X)
}

func TestCameraViewMovesEyeToOrigin(t *testing.T) {
	c := NewFreeCamera(math.NewVec3(32, 70, 80))
	c.SetRotation(math.NewVec3(-20, 15, 0))

	view := c.View()
	assert.True(t, c.Position().Transform(view).Compare(math.NewVec3Zero(), 1e-3))

	// Cached until the camera moves.
	assert.Equal(t, view, c.View())
	c.Move(math.NewVec3(0, 0, 1), 1)
	assert.NotEqual(t, view, c.View())
}

func TestCameraProjectionFlipsY(t *testing.T) {
	c := NewFreeCamera(math.NewVec3Zero())
	gl := math.NewMat4Perspective(math.DegToRad(90), 16.0/9.0, c.NearPlane, c.FarPlane)
	p := c.Projection(16.0 / 9.0)

	assert.Equal(t, gl.Data[0], p.Data[0])
	assert.Equal(t, -gl.Data[5], p.Data[5])
	assert.Equal(t, gl.Data[10], p.Data[10])
	assert.Equal(t, gl.Data[14], p.Data[14])

	// A zero sized viewport does not produce NaNs.
	assert.Equal(t, c.Projection(1), c.Projection(0))
}
