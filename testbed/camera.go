package testbed

import (
	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/math"
)

// pitchLimit keeps the view direction off the up axis.
const pitchLimit float32 = 89.9

/**
 * @brief A fly-through camera driven by WASD, space/shift and mouse look.
 * Rotation is kept in degrees: X is pitch, Y is yaw, Z is unused.
 */
type FreeCamera struct {
	FieldOfView float32
	NearPlane   float32
	FarPlane    float32
	Sensitivity float32
	Speed       float32

	position math.Vec3
	rotation math.Vec3
	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	isDirty bool
	view    math.Mat4
}

func NewFreeCamera(position math.Vec3) *FreeCamera {
	return &FreeCamera{
		FieldOfView: 90,
		NearPlane:   0.001,
		FarPlane:    10000,
		Sensitivity: 0.5,
		Speed:       5,
		position:    position,
		isDirty:     true,
	}
}

func (c *FreeCamera) Position() math.Vec3 {
	return c.position
}

func (c *FreeCamera) SetPosition(position math.Vec3) {
	c.position = position
	c.isDirty = true
}

func (c *FreeCamera) Rotation() math.Vec3 {
	return c.rotation
}

func (c *FreeCamera) SetRotation(rotation math.Vec3) {
	c.rotation = math.NewVec3(math.Clamp(rotation.X, -pitchLimit, pitchLimit), rotation.Y, 0)
	c.isDirty = true
}

// Forward is the unit view direction. Zero rotation looks down -Z.
func (c *FreeCamera) Forward() math.Vec3 {
	return math.NewVec3(0, 0, -1).RotateBy(math.DegToRad(c.rotation.X), math.DegToRad(c.rotation.Y))
}

func (c *FreeCamera) Right() math.Vec3 {
	return c.Forward().Cross(math.NewVec3Up()).Normalize()
}

func (c *FreeCamera) Yaw(degrees float32) {
	c.rotation.Y += degrees
	c.isDirty = true
}

func (c *FreeCamera) Pitch(degrees float32) {
	// Clamp to avoid Gimbal lock.
	c.rotation.X = math.Clamp(c.rotation.X+degrees, -pitchLimit, pitchLimit)
	c.isDirty = true
}

// Move translates the camera along its own axes: x right, y world up and
// z forward.
func (c *FreeCamera) Move(direction math.Vec3, amount float32) {
	if direction.LengthSquared() == 0 {
		return
	}
	delta := c.Right().MulScalar(direction.X).
		Add(math.NewVec3Up().MulScalar(direction.Y)).
		Add(c.Forward().MulScalar(direction.Z))
	c.position = c.position.Add(delta.MulScalar(amount))
	c.isDirty = true
}

func (c *FreeCamera) View() math.Mat4 {
	if c.isDirty {
		c.view = math.NewMat4LookAt(c.position, c.position.Add(c.Forward()), math.NewVec3Up())
		c.isDirty = false
	}
	return c.view
}

// Projection flips Y so clip space matches the Vulkan framebuffer, which
// keeps counter-clockwise faces front facing.
func (c *FreeCamera) Projection(aspectRatio float32) math.Mat4 {
	if aspectRatio <= 0 {
		aspectRatio = 1
	}
	proj := math.NewMat4Perspective(math.DegToRad(c.FieldOfView), aspectRatio, c.NearPlane, c.FarPlane)
	return proj.Mul(math.NewMat4Scale(math.NewVec3(1, -1, 1)))
}

// Update applies one frame of keyboard movement and mouse look.
func (c *FreeCamera) Update(input *core.InputState, deltaTime float64) {
	direction := math.NewVec3Zero()
	if input.IsKeyDown(core.KEY_S) {
		direction.Z -= 1
	}
	if input.IsKeyDown(core.KEY_W) {
		direction.Z += 1
	}
	if input.IsKeyDown(core.KEY_A) {
		direction.X -= 1
	}
	if input.IsKeyDown(core.KEY_D) {
		direction.X += 1
	}
	if input.IsKeyDown(core.KEY_SPACE) {
		direction.Y += 1
	}
	if input.IsKeyDown(core.KEY_LSHIFT) {
		direction.Y -= 1
	}

	dx, dy := input.MouseDelta()
	if dx != 0 {
		c.Yaw(-float32(dx) * c.Sensitivity)
	}
	if dy != 0 {
		c.Pitch(-float32(dy) * c.Sensitivity)
	}

	c.Move(direction, float32(deltaTime)*c.Speed)
}
