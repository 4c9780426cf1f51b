package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, uint32(5), Clamp(uint32(1), 5, 10))
	assert.Equal(t, uint32(10), Clamp(uint32(99), 5, 10))
	assert.Equal(t, uint32(7), Clamp(uint32(7), 5, 10))
	assert.Equal(t, float32(-1), Clamp(float32(-3), -1, 1))
}

func TestMat4TranslationTransformsPoint(t *testing.T) {
	p := NewVec3(1, 2, 3).Transform(NewMat4Translation(NewVec3(10, 0, -1)))
	assert.True(t, p.Compare(NewVec3(11, 2, 2), K_FLOAT_EPSILON))
}

func TestMat4MulIdentity(t *testing.T) {
	s := NewMat4Scale(NewVec3(2, 3, 4))
	assert.Equal(t, s, s.Mul(NewMat4Identity()))
	assert.Equal(t, s, NewMat4Identity().Mul(s))
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := NewVec3(0, 3, -3)
	view := NewMat4LookAt(eye, NewVec3(0, 3, 0), NewVec3Up())
	assert.True(t, eye.Transform(view).Compare(NewVec3Zero(), 1e-5))
}

func TestNormalizeZero(t *testing.T) {
	assert.Equal(t, NewVec3Zero(), NewVec3Zero().Normalize())
	assert.InDelta(t, 1.0, NewVec3(3, 4, 0).Normalize().Length(), 1e-6)
}

func TestRotateBy(t *testing.T) {
	forward := NewVec3(0, 0, -1)
	assert.True(t, forward.RotateBy(0, 0).Compare(forward, 1e-6))
	// Positive pitch looks up, positive yaw turns left.
	assert.True(t, forward.RotateBy(DegToRad(90), 0).Compare(NewVec3(0, 1, 0), 1e-6))
	assert.True(t, forward.RotateBy(0, DegToRad(90)).Compare(NewVec3(-1, 0, 0), 1e-6))
	assert.InDelta(t, 1.0, forward.RotateBy(0.3, 1.2).Length(), 1e-6)
}
