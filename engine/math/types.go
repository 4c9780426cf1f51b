package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

/** @brief a 2x2 matrix, tightly packed. */
type Mat2 struct {
	Data [4]float32
}

/** @brief a 3x3 matrix, tightly packed (no std140 column padding). */
type Mat3 struct {
	Data [9]float32
}

/** @brief a 4x4 matrix, typically used to represent object transformations. */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float32
}
