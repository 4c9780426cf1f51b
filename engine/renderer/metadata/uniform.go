package metadata

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/math"
)

// EncodeUniform serializes value as the tightly packed little-endian bytes
// of the declared type. The Go type of value must match the declared type.
func EncodeUniform(declared MaterialType, value interface{}) ([]byte, error) {
	ok := false
	switch value.(type) {
	case math.Vec2:
		ok = declared == MaterialTypeVec2
	case math.Vec3:
		ok = declared == MaterialTypeVec3
	case math.Vec4:
		ok = declared == MaterialTypeVec4
	case float32:
		ok = declared == MaterialTypeFloat
	case int32:
		ok = declared == MaterialTypeInt
	case uint32:
		ok = declared == MaterialTypeUInt
	case math.Mat2:
		ok = declared == MaterialTypeMat2
	case math.Mat3:
		ok = declared == MaterialTypeMat3
	case math.Mat4:
		ok = declared == MaterialTypeMat4
	}
	if !ok {
		return nil, &core.InvalidOperationError{
			Op:     "uniform",
			Reason: fmt.Sprintf("value of type %T does not match declared type %s", value, declared),
		}
	}
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeVec2s packs the vectors as consecutive R32G32 elements.
func EncodeVec2s(v []math.Vec2) []byte {
	return encodeSlice(v, len(v)*8)
}

func EncodeVec3s(v []math.Vec3) []byte {
	return encodeSlice(v, len(v)*12)
}

func EncodeVec4s(v []math.Vec4) []byte {
	return encodeSlice(v, len(v)*16)
}

// EncodeIndices packs indices as uint32, the only index type the renderer binds.
func EncodeIndices(indices []uint32) []byte {
	return encodeSlice(indices, len(indices)*4)
}

func encodeSlice(data interface{}, size int) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, size))
	// fixed-size element types never fail to encode
	_ = binary.Write(buf, binary.LittleEndian, data)
	return buf.Bytes()
}
