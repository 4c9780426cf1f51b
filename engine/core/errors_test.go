package core

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	var err error = &InvalidMaterialSpecError{Field: "vertAttributes", Index: 1, Reason: "matrix types cannot be vertex attributes"}
	assert.ErrorIs(t, err, ErrInvalidMaterialSpec)
	assert.Equal(t, "invalid material spec: vertAttributes[1]: matrix types cannot be vertex attributes", err.Error())

	err = &InvalidMaterialSpecError{Field: "pushConstants", Index: -1, Reason: "too large"}
	assert.Equal(t, "invalid material spec: pushConstants: too large", err.Error())

	err = &IndexOutOfRangeError{What: "texture", Index: 3, Len: 1}
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Contains(t, err.Error(), "texture index 3")

	err = &InvalidOperationError{Op: "WithVertexUniform", Reason: "slot 0 is mat4, got int32"}
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestShaderLoadErrorKeepsCause(t *testing.T) {
	err := &ShaderLoadError{Path: "shaders/missing.spv", Err: fs.ErrNotExist}
	assert.ErrorIs(t, err, ErrShaderLoad)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var sle *ShaderLoadError
	assert.True(t, errors.As(err, &sle))
	assert.Equal(t, "shaders/missing.spv", sle.Path)
}

func TestSetLogLevel(t *testing.T) {
	assert.NoError(t, SetLogLevel("warn"))
	assert.Error(t, SetLogLevel("loud"))
	assert.NoError(t, SetLogLevel("debug"))
}
