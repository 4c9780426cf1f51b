package core

import (
	"errors"
	"fmt"
)

var (
	ErrSwapchainBooting    = errors.New("swapchain resized or recreated, booting")
	ErrNoSuitableDevice    = errors.New("no suitable physical device")
	ErrMissingExtension    = errors.New("required extension not present")
	ErrOutOfDeviceMemory   = errors.New("out of device memory")
	ErrDrawOutsideFrame    = errors.New("draw called outside of an open frame")
	ErrNoMaterialBound     = errors.New("no material bound to the render context")
	ErrFrameInProgress     = errors.New("a frame is already in progress")
	ErrInvalidOperation    = errors.New("invalid operation")
	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrInvalidMaterialSpec = errors.New("invalid material specification")
	ErrShaderLoad          = errors.New("failed to load shader")
	ErrUnknown             = errors.New("unknown")
)

// InvalidMaterialSpecError reports a material description the compiler
// cannot turn into pipeline state.
type InvalidMaterialSpecError struct {
	Field  string
	Index  int
	Reason string
}

func (e *InvalidMaterialSpecError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid material spec: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid material spec: %s[%d]: %s", e.Field, e.Index, e.Reason)
}

func (e *InvalidMaterialSpecError) Unwrap() error { return ErrInvalidMaterialSpec }

type IndexOutOfRangeError struct {
	What  string
	Index uint32
	Len   uint32
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range (len=%d)", e.What, e.Index, e.Len)
}

func (e *IndexOutOfRangeError) Unwrap() error { return ErrIndexOutOfRange }

type InvalidOperationError struct {
	Op     string
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("invalid operation %s: %s", e.Op, e.Reason)
}

func (e *InvalidOperationError) Unwrap() error { return ErrInvalidOperation }

// ShaderLoadError wraps the underlying I/O or format error of a SPIR-V program.
type ShaderLoadError struct {
	Path string
	Err  error
}

func (e *ShaderLoadError) Error() string {
	return fmt.Sprintf("failed to load shader '%s': %s", e.Path, e.Err)
}

func (e *ShaderLoadError) Unwrap() []error { return []error{ErrShaderLoad, e.Err} }
