package loaders

import (
	"errors"
	"fmt"
	"os"

	"github.com/spaghettifunk/voxelcraft/engine/core"
)

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic uint32 = 0x07230203

type ShaderLoader struct{}

func (sl *ShaderLoader) Load(path string) (interface{}, error) {
	return LoadShader(path)
}

// LoadShader reads a SPIR-V program as little-endian 32-bit words.
func LoadShader(path string) ([]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.ShaderLoadError{Path: path, Err: err}
	}
	code, err := bytesToBytecode(data)
	if err != nil {
		return nil, &core.ShaderLoadError{Path: path, Err: err}
	}
	return code, nil
}

func bytesToBytecode(b []byte) ([]uint32, error) {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, fmt.Errorf("size %d is not a positive multiple of 4", len(b))
	}
	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] |= uint32(b[byteIndex])
		byteCode[i] |= uint32(b[byteIndex+1]) << 8
		byteCode[i] |= uint32(b[byteIndex+2]) << 16
		byteCode[i] |= uint32(b[byteIndex+3]) << 24
	}
	if byteCode[0] != SPIRVMagic {
		return nil, errors.New("missing SPIR-V magic number")
	}
	return byteCode, nil
}
