//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Compiles every GLSL program under shaders/ to SPIR-V with glslc.
func (Build) Shaders() error {
	return buildShaders()
}

// Builds the shaders and then the engine binary into bin/.
func (Build) Engine() error {
	mg.Deps(Build.Shaders)
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/voxelcraft", "."), withStream()); err != nil {
		return err
	}
	return nil
}
