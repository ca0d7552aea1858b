package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

// ShaderSource is the WGSL source of the glyph shader. Entry points are
// vs_main and fs_main.
//
//go:embed shaders/text.wgsl
var ShaderSource string

// UniformSize is the size of the shader's Uniforms struct in bytes.
const UniformSize = 32

// CompileShader compiles ShaderSource to SPIR-V words.
func CompileShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(ShaderSource)
	if err != nil {
		return nil, fmt.Errorf("gpu: failed to compile glyph shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
