// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// stripShaderWGSL is the preview shader for strip geometry: positions are
// transformed by a single view-projection matrix and shaded by a flat
// depth-based tint, enough to inspect strip output visually.
const stripShaderWGSL = `
struct ViewUniforms {
    view_proj: mat4x4<f32>,
}

@group(0) @binding(0) var<uniform> view: ViewUniforms;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) depth: f32,
}

@vertex
fn vs_main(@location(0) pos: vec3<f32>) -> VertexOutput {
    var out: VertexOutput;
    out.position = view.view_proj * vec4<f32>(pos, 1.0);
    out.depth = out.position.z / out.position.w;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let shade = clamp(1.0 - in.depth, 0.15, 1.0);
    return vec4<f32>(shade, shade, shade, 1.0);
}
`

// CompileStripShader compiles the preview shader to SPIR-V words.
func CompileStripShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(stripShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("gpu: failed to compile strip shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

// CreateStripShaderModule compiles the preview shader and creates a HAL
// shader module for it.
func CreateStripShaderModule(device hal.Device) (hal.ShaderModule, error) {
	spirv, err := CompileStripShader()
	if err != nil {
		return nil, err
	}
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "meshcodec-strip-shader",
		Source: hal.ShaderSource{
			SPIRV: spirv,
		},
	})
}

// PreviewTarget describes the offscreen color target used for strip
// preview rendering.
type PreviewTarget struct {
	// Width and Height are the target dimensions in pixels.
	Width, Height uint32
	// Format is the color attachment format.
	Format gputypes.TextureFormat
}

// DefaultPreviewTarget returns a preview target with the conventional
// swapchain color format.
func DefaultPreviewTarget(width, height uint32) PreviewTarget {
	return PreviewTarget{
		Width:  width,
		Height: height,
		Format: gputypes.TextureFormatBGRA8Unorm,
	}
}
