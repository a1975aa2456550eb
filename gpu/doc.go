// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu turns decoded meshes into GPU-ready triangle strip geometry.
//
// [BuildStripBuffers] runs the strip generator and packs the results into
// byte blobs laid out for direct upload: little-endian uint32 indices with
// primitive restart separators, and tightly packed float32 position
// vertices. The blobs come with matching wgpu HAL buffer descriptors;
// CreateOn allocates the device buffers when a HAL device is available.
//
// The package receives its device from the host application (via the
// minimal [Device] interface or a gpucontext [DeviceProvider]); it never
// creates one.
package gpu
