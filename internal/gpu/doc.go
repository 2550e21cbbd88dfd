// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package gpu implements gpucore.GPUAdapter against a real device using
// github.com/gogpu/wgpu. It owns the GPU Resources component of the
// decomposition pipeline: a wgpu instance/adapter/device/queue and the
// WGSL kernel sources embedded by shaders.go.
//
// Init creates the device; icondecomp.RegisterAccelerator calls it when a
// Backend is registered, and every later Pipeline execution, including
// concurrent branches, reuses that Backend. Each kernel's WGSL source is
// read from the embedded files once per process, but compiled shader
// modules are not cached: every GPU run of an operation compiles its
// kernel again. Per-execution state (buffers, bind groups) is never shared
// across executions.
//
// Every file in this package carries the !nogpu build constraint, and the
// root icondecomp package imports it unconditionally, so a build with the
// nogpu tag does not compile.
package gpu
