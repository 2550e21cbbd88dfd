// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gogpu/icondecomp/gpucore"
)

// ErrFallbackToCPU indicates GPU execution is unavailable or declined for
// this run, and the pipeline should use its CPU reference implementation
// instead. No function in this package returns it: Execute, ExecuteFrom and
// ExecuteBatch run an operation's CPU path directly, with no error, when no
// accelerator is registered, the accelerator reports
// SupportsCompute()==false, or the operation's GPU path fails.
var ErrFallbackToCPU = errors.New("icondecomp: falling back to CPU execution")

// GPUAdapter is the optional GPU acceleration provider for icondecomp. It
// extends [gpucore.GPUAdapter] with the lifecycle methods needed to manage
// a process-wide device, created by Init when the adapter is registered
// (spec.md §5).
//
// Implementations live in backend packages (e.g. internal/gpu, which wraps
// gogpu/wgpu). Users opt in to GPU acceleration by registering one:
//
//	adapter := gpu.NewBackend()
//	if err := icondecomp.RegisterAccelerator(adapter); err != nil {
//	    // GPU unavailable; pipeline stages will use the CPU path.
//	}
type GPUAdapter interface {
	gpucore.GPUAdapter

	// Name identifies the backend, e.g. "wgpu".
	Name() string

	// Init acquires the device, queue, and kernel library. Called once by
	// RegisterAccelerator before the adapter is installed.
	Init() error

	// SetLogger receives icondecomp's active logger, so the adapter's own
	// diagnostics (device selection, dispatch errors, resource teardown)
	// go through the same sink as the rest of the pipeline. Called once by
	// RegisterAccelerator and again on every subsequent SetLogger call.
	SetLogger(l *slog.Logger)
}

var (
	acceleratorMu sync.RWMutex
	accelerator   GPUAdapter
)

// RegisterAccelerator installs the GPU adapter used by Pipeline executions
// that request GPU acceleration. Only one adapter can be registered at a
// time; a later call replaces and closes the previous one.
//
// RegisterAccelerator calls a.Init() before installing it. If Init fails,
// the adapter is not registered and the error is returned unchanged.
func RegisterAccelerator(a GPUAdapter) error {
	if a == nil {
		return errors.New("icondecomp: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}

	acceleratorMu.Lock()
	old := accelerator
	accelerator = a
	acceleratorMu.Unlock()

	if old != nil {
		old.Close()
	}
	a.SetLogger(Logger())
	return nil
}

// Accelerator returns the currently registered GPU adapter, or nil if none
// is registered.
func Accelerator() GPUAdapter {
	acceleratorMu.RLock()
	defer acceleratorMu.RUnlock()
	return accelerator
}

// CloseAccelerator releases the registered GPU adapter's resources (device,
// queue, kernel library) and unregisters it. Safe to call when no adapter
// is registered. After this call, [Accelerator] returns nil and every
// pipeline execution falls back to the CPU path.
func CloseAccelerator() {
	acceleratorMu.Lock()
	a := accelerator
	accelerator = nil
	acceleratorMu.Unlock()
	if a != nil {
		a.Close()
	}
}

// resetAccelerator clears the registered accelerator without closing it.
// Used by tests that install a mock adapter directly.
func resetAccelerator() {
	acceleratorMu.Lock()
	accelerator = nil
	acceleratorMu.Unlock()
}

// DeviceProviderAware is an optional interface for adapters that can share
// a GPU device already created by the host application (e.g. a gogpu
// window) instead of creating their own. When SetDeviceProvider succeeds,
// the adapter issues every subsequent Dispatch against the shared
// device/queue rather than a second, independently-created one.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// adapter, enabling GPU device sharing between icondecomp and a host that
// already owns a wgpu device. If no adapter is registered, or the
// registered adapter doesn't support device sharing, this is a no-op.
//
// The provider's required shape is adapter-specific; internal/gpu.Backend
// expects one exposing HalDevice()/HalQueue()/HalAdapter() any methods
// returning the host's own github.com/gogpu/wgpu/core handles.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
