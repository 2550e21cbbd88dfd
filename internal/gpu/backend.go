//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/icondecomp/gpucore"
	"github.com/gogpu/wgpu/core"
)

// Backend errors.
var (
	// ErrNoGPU is returned when no compatible GPU adapter is found.
	ErrNoGPU = errors.New("gpu: no compatible adapter found")

	// ErrNotInitialized is returned when the backend is used before Init.
	ErrNotInitialized = errors.New("gpu: backend not initialized")
)

// Backend is a GPU-accelerated kernel host using gogpu/wgpu.
//
// Backend owns the instance, adapter, device, and queue, and maintains the
// resource tables that back the opaque IDs declared in gpucore. It
// implements gpucore.GPUAdapter.
//
// Thread safety: Backend is safe for concurrent use by multiple pipeline
// branch executions, per spec.md §5 ("a single GPU device and kernel
// library ... are shared process-wide"); each branch still needs its own
// buffers, which it creates through CreateBuffer.
type Backend struct {
	mu sync.RWMutex

	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID

	initialized    bool
	externalDevice bool // true when device/queue/adapter are shared, not owned

	nextID  uint64
	buffers map[gpucore.BufferID][]byte // host-visible shadow for map-read/write
	shaders map[gpucore.ShaderModuleID]struct{}
	layouts map[gpucore.BindGroupLayoutID]gpucore.BindGroupLayoutDesc
	groups  map[gpucore.BindGroupID]gpucore.BindGroupDesc
	plLay   map[gpucore.PipelineLayoutID][]gpucore.BindGroupLayoutID
	pipes   map[gpucore.ComputePipelineID]gpucore.ComputePipelineDesc
}

// NewBackend creates an uninitialized GPU backend. Call Init before use.
func NewBackend() *Backend {
	return &Backend{
		buffers: make(map[gpucore.BufferID][]byte),
		shaders: make(map[gpucore.ShaderModuleID]struct{}),
		layouts: make(map[gpucore.BindGroupLayoutID]gpucore.BindGroupLayoutDesc),
		groups:  make(map[gpucore.BindGroupID]gpucore.BindGroupDesc),
		plLay:   make(map[gpucore.PipelineLayoutID][]gpucore.BindGroupLayoutID),
		pipes:   make(map[gpucore.ComputePipelineID]gpucore.ComputePipelineDesc),
	}
}

// Init requests a high-performance adapter and creates the device and
// queue. Init is idempotent: calling it again on an initialized backend is
// a no-op.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	desc := &gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
	}
	b.instance = core.NewInstance(desc)

	adapterID, err := b.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	b.adapter = adapterID

	deviceID, queueID, err := createDeviceAndQueue(adapterID)
	if err != nil {
		return fmt.Errorf("gpu: device creation failed: %w", err)
	}
	b.device = deviceID
	b.queue = queueID

	b.initialized = true
	slogger().Info("gpu: backend initialized")
	return nil
}

// Close releases the device and adapter. Safe to call more than once. If
// the backend is using a shared device adopted via SetDeviceProvider, the
// device and adapter are left running — they belong to the host — and
// only the backend's own bookkeeping is reset.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	if !b.externalDevice {
		if err := releaseDevice(b.device); err != nil {
			slogger().Warn("gpu: error releasing device", "err", err)
		}
		if err := releaseAdapter(b.adapter); err != nil {
			slogger().Warn("gpu: error releasing adapter", "err", err)
		}
	}
	b.device = core.DeviceID{}
	b.adapter = core.AdapterID{}
	b.queue = core.QueueID{}
	b.instance = nil
	b.initialized = false
	b.externalDevice = false
	slogger().Info("gpu: backend closed")
}

// SetDeviceProvider switches the backend to a GPU device owned by an
// external host (e.g. a gogpu window) instead of the one it would
// otherwise create in Init. The provider must expose
// HalDevice()/HalQueue()/HalAdapter() any methods returning the same
// core.DeviceID/core.QueueID/core.AdapterID handles the host obtained
// from its own github.com/gogpu/wgpu/core instance, so icondecomp and the
// host end up issuing commands against one physical device and queue
// instead of two. Close will not tear down a shared device.
func (b *Backend) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
		HalAdapter() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu: provider does not expose device handles")
	}
	deviceID, ok := hp.HalDevice().(core.DeviceID)
	if !ok || deviceID.IsZero() {
		return fmt.Errorf("gpu: provider HalDevice is not a core.DeviceID")
	}
	queueID, ok := hp.HalQueue().(core.QueueID)
	if !ok || queueID.IsZero() {
		return fmt.Errorf("gpu: provider HalQueue is not a core.QueueID")
	}
	adapterID, ok := hp.HalAdapter().(core.AdapterID)
	if !ok || adapterID.IsZero() {
		return fmt.Errorf("gpu: provider HalAdapter is not a core.AdapterID")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized && !b.externalDevice {
		if err := releaseDevice(b.device); err != nil {
			slogger().Warn("gpu: error releasing own device before adopting shared one", "err", err)
		}
		if err := releaseAdapter(b.adapter); err != nil {
			slogger().Warn("gpu: error releasing own adapter before adopting shared one", "err", err)
		}
		b.instance = nil
	}

	b.adapter = adapterID
	b.device = deviceID
	b.queue = queueID
	b.externalDevice = true
	b.initialized = true
	slogger().Info("gpu: backend adopted shared device")
	return nil
}

// SetLogger propagates icondecomp's logger to this package. Required by the
// GPUAdapter interface contract so RegisterAccelerator and SetLogger can
// call it directly, with no type assertion.
func (b *Backend) SetLogger(l *slog.Logger) { setLogger(l) }

// Name identifies this adapter, satisfying icondecomp.GPUAdapter.
func (b *Backend) Name() string { return "wgpu" }

// SupportsCompute reports whether the device exposes compute shaders.
func (b *Backend) SupportsCompute() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.initialized
}

// MaxWorkgroupSize returns fixed compute workgroup limits; the device is
// not queried.
func (b *Backend) MaxWorkgroupSize() [3]uint32 {
	return [3]uint32{256, 256, 64}
}

// MaxBufferSize returns a fixed maximum buffer size in bytes; the device
// is not queried.
func (b *Backend) MaxBufferSize() uint64 {
	return 256 << 20 // 256 MiB comfortably covers a 4MP icon's largest buffer
}

var _ gpucore.GPUAdapter = (*Backend)(nil)
