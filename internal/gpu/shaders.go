//go:build !nogpu

package gpu

import (
	"embed"
	"errors"
	"fmt"
	"sync"
)

//go:embed kernels/*.wgsl
var kernelFS embed.FS

// Kernel names, used both as the embedded file stem and as the shader
// module label surfaced in ShaderLoadFailed errors.
const (
	KernelConvert    = "convert"
	KernelSLICAssign = "slic_assign"
)

// ErrShaderNotFound is returned when a kernel name has no embedded source.
var ErrShaderNotFound = errors.New("gpu: kernel source not found")

// library caches the kernel library's WGSL source text, read from the
// embedded files on first use and shared process-wide. It holds source
// only; compilation happens in every CreateShaderModule call.
type library struct {
	mu      sync.Mutex
	sources map[string]string
	loaded  bool
}

var kernelLibrary library

// LoadKernelSource exposes loadKernelSource to callers outside this
// package (icondecomp's operation wiring, which compiles kernels through
// a GPUAdapter rather than this package's own Backend).
func LoadKernelSource(name string) (string, error) {
	return loadKernelSource(name)
}

// loadKernelSource returns the WGSL source for name, reading the embedded
// file on first use. naga (github.com/gogpu/naga) cross-compiles this WGSL
// to the backend's native shader IR when CreateShaderModule is called.
func loadKernelSource(name string) (string, error) {
	kernelLibrary.mu.Lock()
	defer kernelLibrary.mu.Unlock()

	if !kernelLibrary.loaded {
		kernelLibrary.sources = make(map[string]string)
		kernelLibrary.loaded = true
	}
	if src, ok := kernelLibrary.sources[name]; ok {
		return src, nil
	}

	data, err := kernelFS.ReadFile("kernels/" + name + ".wgsl")
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrShaderNotFound, name, err)
	}
	src := string(data)
	kernelLibrary.sources[name] = src
	return src, nil
}
