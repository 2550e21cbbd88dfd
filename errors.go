// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import "fmt"

// ErrorKind classifies a [PipelineError], mirroring the error taxonomy a
// caller needs to branch on: builder-time type errors, device/shader
// failures, and run-time execution failures.
type ErrorKind int

const (
	// KindDeviceUnavailable means no compute device is present and no CPU
	// fallback was permitted.
	KindDeviceUnavailable ErrorKind = iota

	// KindShaderLoadFailed means a kernel failed to load or compile.
	KindShaderLoadFailed

	// KindInvalidOperationSequence means a builder-time type mismatch or a
	// missing prerequisite operation (e.g. extractLayers before cluster).
	KindInvalidOperationSequence

	// KindIncompatibleDataTypes is a specialization of
	// KindInvalidOperationSequence raised at append time, when the
	// predecessor's output type cannot feed the new operation's input.
	KindIncompatibleDataTypes

	// KindExecutionFailed means GPU submission, buffer allocation, or a
	// missing upstream context buffer failed at run time.
	KindExecutionFailed

	// KindTooFewVisiblePixels means SplitLayer was invoked on a layer with
	// fewer than the minimum required visible pixels.
	KindTooFewVisiblePixels

	// KindSplitFailed means every spatial-weight attempt in SplitLayer
	// failed to produce exactly two non-empty layers.
	KindSplitFailed
)

// String returns a short name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindDeviceUnavailable:
		return "DeviceUnavailable"
	case KindShaderLoadFailed:
		return "ShaderLoadFailed"
	case KindInvalidOperationSequence:
		return "InvalidOperationSequence"
	case KindIncompatibleDataTypes:
		return "IncompatibleDataTypes"
	case KindExecutionFailed:
		return "ExecutionFailed"
	case KindTooFewVisiblePixels:
		return "TooFewVisiblePixels"
	case KindSplitFailed:
		return "SplitFailed"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// PipelineError is the error type returned across the pipeline's public
// API boundary (spec.md §7). Use [errors.As] to recover the Kind and any
// kind-specific fields.
type PipelineError struct {
	Kind ErrorKind
	Msg  string

	// Name is set for KindShaderLoadFailed (the kernel name).
	Name string
	// Expected/Got are set for KindIncompatibleDataTypes.
	Expected, Got DataType
	// N is set for KindTooFewVisiblePixels.
	N int

	// Wrapped is the underlying cause, if any.
	Wrapped error
}

func (e *PipelineError) Error() string {
	switch e.Kind {
	case KindShaderLoadFailed:
		return fmt.Sprintf("icondecomp: %s: kernel %q: %s", e.Kind, e.Name, e.Msg)
	case KindIncompatibleDataTypes:
		return fmt.Sprintf("icondecomp: %s: expected %s, got %s", e.Kind, e.Expected, e.Got)
	case KindTooFewVisiblePixels:
		return fmt.Sprintf("icondecomp: %s: %d visible pixels", e.Kind, e.N)
	default:
		return fmt.Sprintf("icondecomp: %s: %s", e.Kind, e.Msg)
	}
}

func (e *PipelineError) Unwrap() error { return e.Wrapped }

// Is reports whether target is a *PipelineError with the same Kind,
// letting callers write errors.Is(err, icondecomp.ErrDeviceUnavailable)
// style checks against the sentinel values below. A KindIncompatibleDataTypes
// error also matches ErrInvalidOperationSequence, its general kind.
func (e *PipelineError) Is(target error) bool {
	t, ok := target.(*PipelineError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind || (e.Kind == KindIncompatibleDataTypes && t.Kind == KindInvalidOperationSequence)
}

// Sentinel errors for use with errors.Is. Each carries only its Kind; use
// errors.As to recover the full PipelineError for kind-specific fields.
var (
	ErrDeviceUnavailable        = &PipelineError{Kind: KindDeviceUnavailable}
	ErrShaderLoadFailed         = &PipelineError{Kind: KindShaderLoadFailed}
	ErrInvalidOperationSequence = &PipelineError{Kind: KindInvalidOperationSequence}
	ErrIncompatibleDataTypes    = &PipelineError{Kind: KindIncompatibleDataTypes}
	ErrExecutionFailed          = &PipelineError{Kind: KindExecutionFailed}
	ErrTooFewVisiblePixels      = &PipelineError{Kind: KindTooFewVisiblePixels}
	ErrSplitFailed              = &PipelineError{Kind: KindSplitFailed}
)

func newDeviceUnavailable(msg string) error {
	return &PipelineError{Kind: KindDeviceUnavailable, Msg: msg}
}

func newShaderLoadFailed(name string, err error) error {
	return &PipelineError{Kind: KindShaderLoadFailed, Name: name, Msg: err.Error(), Wrapped: err}
}

func newInvalidOperationSequence(msg string) error {
	return &PipelineError{Kind: KindInvalidOperationSequence, Msg: msg}
}

func newIncompatibleDataTypes(expected, got DataType) error {
	return &PipelineError{Kind: KindIncompatibleDataTypes, Expected: expected, Got: got}
}

func newExecutionFailed(msg string) error {
	return &PipelineError{Kind: KindExecutionFailed, Msg: msg}
}

func newExecutionFailedf(format string, args ...any) error {
	return &PipelineError{Kind: KindExecutionFailed, Msg: fmt.Sprintf(format, args...)}
}

func newTooFewVisiblePixels(n int) error {
	return &PipelineError{Kind: KindTooFewVisiblePixels, N: n}
}

func newSplitFailed(msg string) error {
	return &PipelineError{Kind: KindSplitFailed, Msg: msg}
}
