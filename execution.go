// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Execution is the result of running a Pipeline once: the final context
// (every buffer and metadata value produced along the way) and the data
// type of the last operation.
type Execution struct {
	ctx        *Context
	outputType DataType

	pipeline *Pipeline // the pipeline that produced this, for ExecuteFrom's prefix check
}

// Context returns the execution's final context.
func (e *Execution) Context() *Context { return e.ctx }

// OutputType returns the data type produced by the last operation run.
func (e *Execution) OutputType() DataType { return e.outputType }

// Layers is a convenience accessor equivalent to Context().Layers().
func (e *Execution) Layers() []Layer { return e.ctx.Layers() }

// Execute runs the full operation DAG once on input, using the currently
// registered accelerator if any (spec.md §4.1). Configuration errors
// recorded during building are returned here, before any GPU work begins
// (spec.md §7).
func (p *Pipeline) Execute(input *RGBAImage) (*Execution, error) {
	return p.execute(context.Background(), input, nil)
}

// ExecuteWithDepth is Execute, additionally binding a depth buffer at key
// depthBuffer (spec.md §4.1, §6). depth must have the same dimensions as
// input.
func (p *Pipeline) ExecuteWithDepth(input *RGBAImage, depth *DepthMap) (*Execution, error) {
	return p.execute(context.Background(), input, depth)
}

func (p *Pipeline) execute(ctx context.Context, input *RGBAImage, depth *DepthMap) (*Execution, error) {
	if p.err != nil {
		return nil, p.err
	}

	ec := NewContext()
	ec.SetBuffer(KeyInput, input)
	if depth != nil {
		ec.SetBuffer(KeyDepthBuffer, depth)
	}

	adapter := Accelerator()
	for _, op := range p.ops {
		if err := op.run(ctx, ec, adapter); err != nil {
			return nil, err
		}
	}

	return &Execution{ctx: ec, outputType: p.outputType(), pipeline: p}, nil
}

// ExecuteBatch runs the full DAG once per input, sequentially (spec.md
// §4.1: "execute(inputs) — runs the DAG once per input, sequentially").
// The returned slice has one Execution per input in order; execution stops
// and returns the error at the first failing input.
func (p *Pipeline) ExecuteBatch(inputs []*RGBAImage) ([]*Execution, error) {
	out := make([]*Execution, 0, len(inputs))
	for _, input := range inputs {
		exec, err := p.Execute(input)
		if err != nil {
			return nil, err
		}
		out = append(out, exec)
	}
	return out, nil
}

// ExecuteFrom starts from a shallow copy of parent's context and runs only
// the operations in the receiver's DAG that come after parent's (spec.md
// §4.1). The receiver's operation list must have parent.pipeline's list as
// a prefix; this is how a shared SLIC segmentation is reused across many
// downstream clustering/merge/extract variants.
//
// Per the concurrency contract (spec.md §4.1, §5), it is safe to call
// ExecuteFrom concurrently on the same parent from multiple goroutines: the
// merge operation never mutates a buffer in place, it always installs a
// fresh *ClusterAssignments value in its own context copy.
func (p *Pipeline) ExecuteFrom(parent *Execution) (*Execution, error) {
	if p.err != nil {
		return nil, p.err
	}
	if parent == nil || parent.pipeline == nil {
		return nil, newInvalidOperationSequence("ExecuteFrom: parent execution has no pipeline")
	}
	prefix := parent.pipeline.ops
	if len(prefix) > len(p.ops) {
		return nil, newInvalidOperationSequence("ExecuteFrom: parent's DAG is longer than the receiver's")
	}
	for i, op := range prefix {
		if op.name != p.ops[i].name {
			return nil, newInvalidOperationSequence("ExecuteFrom: parent's DAG is not a prefix of the receiver's")
		}
	}

	ec := parent.ctx.Copy()
	adapter := Accelerator()
	for _, op := range p.ops[len(prefix):] {
		if err := op.run(context.Background(), ec, adapter); err != nil {
			return nil, err
		}
	}

	return &Execution{ctx: ec, outputType: p.outputType(), pipeline: p}, nil
}

// ExecuteBranches runs ExecuteFrom(parent) for every branch concurrently,
// fanning out with an errgroup the way a batch of downstream parameter
// variants (spec.md §4.1's motivating example: many K values off one
// shared SLIC segmentation) is meant to run in parallel (spec.md §5:
// "branch executions ... run on independent tasks and may execute in
// parallel"). It returns the first error encountered, if any, after every
// branch has finished.
func ExecuteBranches(parent *Execution, branches []*Pipeline) ([]*Execution, error) {
	results := make([]*Execution, len(branches))
	var g errgroup.Group
	for i, branch := range branches {
		i, branch := i, branch
		g.Go(func() error {
			exec, err := branch.ExecuteFrom(parent)
			if err != nil {
				return err
			}
			results[i] = exec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
