// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package icondecomp

import (
	"context"
	"testing"

	"github.com/gogpu/icondecomp/gpucore"
)

func runOp(t *testing.T, op operation, ec *Context) {
	t.Helper()
	if err := op.run(context.Background(), ec, nil); err != nil {
		t.Fatalf("%s.run() = %v", op.name, err)
	}
}

func TestConvertOperationPopulatesLABAndAlpha(t *testing.T) {
	img := twoToneSquare(8)
	ec := NewContext()
	ec.SetBuffer(KeyInput, img)

	runOp(t, newConvertOperation(DefaultLABScale()), ec)

	lab := ec.LAB()
	alpha := ec.Alpha()
	if lab == nil {
		t.Fatal("labImage buffer not set")
	}
	if alpha == nil {
		t.Fatal("alphaBuffer not set")
	}
	if lab.Width != img.Width || lab.Height != img.Height {
		t.Errorf("LAB dims = %dx%d, want %dx%d", lab.Width, lab.Height, img.Width, img.Height)
	}
	for _, a := range alpha.Pix {
		if a != 1 {
			t.Errorf("opaque input produced alpha %v, want 1", a)
		}
	}
	if w, ok := ec.Meta(MetaWidth); !ok || w != img.Width {
		t.Errorf("MetaWidth = %v, %v, want %d, true", w, ok, img.Width)
	}
}

func TestConvertOperationSetsRGBAImageForReentry(t *testing.T) {
	img := solidColorSquare(4, 9, 9, 9)
	ec := NewContext()
	ec.SetBuffer(KeyInput, img)

	runOp(t, newConvertOperation(DefaultLABScale()), ec)

	if got := ec.RGBA(); got != img {
		t.Error("rgbaImage buffer should be the same image bound at KeyInput")
	}
}

func TestConvertOperationExcludesTransparentPixels(t *testing.T) {
	img := transparentBorderSquare(8, 2, 200, 200, 200)
	ec := NewContext()
	ec.SetBuffer(KeyInput, img)

	runOp(t, newConvertOperation(DefaultLABScale()), ec)

	alpha := ec.Alpha()
	if alpha.Visible(0, 0) {
		t.Error("border pixel should be excluded by the alpha threshold")
	}
	if !alpha.Visible(4, 4) {
		t.Error("center pixel should be visible")
	}
}

func TestConvertOperationMissingInputFails(t *testing.T) {
	ec := NewContext()
	op := newConvertOperation(DefaultLABScale())
	if err := op.run(context.Background(), ec, nil); err == nil {
		t.Fatal("expected an error when no input buffer is bound")
	}
}

func TestEncodeConvertParamsLayout(t *testing.T) {
	p := gpucore.ConvertParams{Width: 4, Height: 5, LightnessScale: 1.5, GreenAxisScale: 2.5, AlphaThreshold: float32(AlphaThreshold)}
	buf := encodeConvertParams(p)
	if len(buf) != 32 {
		t.Fatalf("len(buf) = %d, want 32", len(buf))
	}
}
