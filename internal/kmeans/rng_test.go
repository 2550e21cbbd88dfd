// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kmeans

import "testing"

func TestRNGDeterministicForSameSeed(t *testing.T) {
	a := NewRNG(8675309)
	b := NewRNG(8675309)
	for i := 0; i < 100; i++ {
		va, vb := a.Float64(), b.Float64()
		if va != vb {
			t.Fatalf("draw %d: %v != %v for identical seeds", i, va, vb)
		}
	}
}

func TestRNGDiffersAcrossSeeds(t *testing.T) {
	a := NewRNG(1)
	b := NewRNG(2)
	same := true
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("two different seeds produced identical sequences")
	}
}

func TestFloat64InUnitRange(t *testing.T) {
	r := NewRNG(42)
	for i := 0; i < 1000; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64() = %v, want in [0, 1)", v)
		}
	}
}

func TestIntnInRange(t *testing.T) {
	r := NewRNG(42)
	for i := 0; i < 1000; i++ {
		v := r.Intn(7)
		if v < 0 || v >= 7 {
			t.Fatalf("Intn(7) = %d, want in [0, 7)", v)
		}
	}
}

func TestIntnZeroOrNegativeReturnsZero(t *testing.T) {
	r := NewRNG(1)
	if v := r.Intn(0); v != 0 {
		t.Errorf("Intn(0) = %d, want 0", v)
	}
	if v := r.Intn(-5); v != 0 {
		t.Errorf("Intn(-5) = %d, want 0", v)
	}
}

func TestIntnPowerOfTwoStaysInRange(t *testing.T) {
	r := NewRNG(99)
	for i := 0; i < 1000; i++ {
		v := r.Intn(16)
		if v < 0 || v >= 16 {
			t.Fatalf("Intn(16) = %d, want in [0, 16)", v)
		}
	}
}
