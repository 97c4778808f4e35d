package core

import (
	"math/rand"
	"testing"
)

func TestRandomSampler_Range(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))
	for i := 0; i < 1000; i++ {
		v := sampler.Get1D()
		if v < 0 || v >= 1 {
			t.Fatalf("Sample %d out of range [0, 1): %f", i, v)
		}
	}
}

func TestForkSampler(t *testing.T) {
	parent := NewSeededSampler(7)
	child := ForkSampler(parent)

	if child == Sampler(parent) {
		t.Fatal("Forked sampler should be a different instance")
	}

	// Forking is deterministic for the same parent seed
	again := ForkSampler(NewSeededSampler(7))
	for i := 0; i < 10; i++ {
		if a, b := child.Get1D(), again.Get1D(); a != b {
			t.Fatalf("Forked samplers diverged at %d: %f != %f", i, a, b)
		}
	}
}

func TestForkSampler_NonForkable(t *testing.T) {
	c := ConstantSampler(0.25)
	if ForkSampler(c) != Sampler(c) {
		t.Error("Non-forkable sampler should be returned as-is")
	}
	if ForkSampler(nil) != nil {
		t.Error("Nil sampler should stay nil")
	}
}
