package classical

import (
	"context"
	"testing"

	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

func TestTau(t *testing.T) {
	tpm := majorityTPM(t, 3)
	full := makeSystem(t, []int{1, 0, 0}, tpm, FullConnectivity(3), phi.DefaultConfig())
	if full.Tau() != 1.0 {
		t.Fatalf("expected 1.0, got %v", full.Tau())
	}
	empty := makeSystem(t, []int{1, 0, 0}, tpm, EmptyConnectivity(3), phi.DefaultConfig())
	if empty.Tau() != 0 {
		t.Fatalf("expected 0, got %v", empty.Tau())
	}
	loop := makeSystem(t, []int{1, 0, 0}, rotationTPM(t, 3), chain(3, true), phi.DefaultConfig())
	if loop.Tau() != 0 {
		t.Fatalf("a one-way ring has no bidirectional pairs, got %v", loop.Tau())
	}
}

func TestGeometricAndSpectral_Majority(t *testing.T) {
	s := makeSystem(t, []int{1, 1, 0}, majorityTPM(t, 3), FullConnectivity(3), phi.DefaultConfig())
	// flipping one input changes the majority in half the states
	if g := s.Geometric(); !near(g, 1.5, 1e-12) {
		t.Fatalf("expected geometric 1.5, got %f", g)
	}
	sp, err := s.Spectral()
	if err != nil {
		t.Fatalf("spectral: %v", err)
	}
	if !near(sp, 1.5, 1e-9) {
		t.Fatalf("expected spectral 1.5, got %f", sp)
	}
}

func TestApproximations_Disconnected(t *testing.T) {
	s := makeSystem(t, []int{1, 0, 1}, majorityTPM(t, 3), EmptyConnectivity(3), phi.DefaultConfig())
	if s.Geometric() != 0 {
		t.Fatalf("expected 0, got %f", s.Geometric())
	}
	sp, err := s.Spectral()
	if err != nil || sp != 0 {
		t.Fatalf("expected 0, got %f (%v)", sp, err)
	}
	if s.MeanField() != 0 {
		t.Fatalf("expected 0, got %f", s.MeanField())
	}
}

func TestMeanField(t *testing.T) {
	coin, err := TPMFromFunc(3, func(subset.Set, int) float64 { return 0.5 })
	if err != nil {
		t.Fatalf("tpm: %v", err)
	}
	s := makeSystem(t, []int{0, 1, 0}, coin, FullConnectivity(3), phi.DefaultConfig())
	if mf := s.MeanField(); !near(mf, 0.75, 1e-12) {
		t.Fatalf("expected 0.75, got %f", mf)
	}
}

func TestPhi_ApproximationDispatch(t *testing.T) {
	for _, m := range []phi.Method{phi.Geometric, phi.Spectral, phi.MeanField, phi.Tau} {
		cfg := phi.DefaultConfig()
		cfg.Approximation = m
		cfg.MaxExactSize = 2
		s := makeSystem(t, []int{1, 1, 0}, majorityTPM(t, 3), FullConnectivity(3), cfg)
		res, err := s.Phi(context.Background())
		if err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		if res.Method != m || res.Phi < 0 {
			t.Fatalf("%s: unexpected result %+v", m, res)
		}
	}
}
