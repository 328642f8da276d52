package dotter

import "testing"

func TestEstimateWindowProtein(t *testing.T) {
	est := EstimateWindow(BLOSUM62, aminoAcidFrequency, codeOfProtein, 1000, 1000)
	if !est.Converged {
		t.Fatalf("lambda bisection did not converge for BLOSUM62")
	}
	if est.Lambda <= 0 || est.Lambda > 1 {
		t.Fatalf("lambda = %v, want in (0,1]", est.Lambda)
	}
	if est.E <= 0 {
		t.Fatalf("expected aligned-pair score = %v, want positive", est.E)
	}
	if est.W < 3 || est.W > 50 {
		t.Fatalf("window = %d, want within [3,50]", est.W)
	}
}

func TestEstimateWindowDNA(t *testing.T) {
	composition := map[byte]float64{'A': 0.25, 'C': 0.25, 'G': 0.25, 'T': 0.25}
	est := EstimateWindow(SynthDNAMatrix(), composition, codeOfDNA, 10000, 10000)
	if !est.Converged {
		t.Fatalf("lambda bisection did not converge for the +5/-4 matrix")
	}
	if est.W < 3 || est.W > 50 {
		t.Fatalf("window = %d, want within [3,50]", est.W)
	}
	// Longer sequences need longer windows to stay significant.
	short := EstimateWindow(SynthDNAMatrix(), composition, codeOfDNA, 100, 100)
	if short.W > est.W {
		t.Fatalf("window grew from %d to %d as sequences shrank", est.W, short.W)
	}
}

func TestEstimateWindowDegenerate(t *testing.T) {
	// An all-positive matrix has no Karlin-Altschul lambda; the clamped
	// default must come back instead of an error.
	var m Matrix
	for i := range m.Vals {
		for j := range m.Vals[i] {
			m.Vals[i][j] = 5
		}
	}
	est := EstimateWindow(m, map[byte]float64{'A': 0.5, 'C': 0.5}, codeOfDNA, 100, 100)
	if est.Converged {
		t.Fatalf("all-positive matrix reported a converged lambda")
	}
	if est.W != 10 || !est.Clamped {
		t.Fatalf("degenerate estimate = (W=%d, clamped=%v), want (10, true)", est.W, est.Clamped)
	}

	if est := EstimateWindow(BLOSUM62, nil, codeOfProtein, 100, 100); est.W != 10 {
		t.Fatalf("empty composition gave W=%d, want 10", est.W)
	}
}

func TestDefaultPixelFac(t *testing.T) {
	if got := DefaultPixelFac(2.0); got != 25 {
		t.Fatalf("DefaultPixelFac(2.0) = %d, want 25", got)
	}
	if got := DefaultPixelFac(0); got != 50 {
		t.Fatalf("DefaultPixelFac(0) = %d, want 50", got)
	}
}
