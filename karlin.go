package dotter

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowEstimate carries the sliding-window length W chosen for a pair of
// sequences and the expected per-residue score E of an aligned pair under
// the matrix's implicit target distribution.
type WindowEstimate struct {
	W         int
	E         float64
	Lambda    float64
	Clamped   bool
	Converged bool
}

// karlinK approximates the Karlin-Altschul K parameter. Computing K exactly
// requires the full renewal-theory machinery; the window estimate is only a
// starting default the user can override, so a typical value is used.
const karlinK = 0.1

// EstimateWindow picks a sliding-window length from Karlin-Altschul
// statistics of the matrix and the residue composition: it solves for the
// decay parameter lambda of the matrix by bisection, derives the expected
// aligned-pair score E and relative entropy H = lambda*E, and sets W to the
// expected length of a significant local alignment between sequences of the
// given lengths, ln(K*qlen*slen)/H.
//
// The composition is a fixed background amino-acid frequency vector for
// protein comparisons and the observed base composition for DNA. The result
// is clamped into [3,50]: estimates below 3 force 10, above 50 force 50,
// each with a warning. If the bisection fails to bracket a root the clamped
// default is returned with Converged=false.
func EstimateWindow(m Matrix, composition map[byte]float64, codeOf func(byte) int, qlen, slen int) WindowEstimate {
	letters := make([]byte, 0, len(composition))
	freqs := make([]float64, 0, len(composition))
	for b, f := range composition {
		letters = append(letters, b)
		freqs = append(freqs, f)
	}
	if len(freqs) == 0 {
		return WindowEstimate{W: 10, Clamped: true}
	}
	if sum := floats.Sum(freqs); sum > 0 {
		floats.Scale(1/sum, freqs)
	}

	lambda, converged := solveLambda(letters, freqs, m, codeOf)
	if !converged {
		Vprintf("Karlin/Altschul lambda did not converge. Using window size 10.\n")
		return WindowEstimate{W: 10, Lambda: lambda, Clamped: true}
	}

	// Expected score of an aligned residue pair under the target
	// distribution q_ij = p_i*p_j*exp(lambda*s_ij): a weighted mean of the
	// matrix entries.
	var scores, weights []float64
	for i, li := range letters {
		ci := codeOf(li)
		for j, lj := range letters {
			cj := codeOf(lj)
			s := float64(m.Vals[ci][cj])
			scores = append(scores, s)
			weights = append(weights, freqs[i]*freqs[j]*math.Exp(lambda*s))
		}
	}
	e := stat.Mean(scores, weights)
	h := lambda * e
	if h <= 0 {
		Vprintf("Karlin/Altschul relative entropy is not positive. Using window size 10.\n")
		return WindowEstimate{W: 10, E: e, Lambda: lambda, Clamped: true, Converged: true}
	}

	raw := int(math.Log(karlinK*float64(qlen)*float64(slen))/h + 0.5)
	w, clamped := clampWindow(raw)
	return WindowEstimate{W: w, E: e, Lambda: lambda, Clamped: clamped, Converged: true}
}

// solveLambda bisects for the positive root of
//
//	f(lambda) = sum_ij p_i*p_j*exp(lambda*s_ij) - 1
//
// which exists whenever the expected matrix score is negative and at least
// one positive score is reachable.
func solveLambda(letters []byte, freqs []float64, m Matrix, codeOf func(byte) int) (float64, bool) {
	f := func(lambda float64) float64 {
		total := 0.0
		for i, li := range letters {
			ci := codeOf(li)
			for j, lj := range letters {
				cj := codeOf(lj)
				total += freqs[i] * freqs[j] * math.Exp(lambda*float64(m.Vals[ci][cj]))
			}
		}
		return total - 1
	}

	lo, hi := 1e-6, 2.0
	flo, fhi := f(lo), f(hi)
	for i := 0; i < 50 && flo*fhi > 0; i++ {
		hi *= 2
		fhi = f(hi)
	}
	if flo*fhi > 0 {
		return 0, false
	}
	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2
		fm := f(mid)
		if math.Abs(fm) < 1e-9 {
			return mid, true
		}
		if (fm > 0) == (flo > 0) {
			lo, flo = mid, fm
		} else {
			hi, fhi = mid, fm
		}
	}
	return (lo + hi) / 2, true
}

func clampWindow(raw int) (w int, clamped bool) {
	if raw < 3 {
		Vprintf("Karlin/Altschul estimate of window size = %d ignored. Using 10 instead.\n", raw)
		return 10, true
	}
	if raw > 50 {
		Vprintf("Karlin/Altschul estimate of window size = %d ignored. Using 50 instead.\n", raw)
		return 50, true
	}
	return raw, false
}

// DefaultPixelFac derives the score-to-intensity multiplier from the
// expected aligned-pair score when the caller has not supplied one, placing
// the expected score at a fifth of the intensity range.
func DefaultPixelFac(e float64) int {
	if e <= 0 {
		return 50
	}
	return int(0.2 * 256 / e)
}
