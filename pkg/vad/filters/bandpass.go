// Package filters implements the IIR filtering used by the feature
// extraction stages. The bandpass design matches a classic Butterworth
// band filter applied forward-backward for zero net phase shift.
package filters

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Bandpass is a zero-phase Butterworth bandpass filter. Coefficients are
// designed once at construction; Apply is stateless and safe to call
// concurrently from multiple extraction workers.
type Bandpass struct {
	b  []float64 // numerator coefficients
	a  []float64 // denominator coefficients, a[0] == 1
	zi []float64 // steady-state initial conditions for a unit step
}

// NewBandpass designs an order-N Butterworth bandpass filter. Cutoffs must
// satisfy 0 < low < high < sampleRate/2; violations are configuration
// errors, fatal at construction.
func NewBandpass(lowHz, highHz float64, sampleRate, order int) (*Bandpass, error) {
	nyquist := float64(sampleRate) / 2
	if lowHz <= 0 || lowHz >= highHz || highHz >= nyquist {
		return nil, fmt.Errorf("bandpass cutoffs must satisfy 0 < low < high < %g Hz, got %g-%g",
			nyquist, lowHz, highHz)
	}
	if order < 1 {
		return nil, fmt.Errorf("filter order must be >= 1, got %d", order)
	}

	b, a := designButterworthBandpass(order, lowHz/nyquist, highHz/nyquist)

	zi, err := steadyStateConditions(b, a)
	if err != nil {
		return nil, fmt.Errorf("failed to compute filter initial conditions: %w", err)
	}

	return &Bandpass{b: b, a: a, zi: zi}, nil
}

// Apply filters the signal forward, reverses it, filters again, and reverses
// back, cancelling the filter's phase response. The output has the same
// length as the input. Edge transients are suppressed by odd-symmetric
// extension at both ends before filtering.
func (f *Bandpass) Apply(x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}

	padLen := 3 * (len(f.a) - 1)
	if padLen >= len(x) {
		padLen = len(x) - 1
	}

	ext := oddExtend(x, padLen)

	y := f.filterWithInit(ext, ext[0])
	reverse(y)
	y = f.filterWithInit(y, y[0])
	reverse(y)

	return y[padLen : padLen+len(x)]
}

// filterWithInit runs a single direct form II transposed pass with the
// steady-state initial conditions scaled to the first sample
func (f *Bandpass) filterWithInit(x []float64, x0 float64) []float64 {
	n := len(f.a)
	z := make([]float64, n-1)
	for i := range z {
		z[i] = f.zi[i] * x0
	}

	y := make([]float64, len(x))
	for m, xm := range x {
		ym := f.b[0]*xm + z[0]
		for i := 0; i < n-2; i++ {
			z[i] = f.b[i+1]*xm + z[i+1] - f.a[i+1]*ym
		}
		z[n-2] = f.b[n-1]*xm - f.a[n-1]*ym
		y[m] = ym
	}
	return y
}

// designButterworthBandpass computes transfer-function coefficients for a
// digital Butterworth bandpass. Cutoffs are normalized to the Nyquist
// frequency (0, 1). The analog prototype is frequency-warped, transformed
// lowpass-to-bandpass, then discretized with the bilinear transform.
func designButterworthBandpass(order int, lowNorm, highNorm float64) (b, a []float64) {
	const fs = 2.0

	warpedLow := 2 * fs * math.Tan(math.Pi*lowNorm/2)
	warpedHigh := 2 * fs * math.Tan(math.Pi*highNorm/2)
	bw := warpedHigh - warpedLow
	w0 := math.Sqrt(warpedLow * warpedHigh)

	// Analog lowpass prototype: poles evenly spaced on the left unit
	// semicircle, unity gain.
	protoPoles := make([]complex128, order)
	for k := 0; k < order; k++ {
		theta := math.Pi * (float64(2*k+1)/float64(2*order) + 0.5)
		protoPoles[k] = cmplx.Exp(complex(0, theta))
	}

	// Lowpass-to-bandpass: each prototype pole splits into a conjugate pair
	// around w0; N zeros appear at s=0.
	poles := make([]complex128, 0, 2*order)
	for _, p := range protoPoles {
		scaled := p * complex(bw/2, 0)
		d := cmplx.Sqrt(scaled*scaled - complex(w0*w0, 0))
		poles = append(poles, scaled+d, scaled-d)
	}
	gain := math.Pow(bw, float64(order))

	// Bilinear transform s -> 2*fs*(z-1)/(z+1)
	fs2 := complex(2*fs, 0)
	zPoles := make([]complex128, len(poles))
	denProd := complex(1, 0)
	for i, p := range poles {
		zPoles[i] = (fs2 + p) / (fs2 - p)
		denProd *= fs2 - p
	}

	// Analog zeros at s=0 map to z=1; degree-completion zeros land at z=-1
	zZeros := make([]complex128, 0, 2*order)
	numProd := complex(1, 0)
	for i := 0; i < order; i++ {
		zZeros = append(zZeros, 1)
		numProd *= fs2
	}
	for len(zZeros) < len(zPoles) {
		zZeros = append(zZeros, -1)
	}

	k := gain * real(numProd/denProd)

	b = polyFromRoots(zZeros)
	for i := range b {
		b[i] *= k
	}
	a = polyFromRoots(zPoles)
	return b, a
}

// polyFromRoots expands a monic polynomial from its complex roots and
// returns the real coefficients in descending order. Roots are expected in
// conjugate pairs so imaginary parts cancel.
func polyFromRoots(roots []complex128) []float64 {
	coeffs := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * r
		}
		coeffs = next
	}

	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = real(c)
	}
	return out
}

// steadyStateConditions solves for the delay-line state that makes the
// filter start in step-response steady state, removing startup transients.
// Solves (I - C^T) zi = b[1:] - a[1:]*b[0] with C the companion matrix of a.
func steadyStateConditions(b, a []float64) ([]float64, error) {
	n := len(a)
	m := n - 1

	sys := mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			var c float64 // companion(a)[j][i]
			if j == 0 {
				c = -a[i+1] / a[0]
			} else if j == i+1 {
				c = 1
			}
			v := -c
			if i == j {
				v++
			}
			sys.Set(i, j, v)
		}
	}

	rhs := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		rhs.SetVec(i, b[i+1]-a[i+1]*b[0])
	}

	var zi mat.VecDense
	if err := zi.SolveVec(sys, rhs); err != nil {
		return nil, err
	}

	out := make([]float64, m)
	for i := range out {
		out[i] = zi.AtVec(i)
	}
	return out, nil
}

// oddExtend mirrors padLen samples at both ends with odd symmetry about the
// edge values
func oddExtend(x []float64, padLen int) []float64 {
	ext := make([]float64, 0, len(x)+2*padLen)
	for i := padLen; i > 0; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	last := len(x) - 1
	for i := 1; i <= padLen; i++ {
		ext = append(ext, 2*x[last]-x[last-i])
	}
	return ext
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
