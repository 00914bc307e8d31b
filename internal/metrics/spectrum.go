package metrics

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitudes of the lower half of the transform
// of series. The mean is removed and the series zero padded to a power of
// two, so bin k stands for a period of 2*len(result)/k frames.
func PowerSpectrum(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	n := 1
	for n < len(series) {
		n *= 2
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	padded := make([]float64, n)
	for i, v := range series {
		padded[i] = v - mean
	}

	f := fft.FFTReal(padded)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps
}

// DominantPeriod returns the period, in frames, of the strongest
// frequency in series. A flat series has none.
func DominantPeriod(series []float64) (float64, bool) {
	ps := PowerSpectrum(series)
	best, at := 1e-9, 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > best {
			best, at = ps[k], k
		}
	}
	if at == 0 {
		return 0, false
	}
	return float64(2*len(ps)) / float64(at), true
}
