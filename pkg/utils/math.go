package utils

import "math"

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// Softmax returns the softmax of x. The maximum is subtracted first so large logits
// do not overflow.
func Softmax(x []float32) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	maxV := x[0]
	for _, v := range x[1:] {
		if v > maxV {
			maxV = v
		}
	}
	var sum float64
	for i, v := range x {
		out[i] = math.Exp(float64(v - maxV))
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
