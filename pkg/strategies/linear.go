/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: linear.go
Description: Linear fit helpers shared by the scalar, prefix-scan, and window
strategies. Fits y = a*x + b over observed pairs and rejects the fit when any
pair deviates beyond tolerance.
*/

package strategies

import "github.com/kleascm/tablesynth/pkg/table"

// inferLinear fits y = a*x + b over the pairs. A single pair fits as a shift
// (a=1). The fit is rejected when every x is identical or any pair deviates by
// more than 1e-9.
func inferLinear(xs, ys []float64) (float64, float64, bool) {
	if len(xs) == 0 {
		return 0, 0, false
	}
	if len(xs) == 1 {
		return 1.0, ys[0] - xs[0], true
	}
	x0, y0 := xs[0], ys[0]
	for i := 1; i < len(xs); i++ {
		if xs[i] == x0 {
			continue
		}
		a := (ys[i] - y0) / (xs[i] - x0)
		b := y0 - a*x0
		for j := range xs {
			if absFloat(a*xs[j]+b-ys[j]) > 1e-9 {
				return 0, 0, false
			}
		}
		return a, b, true
	}
	// all x equal
	return 0, 0, false
}

// matchLinearSequence checks whether outputs align to a*seq + b within tol.
// Every output must coerce to a number.
func matchLinearSequence(seq []float64, outputs []table.Value, tol float64) (float64, float64, bool) {
	ys := make([]float64, len(outputs))
	for i, v := range outputs {
		n, ok := v.AsNumber()
		if !ok {
			return 0, 0, false
		}
		ys[i] = n
	}
	if len(seq) != len(ys) {
		return 0, 0, false
	}
	a, b, ok := inferLinear(seq, ys)
	if !ok {
		return 0, 0, false
	}
	for i := range seq {
		if absFloat(a*seq[i]+b-ys[i]) > tol {
			return 0, 0, false
		}
	}
	return a, b, true
}

// matchIdentitySequence checks for a near-identity linear fit (a within 1e-6
// of 1 and b within 1e-6 of 0), the acceptance rule for aggregate scans
func matchIdentitySequence(seq []float64, outputs []table.Value) (float64, float64, bool) {
	a, b, ok := matchLinearSequence(seq, outputs, 1e-6)
	if !ok || absFloat(a-1.0) >= 1e-6 || absFloat(b) >= 1e-6 {
		return 0, 0, false
	}
	return a, b, true
}
