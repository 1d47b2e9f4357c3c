package pde

import "github.com/meenmo/optlib/pricing"

// solveTridiagonal solves the system with sub-diagonal a, diagonal b,
// super-diagonal c and right-hand side d by forward elimination and back
// substitution (Thomas algorithm). a[0] and c[n-1] are ignored. The result
// is written to x; scratch must hold n values.
func solveTridiagonal(a, b, c, d, x, scratch []float64) error {
	n := len(d)
	if b[0] == 0 {
		return pricing.InvalidInput("solveTridiagonal", "zero pivot at row 0")
	}
	cp := scratch[:n]
	cp[0] = c[0] / b[0]
	x[0] = d[0] / b[0]
	for i := 1; i < n; i++ {
		m := b[i] - a[i]*cp[i-1]
		if m == 0 {
			return pricing.InvalidInput("solveTridiagonal", "zero pivot at row %d", i)
		}
		if i < n-1 {
			cp[i] = c[i] / m
		}
		x[i] = (d[i] - a[i]*x[i-1]) / m
	}
	for i := n - 2; i >= 0; i-- {
		x[i] -= cp[i] * x[i+1]
	}
	return nil
}
