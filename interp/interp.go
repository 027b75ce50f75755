// package interp provides helpers for interpolating samples.
package interp

import "golang.org/x/exp/constraints"

// L does linear interpolation:
//
//	   L(a, b, c) = (1-c)*a + c*b
//		= a - c*a + c*b
//		= a + c*(b-a)
//
// The last form saves a multiplication but L(a, b, 1) can come out a
// rounding error away from b. The top form hits both ends exactly.
func L[T constraints.Float](a, b, c T) T {
	return (1-c)*a + c*b
}
