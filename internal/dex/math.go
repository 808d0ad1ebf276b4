// ========================
// File: internal/dex/math.go
// ========================
package dex

import (
	"fmt"
	"math/bits"
)

const basisPoints = 10_000

// MulDiv returns floor(a*b/den) using a full 128-bit intermediate product.
// The multiply always happens before the divide; reordering would change
// truncation. A zero denominator or a quotient that does not fit in 64 bits
// is ErrArithmetic, never a silent wrap.
func MulDiv(a, b, den uint64) (uint64, error) {
	if den == 0 {
		return 0, fmt.Errorf("%w: division by zero", ErrArithmetic)
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= den {
		return 0, fmt.Errorf("%w: quotient overflow in %d*%d/%d", ErrArithmetic, a, b, den)
	}
	q, _ := bits.Div64(hi, lo, den)
	return q, nil
}

// CheckedAdd returns a+b or ErrArithmetic on overflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: addition overflow of %d+%d", ErrArithmetic, a, b)
	}
	return sum, nil
}

// CheckedSub returns a-b or ErrArithmetic when the result would go negative.
func CheckedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, fmt.Errorf("%w: subtraction underflow of %d-%d", ErrArithmetic, a, b)
	}
	return diff, nil
}

// AmountWithSlippage bounds an amount by slippage basis points.
// up=true computes the maximum the caller is willing to pay,
// floor(amount*(10000+bps)/10000); up=false the minimum it will accept,
// floor(amount*(10000-bps)/10000). Both equal amount at bps=0.
func AmountWithSlippage(amount, slippageBps uint64, up bool) (uint64, error) {
	if up {
		num, err := CheckedAdd(basisPoints, slippageBps)
		if err != nil {
			return 0, err
		}
		return MulDiv(amount, num, basisPoints)
	}
	num, err := CheckedSub(basisPoints, slippageBps)
	if err != nil {
		return 0, err
	}
	return MulDiv(amount, num, basisPoints)
}

// ValidateFraction rejects fee fractions with numerator >= denominator or a
// zero denominator.
func ValidateFraction(numerator, denominator uint64) error {
	if denominator == 0 || numerator >= denominator {
		return fmt.Errorf("%w: invalid fraction %d/%d", ErrArithmetic, numerator, denominator)
	}
	return nil
}
