package sched

import (
	"fmt"
	"math"
)

// GCD returns the greatest common divisor of a and b (Euclid).
func GCD(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// LCM returns the least common multiple of two positive integers.
func LCM(a, b int) (int, error) {
	if a <= 0 || b <= 0 {
		return 0, fmt.Errorf("lcm(%d, %d): %w", a, b, ErrInvalidTaskParameter)
	}
	q := a / GCD(a, b)
	p, ok := mulInt(q, b)
	if !ok {
		return 0, fmt.Errorf("lcm(%d, %d): %w", a, b, ErrArithmeticOverflow)
	}
	return p, nil
}

// Hyperperiod is the LCM of every task period, or 0 for an empty set.
func Hyperperiod(tasks []*Task) (int, error) {
	if len(tasks) == 0 {
		return 0, nil
	}
	h := 1
	for _, t := range tasks {
		if t.Period <= 0 {
			return 0, &TaskError{Task: t.Name, Field: "period", Value: t.Period, Err: ErrInvalidTaskParameter}
		}
		next, err := LCM(h, t.Period)
		if err != nil {
			return 0, fmt.Errorf("hyperperiod: %w", err)
		}
		h = next
	}
	return h, nil
}

// mulInt multiplies two non-negative ints, reporting overflow.
func mulInt(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// addInt adds two non-negative ints, reporting overflow.
func addInt(a, b int) (int, bool) {
	if a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

// ceilDiv is ceil(a/b) for a >= 0, b > 0.
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
