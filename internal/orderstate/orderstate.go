// Package orderstate defines the order status machine.
//
//	PENDING → CONFIRMED → PREPARING → READY → DELIVERED
//	    └──────────┴───────────┴─────────┴──→ CANCELLED
package orderstate

import (
	"errors"
	"fmt"

	"github.com/pizzaria-pos/api/internal/enum"
)

// ErrInvalidTransition is returned for unknown statuses and disallowed moves.
var ErrInvalidTransition = errors.New("invalid status transition")

// forward is the canonical path. Index order matters.
var forward = []string{
	enum.OrderStatusPending,
	enum.OrderStatusConfirmed,
	enum.OrderStatusPreparing,
	enum.OrderStatusReady,
	enum.OrderStatusDelivered,
}

// IsValid reports whether s is a known order status.
func IsValid(s string) bool {
	return s == enum.OrderStatusCancelled || position(s) >= 0
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s string) bool {
	return s == enum.OrderStatusDelivered || s == enum.OrderStatusCancelled
}

// Next returns the suggested next status for staff, or "" for terminal states.
func Next(s string) string {
	i := position(s)
	if i < 0 || i == len(forward)-1 {
		return ""
	}
	return forward[i+1]
}

// Validate checks a single move from current to next.
func Validate(current, next string) error {
	if !IsValid(next) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	if !IsValid(current) {
		return fmt.Errorf("%w: unknown current status %q", ErrInvalidTransition, current)
	}
	if IsTerminal(current) {
		return fmt.Errorf("%w: order is already %s", ErrInvalidTransition, current)
	}
	if next == enum.OrderStatusCancelled || next == Next(current) {
		return nil
	}
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, current, next)
}

// Path returns the statuses to apply, in order, to move from current to
// target. Forward targets walk every intermediate step so each transition's
// side effects run. Already being at target yields an empty path.
func Path(current, target string) ([]string, error) {
	if current == target && IsValid(target) {
		return nil, nil
	}
	if target == enum.OrderStatusCancelled {
		if err := Validate(current, target); err != nil {
			return nil, err
		}
		return []string{target}, nil
	}

	from, to := position(current), position(target)
	if from < 0 || to < 0 || to < from || IsTerminal(current) {
		return nil, fmt.Errorf("%w: no path from %s to %s", ErrInvalidTransition, current, target)
	}
	return append([]string(nil), forward[from+1:to+1]...), nil
}

func position(s string) int {
	for i, st := range forward {
		if st == s {
			return i
		}
	}
	return -1
}
