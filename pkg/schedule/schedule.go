// Package schedule splits a loan principal into an ordered installment plan.
package schedule

import (
	"fmt"
	"time"

	"github.com/prestamio/prestamio/pkg/models"
)

// Entry is one planned installment before it is persisted.
type Entry struct {
	Number      int
	DueDate     time.Time
	AmountCents int64
}

// NextDueDate returns the due date of the i-th installment (0-based) counted
// from base. WEEKLY advances 7 days per step, BIWEEKLY 14, MONTHLY one
// calendar month. Month addition follows time.AddDate normalization, so
// Jan 31 + 1 month lands in early March; that rollover is accepted as-is.
func NextDueDate(base time.Time, i int, frequency models.Frequency) time.Time {
	switch frequency {
	case models.FrequencyWeekly:
		return base.AddDate(0, 0, 7*i)
	case models.FrequencyBiweekly:
		return base.AddDate(0, 0, 14*i)
	default:
		return base.AddDate(0, i, 0)
	}
}

// Plan splits principalCents into count installments whose amounts sum exactly
// to principalCents. The per-installment base is the rounded (half up) average;
// the leftover difference, positive or negative, is spread one cent at a time
// over the leading installments.
//
// Plan does not cap count; callers enforce their own upper bound.
func Plan(principalCents int64, count int, frequency models.Frequency, firstDueDate time.Time) ([]Entry, error) {
	if count < 1 {
		return nil, fmt.Errorf("installment count must be at least 1, got %d", count)
	}
	if principalCents < 0 {
		return nil, fmt.Errorf("principal must not be negative, got %d", principalCents)
	}

	n := int64(count)
	base := (principalCents + n/2) / n
	difference := principalCents - base*n

	adjustment := int64(1)
	if difference < 0 {
		adjustment = -1
		difference = -difference
	}

	entries := make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		amount := base
		if int64(i) < difference {
			amount += adjustment
		}
		entries = append(entries, Entry{
			Number:      i + 1,
			DueDate:     NextDueDate(firstDueDate, i, frequency),
			AmountCents: amount,
		})
	}
	return entries, nil
}
