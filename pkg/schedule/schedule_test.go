package schedule

import (
	"testing"
	"time"

	"github.com/prestamio/prestamio/pkg/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlanSpreadsRemainderOverLeadingInstallments(t *testing.T) {
	entries, err := Plan(10000, 3, models.FrequencyMonthly, date(2025, time.January, 15))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	want := []int64{3334, 3333, 3333}
	if len(entries) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(entries))
	}
	for i, e := range entries {
		if e.AmountCents != want[i] {
			t.Errorf("Entry %d: expected %d cents, got %d", i+1, want[i], e.AmountCents)
		}
		if e.Number != i+1 {
			t.Errorf("Entry %d: expected number %d, got %d", i, i+1, e.Number)
		}
	}
}

func TestPlanNegativeDifference(t *testing.T) {
	// round(9998/3) = 3333, so the rounded total overshoots by 1 and the
	// first installment gives the cent back.
	entries, err := Plan(9998, 3, models.FrequencyWeekly, date(2025, time.March, 1))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	want := []int64{3332, 3333, 3333}
	for i, e := range entries {
		if e.AmountCents != want[i] {
			t.Errorf("Entry %d: expected %d cents, got %d", i+1, want[i], e.AmountCents)
		}
	}
}

func TestPlanSumInvariant(t *testing.T) {
	principals := []int64{0, 1, 99, 100, 101, 9999, 10000, 123457, 1000000007}
	counts := []int{1, 2, 3, 7, 12, 52, 365, 1000}

	for _, p := range principals {
		for _, c := range counts {
			entries, err := Plan(p, c, models.FrequencyWeekly, date(2025, time.June, 1))
			if err != nil {
				t.Fatalf("Plan(%d, %d) failed: %v", p, c, err)
			}
			if len(entries) != c {
				t.Fatalf("Plan(%d, %d): expected %d entries, got %d", p, c, c, len(entries))
			}
			var sum int64
			for _, e := range entries {
				sum += e.AmountCents
			}
			if sum != p {
				t.Errorf("Plan(%d, %d): amounts sum to %d, want %d", p, c, sum, p)
			}
		}
	}
}

func TestPlanRejectsBadInput(t *testing.T) {
	if _, err := Plan(10000, 0, models.FrequencyWeekly, date(2025, time.June, 1)); err == nil {
		t.Error("Expected error for count 0")
	}
	if _, err := Plan(-1, 3, models.FrequencyWeekly, date(2025, time.June, 1)); err == nil {
		t.Error("Expected error for negative principal")
	}
}

func TestNextDueDateWeeklySpacing(t *testing.T) {
	base := date(2025, time.January, 6)

	for i := 0; i < 10; i++ {
		weekly := NextDueDate(base, i, models.FrequencyWeekly)
		if got := weekly.Sub(base).Hours() / 24; got != float64(7*i) {
			t.Errorf("WEEKLY installment %d: expected %d days out, got %v", i, 7*i, got)
		}
		biweekly := NextDueDate(base, i, models.FrequencyBiweekly)
		if got := biweekly.Sub(base).Hours() / 24; got != float64(14*i) {
			t.Errorf("BIWEEKLY installment %d: expected %d days out, got %v", i, 14*i, got)
		}
	}
}

func TestNextDueDateMonthly(t *testing.T) {
	base := date(2025, time.January, 15)
	for i := 0; i < 12; i++ {
		got := NextDueDate(base, i, models.FrequencyMonthly)
		want := base.AddDate(0, i, 0)
		if !got.Equal(want) {
			t.Errorf("MONTHLY installment %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestNextDueDateMonthlyEndOfMonthRollover(t *testing.T) {
	// Jan 31 + 1 month normalizes past February; the rollover is accepted.
	got := NextDueDate(date(2025, time.January, 31), 1, models.FrequencyMonthly)
	want := date(2025, time.March, 3)
	if !got.Equal(want) {
		t.Errorf("Expected rollover to %v, got %v", want, got)
	}
}
