package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/prestamio/prestamio/pkg/models"
)

// StatusCounts partitions a user's installments by status.
type StatusCounts struct {
	Pending   int `json:"pending"`
	Paid      int `json:"paid"`
	Late      int `json:"late"`
	Cancelled int `json:"cancelled"`
}

// DashboardSummary is the read-only aggregate over all of a user's loans and
// installments. Field names follow the client contract.
type DashboardSummary struct {
	ActiveLoansCount      int          `json:"activeLoansCount"`
	ActiveDebtorsCount    int          `json:"activeDebtorsCount"`
	TotalLent             int64        `json:"totalLent"`
	TotalPendingAmount    int64        `json:"totalPendingAmount"`
	TotalToReceive        int64        `json:"totalToReceive"`
	TotalRecovered        int64        `json:"totalRecovered"`
	MonthlyExpectedAmount int64        `json:"monthlyExpectedAmount"`
	OverdueCount          int          `json:"overdueCount"`
	OverdueAmount         int64        `json:"overdueAmount"`
	UpcomingCount         int          `json:"upcomingCount"`
	UpcomingAmount        int64        `json:"upcomingAmount"`
	NextDueDate           *time.Time   `json:"nextDueDate"`
	InstallmentsByStatus  StatusCounts `json:"installmentsByStatus"`
}

// EmptySummary is the zero dashboard served to anonymous callers.
func EmptySummary() *DashboardSummary {
	return &DashboardSummary{}
}

// Dashboard aggregates the user's installments and loans in a single pass.
// It is read-only and performs no writes; overdue-ness is recomputed from
// PENDING + past-due rather than trusting the stored LATE status alone.
func (l *Ledger) Dashboard(userID uuid.UUID, now time.Time) (*DashboardSummary, error) {
	loans, err := l.storage.GetLoansByUser(userID)
	if err != nil {
		return nil, err
	}
	installments, err := l.storage.GetInstallmentsByUser(userID)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonthStart := monthStart.AddDate(0, 1, 0)
	upcomingEnd := now.AddDate(0, 0, 7)

	summary := &DashboardSummary{}
	loanHasOutstanding := make(map[uuid.UUID]bool)
	var nextDue *time.Time

	for _, inst := range installments {
		remaining := inst.RemainingCents()
		if remaining > 0 {
			summary.TotalPendingAmount += remaining
			loanHasOutstanding[inst.LoanID] = true
		}
		if inst.PaidCents > 0 {
			summary.TotalRecovered += inst.PaidCents
		}

		switch inst.Status {
		case models.InstallmentPending:
			summary.InstallmentsByStatus.Pending++
		case models.InstallmentPaid:
			summary.InstallmentsByStatus.Paid++
		case models.InstallmentLate:
			summary.InstallmentsByStatus.Late++
		case models.InstallmentCancelled:
			summary.InstallmentsByStatus.Cancelled++
		}

		pending := inst.Status == models.InstallmentPending

		if pending && !inst.DueDate.Before(monthStart) && inst.DueDate.Before(nextMonthStart) {
			summary.MonthlyExpectedAmount += remaining
		}
		if inst.Status == models.InstallmentLate || (pending && inst.DueDate.Before(now)) {
			summary.OverdueCount++
			summary.OverdueAmount += remaining
		}
		if pending && !inst.DueDate.Before(now) && !inst.DueDate.After(upcomingEnd) {
			summary.UpcomingCount++
			summary.UpcomingAmount += remaining
		}
		if pending && !inst.DueDate.Before(now) {
			if nextDue == nil || inst.DueDate.Before(*nextDue) {
				due := inst.DueDate
				nextDue = &due
			}
		}
	}
	summary.NextDueDate = nextDue

	activeDebtors := make(map[uuid.UUID]bool)
	for _, loan := range loans {
		if loan.Status != models.LoanActive {
			continue
		}
		summary.ActiveLoansCount++
		summary.TotalLent += loan.PrincipalCents
		if loanHasOutstanding[loan.ID] {
			activeDebtors[loan.DebtorID] = true
		}
	}
	summary.ActiveDebtorsCount = len(activeDebtors)
	summary.TotalToReceive = summary.TotalPendingAmount

	return summary, nil
}
