// Package ledger implements the lending core: debtors, loans and their
// installment schedules, payment application and dashboard aggregation.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prestamio/prestamio/pkg/models"
	"github.com/prestamio/prestamio/pkg/schedule"
	"github.com/prestamio/prestamio/pkg/store"
	"go.uber.org/zap"
)

// MaxInstallments caps the schedule length a single loan may have.
const MaxInstallments = 1000

// Ledger handles the business logic for debtors, loans and payments.
type Ledger struct {
	storage store.Storage
	log     *zap.Logger
}

// New creates a Ledger with the given Storage implementation. A nil logger
// disables logging.
func New(s store.Storage, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{storage: s, log: log}
}

// ---- Debtors ----

type DebtorInput struct {
	FullName string
	Phone    string
	Email    string
	Notes    string
}

func (l *Ledger) CreateDebtor(userID uuid.UUID, in DebtorInput) (*models.Debtor, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrValidation)
	}

	debtor := &models.Debtor{
		ID:        uuid.New(),
		UserID:    userID,
		FullName:  strings.TrimSpace(in.FullName),
		Phone:     in.Phone,
		Email:     in.Email,
		Notes:     in.Notes,
		CreatedAt: time.Now(),
	}
	if err := l.storage.CreateDebtor(debtor); err != nil {
		return nil, fmt.Errorf("failed to store debtor: %w", err)
	}
	return debtor, nil
}

func (l *Ledger) GetDebtor(userID, id uuid.UUID) (*models.Debtor, error) {
	debtor, err := l.storage.GetDebtor(id)
	if err != nil {
		return nil, err
	}
	if debtor.UserID != userID {
		return nil, ErrForbidden
	}
	return debtor, nil
}

func (l *Ledger) ListDebtors(userID uuid.UUID) ([]*models.Debtor, error) {
	return l.storage.GetDebtorsByUser(userID)
}

func (l *Ledger) UpdateDebtor(userID, id uuid.UUID, in DebtorInput) (*models.Debtor, error) {
	debtor, err := l.GetDebtor(userID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FullName) == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrValidation)
	}

	debtor.FullName = strings.TrimSpace(in.FullName)
	debtor.Phone = in.Phone
	debtor.Email = in.Email
	debtor.Notes = in.Notes
	if err := l.storage.UpdateDebtor(debtor); err != nil {
		return nil, fmt.Errorf("failed to update debtor: %w", err)
	}
	return debtor, nil
}

// DeleteDebtor removes the debtor record. Loans referencing the debtor are
// left in place; the reference check is the caller's concern.
func (l *Ledger) DeleteDebtor(userID, id uuid.UUID) error {
	if _, err := l.GetDebtor(userID, id); err != nil {
		return err
	}
	return l.storage.DeleteDebtor(id)
}

// ---- Loans ----

type LoanInput struct {
	DebtorID          uuid.UUID
	PrincipalCents    int64
	Currency          string
	StartDate         time.Time
	FirstDueDate      time.Time
	InstallmentsCount int
	Frequency         models.Frequency
	InterestType      models.InterestType
	InterestRateBps   int64
	Notes             string
}

func (in *LoanInput) validate() error {
	switch {
	case in.PrincipalCents <= 0:
		return fmt.Errorf("%w: principal must be positive", ErrValidation)
	case strings.TrimSpace(in.Currency) == "":
		return fmt.Errorf("%w: currency is required", ErrValidation)
	case in.InstallmentsCount < 1:
		return fmt.Errorf("%w: installment count must be at least 1", ErrValidation)
	case in.InstallmentsCount > MaxInstallments:
		return fmt.Errorf("%w: installment count must not exceed %d", ErrValidation, MaxInstallments)
	case !in.Frequency.Valid():
		return fmt.Errorf("%w: unknown frequency %q", ErrValidation, in.Frequency)
	case !in.InterestType.Valid():
		return fmt.Errorf("%w: unknown interest type %q", ErrValidation, in.InterestType)
	case in.InterestRateBps < 0:
		return fmt.Errorf("%w: interest rate must not be negative", ErrValidation)
	case in.InterestType == models.InterestSimple && in.InterestRateBps == 0:
		return fmt.Errorf("%w: interest rate is required for simple interest", ErrValidation)
	case in.FirstDueDate.Before(in.StartDate):
		return fmt.Errorf("%w: first due date must not precede the start date", ErrValidation)
	}
	return nil
}

// CreateLoan validates the input, schedules the installments and persists the
// loan together with its full schedule as one atomic write.
func (l *Ledger) CreateLoan(userID uuid.UUID, in LoanInput) (*models.Loan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	debtor, err := l.storage.GetDebtor(in.DebtorID)
	if err != nil {
		return nil, err
	}
	if debtor.UserID != userID {
		return nil, ErrForbidden
	}

	entries, err := schedule.Plan(in.PrincipalCents, in.InstallmentsCount, in.Frequency, in.FirstDueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := time.Now()
	loan := &models.Loan{
		ID:                uuid.New(),
		UserID:            userID,
		DebtorID:          in.DebtorID,
		PrincipalCents:    in.PrincipalCents,
		Currency:          strings.TrimSpace(in.Currency),
		StartDate:         in.StartDate,
		FirstDueDate:      in.FirstDueDate,
		InstallmentsCount: in.InstallmentsCount,
		Frequency:         in.Frequency,
		InterestType:      in.InterestType,
		InterestRateBps:   in.InterestRateBps,
		Status:            models.LoanActive,
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	installments := make([]*models.Installment, 0, len(entries))
	for _, e := range entries {
		installments = append(installments, &models.Installment{
			ID:          uuid.New(),
			UserID:      userID,
			LoanID:      loan.ID,
			Number:      e.Number,
			DueDate:     e.DueDate,
			AmountCents: e.AmountCents,
			PaidCents:   0,
			Status:      models.InstallmentPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := l.storage.CreateLoanWithInstallments(loan, installments); err != nil {
		return nil, fmt.Errorf("failed to store loan: %w", err)
	}

	l.log.Info("loan created",
		zap.String("loan_id", loan.ID.String()),
		zap.Int64("principal_cents", loan.PrincipalCents),
		zap.Int("installments", len(installments)))
	return loan, nil
}

// LoanDetail is a loan together with its schedule, ordered by number.
type LoanDetail struct {
	Loan         *models.Loan          `json:"loan"`
	Installments []*models.Installment `json:"installments"`
}

func (l *Ledger) GetLoan(userID, id uuid.UUID) (*LoanDetail, error) {
	loan, err := l.storage.GetLoan(id)
	if err != nil {
		return nil, err
	}
	if loan.UserID != userID {
		return nil, ErrForbidden
	}
	installments, err := l.storage.GetInstallmentsByLoan(loan.ID)
	if err != nil {
		return nil, err
	}
	return &LoanDetail{Loan: loan, Installments: installments}, nil
}

func (l *Ledger) ListLoans(userID uuid.UUID) ([]*models.Loan, error) {
	return l.storage.GetLoansByUser(userID)
}

// LoanUpdate patches editable loan fields. Nil fields are left untouched.
// Updating never regenerates the schedule, so the principal/installment-sum
// invariant is only guaranteed at creation time.
type LoanUpdate struct {
	PrincipalCents    *int64
	Currency          *string
	StartDate         *time.Time
	FirstDueDate      *time.Time
	InstallmentsCount *int
	Frequency         *models.Frequency
	InterestType      *models.InterestType
	InterestRateBps   *int64
	Status            *models.LoanStatus
	Notes             *string
}

func (l *Ledger) UpdateLoan(userID, id uuid.UUID, in LoanUpdate) (*models.Loan, error) {
	loan, err := l.storage.GetLoan(id)
	if err != nil {
		return nil, err
	}
	if loan.UserID != userID {
		return nil, ErrForbidden
	}

	if in.PrincipalCents != nil {
		if *in.PrincipalCents <= 0 {
			return nil, fmt.Errorf("%w: principal must be positive", ErrValidation)
		}
		loan.PrincipalCents = *in.PrincipalCents
	}
	if in.Currency != nil {
		if strings.TrimSpace(*in.Currency) == "" {
			return nil, fmt.Errorf("%w: currency is required", ErrValidation)
		}
		loan.Currency = strings.TrimSpace(*in.Currency)
	}
	if in.StartDate != nil {
		loan.StartDate = *in.StartDate
	}
	if in.FirstDueDate != nil {
		loan.FirstDueDate = *in.FirstDueDate
	}
	if in.InstallmentsCount != nil {
		if *in.InstallmentsCount < 1 || *in.InstallmentsCount > MaxInstallments {
			return nil, fmt.Errorf("%w: installment count out of range", ErrValidation)
		}
		loan.InstallmentsCount = *in.InstallmentsCount
	}
	if in.Frequency != nil {
		if !in.Frequency.Valid() {
			return nil, fmt.Errorf("%w: unknown frequency %q", ErrValidation, *in.Frequency)
		}
		loan.Frequency = *in.Frequency
	}
	if in.InterestType != nil {
		if !in.InterestType.Valid() {
			return nil, fmt.Errorf("%w: unknown interest type %q", ErrValidation, *in.InterestType)
		}
		loan.InterestType = *in.InterestType
	}
	if in.InterestRateBps != nil {
		if *in.InterestRateBps < 0 {
			return nil, fmt.Errorf("%w: interest rate must not be negative", ErrValidation)
		}
		loan.InterestRateBps = *in.InterestRateBps
	}
	if in.Status != nil {
		switch *in.Status {
		case models.LoanActive, models.LoanPaid, models.LoanCancelled, models.LoanDefaulted:
			loan.Status = *in.Status
		default:
			return nil, fmt.Errorf("%w: unknown loan status %q", ErrValidation, *in.Status)
		}
	}
	if in.Notes != nil {
		loan.Notes = *in.Notes
	}

	loan.UpdatedAt = time.Now()
	if err := l.storage.UpdateLoan(loan); err != nil {
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}
	return loan, nil
}

// DeleteLoan removes the loan, its installments and its payments in one
// cascade. Payments are deleted rather than orphaned.
func (l *Ledger) DeleteLoan(userID, id uuid.UUID) error {
	loan, err := l.storage.GetLoan(id)
	if err != nil {
		return err
	}
	if loan.UserID != userID {
		return ErrForbidden
	}
	if err := l.storage.DeleteLoanCascade(id); err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	l.log.Info("loan deleted", zap.String("loan_id", id.String()))
	return nil
}

// ---- Payments ----

type PaymentInput struct {
	LoanID        uuid.UUID
	InstallmentID uuid.UUID
	AmountCents   int64
	PaymentDate   time.Time
	Method        models.PaymentMethod
	Reference     string
	Notes         string
}

// RegisterPayment applies a payment to one installment. The payment record,
// the installment patch and the conditional loan promotion are persisted as a
// unit; any precondition failure aborts before anything is written.
//
// A fully paid installment becomes PAID and records the payment date as its
// paid-at timestamp, first full payment wins. A partial payment leaves the
// status untouched, so a LATE installment stays LATE. The parent loan is
// promoted ACTIVE -> PAID exactly once, when every installment is covered;
// loans already PAID, CANCELLED or DEFAULTED are never altered here.
func (l *Ledger) RegisterPayment(userID uuid.UUID, in PaymentInput) (*models.Installment, error) {
	loan, err := l.storage.GetLoan(in.LoanID)
	if err != nil {
		return nil, err
	}
	if loan.UserID != userID {
		return nil, ErrForbidden
	}

	inst, err := l.storage.GetInstallment(in.InstallmentID)
	if err != nil {
		return nil, err
	}
	if inst.LoanID != loan.ID {
		return nil, fmt.Errorf("%w: installment does not belong to the loan", ErrValidation)
	}
	if inst.UserID != userID {
		return nil, ErrForbidden
	}

	if in.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	if in.Method != "" && !in.Method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, in.Method)
	}
	remaining := inst.RemainingCents()
	if in.AmountCents > remaining {
		return nil, &OverpaymentError{RemainingCents: remaining, Currency: loan.Currency}
	}

	now := time.Now()
	payment := &models.Payment{
		ID:            uuid.New(),
		UserID:        userID,
		LoanID:        loan.ID,
		InstallmentID: inst.ID,
		AmountCents:   in.AmountCents,
		PaymentDate:   in.PaymentDate,
		Method:        in.Method,
		Reference:     in.Reference,
		Notes:         in.Notes,
		CreatedAt:     now,
	}

	inst.PaidCents += in.AmountCents
	if inst.PaidCents >= inst.AmountCents {
		inst.Status = models.InstallmentPaid
		if inst.PaidAt == nil {
			paidAt := in.PaymentDate
			inst.PaidAt = &paidAt
		}
	}
	inst.UpdatedAt = now

	var loanPatch *models.Loan
	if loan.Status == models.LoanActive {
		all, err := l.storage.GetInstallmentsByLoan(loan.ID)
		if err != nil {
			return nil, err
		}
		fullyPaid := true
		for _, other := range all {
			if other.ID == inst.ID {
				other = inst
			}
			if other.PaidCents < other.AmountCents {
				fullyPaid = false
				break
			}
		}
		if fullyPaid {
			loan.Status = models.LoanPaid
			loan.UpdatedAt = now
			loanPatch = loan
		}
	}

	if err := l.storage.ApplyPayment(payment, inst, loanPatch); err != nil {
		return nil, fmt.Errorf("failed to apply payment: %w", err)
	}

	l.log.Info("payment registered",
		zap.String("loan_id", loan.ID.String()),
		zap.String("installment_id", inst.ID.String()),
		zap.Int64("amount_cents", in.AmountCents),
		zap.Bool("loan_paid_off", loanPatch != nil))
	return inst, nil
}

func (l *Ledger) ListLoanPayments(userID, loanID uuid.UUID) ([]*models.Payment, error) {
	loan, err := l.storage.GetLoan(loanID)
	if err != nil {
		return nil, err
	}
	if loan.UserID != userID {
		return nil, ErrForbidden
	}
	return l.storage.GetPaymentsByLoan(loanID)
}

// ---- Overdue sweep ----

// MarkOverdue promotes every pending installment past its due date to LATE.
// The dashboard recomputes overdue-ness on its own, so running the sweep is
// optional; it only makes the stored status catch up.
func (l *Ledger) MarkOverdue(asOf time.Time) (int64, error) {
	n, err := l.storage.MarkInstallmentsLate(asOf)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		l.log.Info("installments marked late", zap.Int64("count", n))
	}
	return n, nil
}
