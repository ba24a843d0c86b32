package models

import (
	"time"

	"github.com/google/uuid"
)

type Frequency string

const (
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyBiweekly Frequency = "BIWEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

type InterestType string

const (
	InterestNone   InterestType = "NONE"
	InterestSimple InterestType = "SIMPLE"
)

func (t InterestType) Valid() bool {
	return t == InterestNone || t == InterestSimple
}

type LoanStatus string

const (
	LoanActive    LoanStatus = "ACTIVE"
	LoanPaid      LoanStatus = "PAID"
	LoanCancelled LoanStatus = "CANCELLED"
	LoanDefaulted LoanStatus = "DEFAULTED"
)

type InstallmentStatus string

const (
	InstallmentPending   InstallmentStatus = "PENDING"
	InstallmentPaid      InstallmentStatus = "PAID"
	InstallmentLate      InstallmentStatus = "LATE"
	InstallmentCancelled InstallmentStatus = "CANCELLED"
)

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "CASH"
	MethodTransfer PaymentMethod = "TRANSFER"
	MethodCard     PaymentMethod = "CARD"
	MethodOther    PaymentMethod = "OTHER"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodTransfer, MethodCard, MethodOther:
		return true
	}
	return false
}

// User is a lender account. All other records are scoped to exactly one user;
// that scoping is the only tenancy boundary in the system.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Debtor is a person who owes money to the lender. Debtors have no account of
// their own; they are plain records owned by the user.
type Debtor struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Loan is a disbursement of principal to a debtor under a repayment plan.
// All amounts are integer minor-currency units (cents).
//
// InterestType and InterestRateBps are stored and surfaced but never change
// installment amounts; the schedule always splits the bare principal.
type Loan struct {
	ID                uuid.UUID    `json:"id"`
	UserID            uuid.UUID    `json:"user_id"`
	DebtorID          uuid.UUID    `json:"debtor_id"`
	PrincipalCents    int64        `json:"principal_cents"`
	Currency          string       `json:"currency"`
	StartDate         time.Time    `json:"start_date"`
	FirstDueDate      time.Time    `json:"first_due_date"`
	InstallmentsCount int          `json:"installments_count"`
	Frequency         Frequency    `json:"frequency"`
	InterestType      InterestType `json:"interest_type"`
	InterestRateBps   int64        `json:"interest_rate_bps"` // 500 = 5.00%
	Status            LoanStatus   `json:"status"`
	Notes             string       `json:"notes,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// Installment is one scheduled repayment unit of a loan. A loan's installments
// are created as a batch at loan creation and their amounts sum exactly to the
// loan's principal.
type Installment struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	LoanID      uuid.UUID         `json:"loan_id"`
	Number      int               `json:"number"` // 1..N
	DueDate     time.Time         `json:"due_date"`
	AmountCents int64             `json:"amount_cents"`
	PaidCents   int64             `json:"paid_cents"`
	Status      InstallmentStatus `json:"status"`
	PaidAt      *time.Time        `json:"paid_at,omitempty"` // set once, on first full payment
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// RemainingCents is the unpaid portion of the installment.
func (i *Installment) RemainingCents() int64 {
	return i.AmountCents - i.PaidCents
}

// Payment is an immutable record of funds applied to one installment.
// Payments are append-only; there is no void or refund path.
type Payment struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uuid.UUID     `json:"user_id"`
	LoanID        uuid.UUID     `json:"loan_id"`
	InstallmentID uuid.UUID     `json:"installment_id"`
	AmountCents   int64         `json:"amount_cents"`
	PaymentDate   time.Time     `json:"payment_date"`
	Method        PaymentMethod `json:"method,omitempty"`
	Reference     string        `json:"reference,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
