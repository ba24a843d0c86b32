package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prestamio/prestamio/pkg/models"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// Storage defines the persistence surface the ledger core depends on.
// Multi-record write methods (CreateLoanWithInstallments, ApplyPayment,
// DeleteLoanCascade) must apply all of their writes atomically or none.
type Storage interface {
	// Users
	CreateUser(user *models.User) error
	GetUser(id uuid.UUID) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)

	// Debtors
	CreateDebtor(debtor *models.Debtor) error
	GetDebtor(id uuid.UUID) (*models.Debtor, error)
	UpdateDebtor(debtor *models.Debtor) error
	DeleteDebtor(id uuid.UUID) error
	GetDebtorsByUser(userID uuid.UUID) ([]*models.Debtor, error)

	// Loans
	CreateLoanWithInstallments(loan *models.Loan, installments []*models.Installment) error
	GetLoan(id uuid.UUID) (*models.Loan, error)
	UpdateLoan(loan *models.Loan) error
	DeleteLoanCascade(id uuid.UUID) error
	GetLoansByUser(userID uuid.UUID) ([]*models.Loan, error)
	GetLoansByUserStatus(userID uuid.UUID, status models.LoanStatus) ([]*models.Loan, error)

	// Installments
	GetInstallment(id uuid.UUID) (*models.Installment, error)
	GetInstallmentsByLoan(loanID uuid.UUID) ([]*models.Installment, error) // ordered by number
	GetInstallmentsByUser(userID uuid.UUID) ([]*models.Installment, error)
	GetInstallmentsByUserStatus(userID uuid.UUID, status models.InstallmentStatus) ([]*models.Installment, error) // ordered by due date
	UpdateInstallment(installment *models.Installment) error
	MarkInstallmentsLate(asOf time.Time) (int64, error)

	// Payments
	ApplyPayment(payment *models.Payment, installment *models.Installment, loan *models.Loan) error // loan may be nil
	GetPaymentsByLoan(loanID uuid.UUID) ([]*models.Payment, error)
	GetPaymentsByUser(userID uuid.UUID) ([]*models.Payment, error)

	Close() error
}
