package ledger

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prestamio/prestamio/pkg/models"
	"github.com/prestamio/prestamio/pkg/store"
)

// MockStore is an in-memory implementation of the Storage interface for testing.
type MockStore struct {
	users        map[uuid.UUID]models.User
	debtors      map[uuid.UUID]models.Debtor
	loans        map[uuid.UUID]models.Loan
	installments map[uuid.UUID]models.Installment
	payments     []models.Payment
}

func NewMockStore() *MockStore {
	return &MockStore{
		users:        make(map[uuid.UUID]models.User),
		debtors:      make(map[uuid.UUID]models.Debtor),
		loans:        make(map[uuid.UUID]models.Loan),
		installments: make(map[uuid.UUID]models.Installment),
	}
}

func (m *MockStore) CreateUser(user *models.User) error {
	m.users[user.ID] = *user
	return nil
}

func (m *MockStore) GetUser(id uuid.UUID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (m *MockStore) GetUserByEmail(email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) CreateDebtor(debtor *models.Debtor) error {
	m.debtors[debtor.ID] = *debtor
	return nil
}

func (m *MockStore) GetDebtor(id uuid.UUID) (*models.Debtor, error) {
	debtor, ok := m.debtors[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &debtor, nil
}

func (m *MockStore) UpdateDebtor(debtor *models.Debtor) error {
	if _, ok := m.debtors[debtor.ID]; !ok {
		return store.ErrNotFound
	}
	m.debtors[debtor.ID] = *debtor
	return nil
}

func (m *MockStore) DeleteDebtor(id uuid.UUID) error {
	if _, ok := m.debtors[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.debtors, id)
	return nil
}

func (m *MockStore) GetDebtorsByUser(userID uuid.UUID) ([]*models.Debtor, error) {
	var debtors []*models.Debtor
	for _, debtor := range m.debtors {
		if debtor.UserID == userID {
			d := debtor
			debtors = append(debtors, &d)
		}
	}
	return debtors, nil
}

func (m *MockStore) CreateLoanWithInstallments(loan *models.Loan, installments []*models.Installment) error {
	m.loans[loan.ID] = *loan
	for _, inst := range installments {
		m.installments[inst.ID] = *inst
	}
	return nil
}

func (m *MockStore) GetLoan(id uuid.UUID) (*models.Loan, error) {
	loan, ok := m.loans[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &loan, nil
}

func (m *MockStore) UpdateLoan(loan *models.Loan) error {
	if _, ok := m.loans[loan.ID]; !ok {
		return store.ErrNotFound
	}
	m.loans[loan.ID] = *loan
	return nil
}

func (m *MockStore) DeleteLoanCascade(id uuid.UUID) error {
	if _, ok := m.loans[id]; !ok {
		return store.ErrNotFound
	}
	for instID, inst := range m.installments {
		if inst.LoanID == id {
			delete(m.installments, instID)
		}
	}
	remaining := m.payments[:0]
	for _, p := range m.payments {
		if p.LoanID != id {
			remaining = append(remaining, p)
		}
	}
	m.payments = remaining
	delete(m.loans, id)
	return nil
}

func (m *MockStore) GetLoansByUser(userID uuid.UUID) ([]*models.Loan, error) {
	var loans []*models.Loan
	for _, loan := range m.loans {
		if loan.UserID == userID {
			l := loan
			loans = append(loans, &l)
		}
	}
	return loans, nil
}

func (m *MockStore) GetLoansByUserStatus(userID uuid.UUID, status models.LoanStatus) ([]*models.Loan, error) {
	var loans []*models.Loan
	for _, loan := range m.loans {
		if loan.UserID == userID && loan.Status == status {
			l := loan
			loans = append(loans, &l)
		}
	}
	return loans, nil
}

func (m *MockStore) GetInstallment(id uuid.UUID) (*models.Installment, error) {
	inst, ok := m.installments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &inst, nil
}

func (m *MockStore) GetInstallmentsByLoan(loanID uuid.UUID) ([]*models.Installment, error) {
	var installments []*models.Installment
	for _, inst := range m.installments {
		if inst.LoanID == loanID {
			i := inst
			installments = append(installments, &i)
		}
	}
	sort.Slice(installments, func(a, b int) bool { return installments[a].Number < installments[b].Number })
	return installments, nil
}

func (m *MockStore) GetInstallmentsByUser(userID uuid.UUID) ([]*models.Installment, error) {
	var installments []*models.Installment
	for _, inst := range m.installments {
		if inst.UserID == userID {
			i := inst
			installments = append(installments, &i)
		}
	}
	sort.Slice(installments, func(a, b int) bool { return installments[a].DueDate.Before(installments[b].DueDate) })
	return installments, nil
}

func (m *MockStore) GetInstallmentsByUserStatus(userID uuid.UUID, status models.InstallmentStatus) ([]*models.Installment, error) {
	var installments []*models.Installment
	for _, inst := range m.installments {
		if inst.UserID == userID && inst.Status == status {
			i := inst
			installments = append(installments, &i)
		}
	}
	sort.Slice(installments, func(a, b int) bool { return installments[a].DueDate.Before(installments[b].DueDate) })
	return installments, nil
}

func (m *MockStore) UpdateInstallment(inst *models.Installment) error {
	if _, ok := m.installments[inst.ID]; !ok {
		return store.ErrNotFound
	}
	m.installments[inst.ID] = *inst
	return nil
}

func (m *MockStore) MarkInstallmentsLate(asOf time.Time) (int64, error) {
	var n int64
	for id, inst := range m.installments {
		if inst.Status == models.InstallmentPending && inst.DueDate.Before(asOf) {
			inst.Status = models.InstallmentLate
			inst.UpdatedAt = asOf
			m.installments[id] = inst
			n++
		}
	}
	return n, nil
}

func (m *MockStore) ApplyPayment(payment *models.Payment, inst *models.Installment, loan *models.Loan) error {
	m.payments = append(m.payments, *payment)
	m.installments[inst.ID] = *inst
	if loan != nil {
		m.loans[loan.ID] = *loan
	}
	return nil
}

func (m *MockStore) GetPaymentsByLoan(loanID uuid.UUID) ([]*models.Payment, error) {
	var payments []*models.Payment
	for _, p := range m.payments {
		if p.LoanID == loanID {
			payment := p
			payments = append(payments, &payment)
		}
	}
	return payments, nil
}

func (m *MockStore) GetPaymentsByUser(userID uuid.UUID) ([]*models.Payment, error) {
	var payments []*models.Payment
	for _, p := range m.payments {
		if p.UserID == userID {
			payment := p
			payments = append(payments, &payment)
		}
	}
	return payments, nil
}

func (m *MockStore) Close() error { return nil }

// ---- helpers ----

func newTestLedger() (*Ledger, *MockStore) {
	mock := NewMockStore()
	return New(mock, nil), mock
}

func seedDebtor(mock *MockStore, userID uuid.UUID) *models.Debtor {
	debtor := &models.Debtor{
		ID:        uuid.New(),
		UserID:    userID,
		FullName:  "Carlos Mendoza",
		CreatedAt: time.Now(),
	}
	mock.CreateDebtor(debtor)
	return debtor
}

func loanInput(debtorID uuid.UUID, principal int64, count int) LoanInput {
	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	return LoanInput{
		DebtorID:          debtorID,
		PrincipalCents:    principal,
		Currency:          "MXN",
		StartDate:         start,
		FirstDueDate:      start.AddDate(0, 0, 7),
		InstallmentsCount: count,
		Frequency:         models.FrequencyWeekly,
		InterestType:      models.InterestNone,
	}
}

// ---- loan creation ----

func TestCreateLoanSchedulesInstallments(t *testing.T) {
	l, mock := newTestLedger()
	userID := uuid.New()
	debtor := seedDebtor(mock, userID)

	loan, err := l.CreateLoan(userID, loanInput(debtor.ID, 10000, 3))
	if err != nil {
		t.Fatalf("CreateLoan failed: %v", err)
	}

	if loan.Status != models.LoanActive {
		t.Errorf("Expected status ACTIVE, got %s", loan.Status)
	}

	installments, _ := mock.GetInstallmentsByLoan(loan.ID)
	if len(installments) != 3 {
		t.Fatalf("Expected 3 installments, got %d", len(installments))
	}

	var sum int64
	for i, inst := range installments {
		sum += inst.AmountCents
		if inst.Number != i+1 {
			t.Errorf("Installment %d: expected number %d, got %d", i, i+1, inst.Number)
		}
		if inst.Status != models.InstallmentPending {
			t.Errorf("Installment %d: expected PENDING, got %s", inst.Number, inst.Status)
		}
		if inst.PaidCents != 0 {
			t.Errorf("Installment %d: expected 0 paid, got %d", inst.Number, inst.PaidCents)
		}
		if inst.PaidAt != nil {
			t.Errorf("Installment %d: expected unset paid-at", inst.Number)
		}
	}
	if sum != loan.PrincipalCents {
		t.Errorf("Installments sum to %d, want %d", sum, loan.PrincipalCents)
	}
	if installments[0].AmountCents != 3334 {
		t.Errorf("Expected first installment to carry the extra cent (3334), got %d", installments[0].AmountCents)
	}
}

func TestCreateLoanValidation(t *testing.T) {
	l, mock := newTestLedger()
	userID := uuid.New()
	debtor := seedDebtor(mock, userID)

	cases := []struct {
		name   string
		mutate func(in *LoanInput)
	}{
		{"zero principal", func(in *LoanInput) { in.PrincipalCents = 0 }},
		{"zero count", func(in *LoanInput) { in.InstallmentsCount = 0 }},
		{"count above cap", func(in *LoanInput) { in.InstallmentsCount = MaxInstallments + 1 }},
		{"bad frequency", func(in *LoanInput) { in.Frequency = "DAILY" }},
		{"bad interest type", func(in *LoanInput) { in.InterestType = "COMPOUND" }},
		{"simple interest without rate", func(in *LoanInput) { in.InterestType = models.InterestSimple }},
		{"empty currency", func(in *LoanInput) { in.Currency = " " }},
		{"first due before start", func(in *LoanInput) { in.FirstDueDate = in.StartDate.AddDate(0, 0, -1) }},
	}

	for _, c := range cases {
		in := loanInput(debtor.ID, 10000, 3)
		c.mutate(&in)
		if _, err := l.CreateLoan(userID, in); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", c.name, err)
		}
	}

	if len(mock.loans) != 0 {
		t.Errorf("Expected no loans written after validation failures, got %d", len(mock.loans))
	}
}

func TestCreateLoanDebtorOwnership(t *testing.T) {
	l, mock := newTestLedger()
	userID := uuid.New()
	otherDebtor := seedDebtor(mock, uuid.New())

	if _, err := l.CreateLoan(userID, loanInput(otherDebtor.ID, 10000, 3)); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for another user's debtor, got %v", err)
	}
	if _, err := l.CreateLoan(userID, loanInput(uuid.New(), 10000, 3)); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing debtor, got %v", err)
	}
}

// ---- payment application ----

func TestRegisterPaymentPartial(t *testing.T) {
	l, mock := newTestLedger()
	userID := uuid.New()
	debtor := seedDebtor(mock, userID)
	loan, _ := l.CreateLoan(userID, loanInput(debtor.ID, 10000, 2))
	installments, _ := mock.GetInstallmentsByLoan(loan.ID)
	target := installments[0]

	inst, err := l.RegisterPayment(userID, PaymentInput{
		LoanID:        loan.ID,
		InstallmentID: target.ID,
		AmountCents:   2000,
		PaymentDate:   time.Now(),
		Method:        models.MethodCash,
	})
	if err != nil {
		t.Fatalf("RegisterPayment failed: %v", err)
	}

	if inst.PaidCents != 2000 {
		t.Errorf("Expected 2000 paid, got %d", inst.PaidCents)
	}
	if inst.Status != models.InstallmentPending {
		t.Errorf("Partial payment must not change status, got %s", inst.Status)
	}
	if inst.PaidAt != nil {
		t.Error("Partial payment must not set paid-at")
	}

	payments, _ := mock.GetPaymentsByLoan(loan.ID)
	if len(payments) != 1 {
		t.Fatalf("Expected 1 payment record, got %d", len(payments))
	}
	if payments[0].AmountCents != 2000 {
		t.Errorf("Expected payment of 2000, got %d", payments[0].AmountCents)
	}
}

func TestRegisterPaymentPartialLeavesLateAlone(t *testing.T) {
	l, mock := newTestLedger()
	userID := uuid.New()
	debtor := seedDebtor(mock, userID)
	loan, _ := l.CreateLoan(userID, loanInput(debtor.ID, 10000, 2))
	installments, _ := mock.GetInstallmentsByLoan(loan.ID)

	late := *installments[0]
	late.Status = models.InstallmentLate
	mock.UpdateInstallment(&late)

	inst, err := l.RegisterPayment(userID, PaymentInput{
		LoanID:        loan.ID,
		InstallmentID: late.ID,
		AmountCents:   1000,
		PaymentDate:   time.Now(),
	})
	if err != nil {
		t.Fatalf("RegisterPayment failed: %v", err)
	}
	if inst.Status != models.InstallmentLate {
		t.Errorf("Partially paid LATE installment must stay LATE, got %s", inst.Status)
	}
}

func TestRegisterPaymentFullSetsPaidAtOnce(t *testing.T) {
	l, mock := newTestLedger()
	userID := uuid.New()
	debtor := seedDebtor(mock, userID)
	loan, _ := l.CreateLoan(userID, loanInput(debtor.ID, 10000, 2))
	installments, _ := mock.GetInstallmentsByLoan(loan.ID)
	target := installments[0]

	firstDate := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	completingDate := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)

	if _, err := l.RegisterPayment(userID, PaymentInput{
		LoanID: loan.ID, InstallmentID: target.ID, AmountCents: 3000, PaymentDate: firstDate,
	}); err != nil {
		t.Fatalf("First payment failed: %v", err)
	}
	inst, err := l.RegisterPayment(userID, PaymentInput{
		LoanID: loan.ID, InstallmentID: target.ID, AmountCents: 2000, PaymentDate: completingDate,
	})
	if err != nil {
		t.Fatalf("Completing payment failed: %v", err)
	}

	if inst.Status != models.InstallmentPaid {
		t.Errorf("Expected PAID, got %s", inst.Status)
	}
	if inst.PaidAt == nil || !inst.PaidAt.Equal(completingDate) {
		t.Errorf("Expected paid-at %v (date of the completing payment), got %v", completingDate, inst.PaidAt)
	}
}

func TestRegisterPaymentRejectsOverpayment(t *testing.T) {
	l, mock := newTestLedger()
	userID := uuid.New()
	debtor := seedDebtor(mock, userID)
	loan, _ := l.CreateLoan(userID, loanInput(debtor.ID, 10000, 2))
	installments, _ := mock.GetInstallmentsByLoan(loan.ID)
	target := installments[0]

	_, err := l.RegisterPayment(userID, PaymentInput{
		LoanID:        loan.ID,
		InstallmentID: target.ID,
		AmountCents:   target.AmountCents + 1,
		PaymentDate:   time.Now(),
	})

	var overpay *OverpaymentError
	if !errors.As(err, &overpay) {
		t.Fatalf("Expected OverpaymentError, got %v", err)
	}
	if overpay.RemainingCents != target.AmountCents {
		t.Errorf("Expected remaining %d disclosed, got %d", target.AmountCents, overpay.RemainingCents)
	}
	if overpay.Currency != "MXN" {
		t.Errorf("Expected currency MXN disclosed, got %q", overpay.Currency)
	}

	// Nothing may have been written.
	after, _ := mock.GetInstallment(target.ID)
	if after.PaidCents != 0 || after.Status != models.InstallmentPending {
		t.Errorf("Installment modified by rejected payment: paid=%d status=%s", after.PaidCents, after.Status)
	}
	if payments, _ := mock.GetPaymentsByLoan(loan.ID); len(payments) != 0 {
		t.Errorf("Expected no payment records, got %d", len(payments))
	}
}

func TestRegisterPaymentOwnership(t *testing.T) {
	l, mock := newTestLedger()
	owner := uuid.New()
	debtor := seedDebtor(mock, owner)
	loan, _ := l.CreateLoan(owner, loanInput(debtor.ID, 10000, 2))
	installments, _ := mock.GetInstallmentsByLoan(loan.ID)

	intruder := uuid.New()
	_, err := l.RegisterPayment(intruder, PaymentInput{
		LoanID:        loan.ID,
		InstallmentID: installments[0].ID,
		AmountCents:   1000,
		PaymentDate:   time.Now(),
	})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for another user's loan, got %v", err)
	}

	_, err = l.RegisterPayment(owner, PaymentInput{
		LoanID:        loan.ID,
		InstallmentID: uuid.New(),
		AmountCents:   1000,
		PaymentDate:   time.Now(),
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing installment, got %v", err)
	}
}

func TestRegisterPaymentInstallmentFromOtherLoan(t *testing.T) {
	l, mock := newTestLedger()
	userID := uuid.New()
	debtor := seedDebtor(mock, userID)
	loanA, _ := l.CreateLoan(userID, loanInput(debtor.ID, 10000, 2))
	loanB, _ := l.CreateLoan(userID, loanInput(debtor.ID, 5000, 2))
	installmentsB, _ := mock.GetInstallmentsByLoan(loanB.ID)

	_, err := l.RegisterPayment(userID, PaymentInput{
		LoanID:        loanA.ID,
		InstallmentID: installmentsB[0].ID,
		AmountCents:   1000,
		PaymentDate:   time.Now(),
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for cross-loan installment, got %v", err)
	}
}

// ---- loan ratchet ----

func TestLoanPromotedWhenFullyPaid(t *testing.T) {
	l, mock := newTestLedger()
	userID := uuid.New()
	debtor := seedDebtor(mock, userID)
	loan, _ := l.CreateLoan(userID, loanInput(debtor.ID, 10000, 2))
	installments, _ := mock.GetInstallmentsByLoan(loan.ID)

	for i, inst := range installments {
		if _, err := l.RegisterPayment(userID, PaymentInput{
			LoanID:        loan.ID,
			InstallmentID: inst.ID,
			AmountCents:   inst.AmountCents,
			PaymentDate:   time.Now(),
		}); err != nil {
			t.Fatalf("Payment %d failed: %v", i+1, err)
		}

		got, _ := mock.GetLoan(loan.ID)
		if i < len(installments)-1 {
			if got.Status != models.LoanActive {
				t.Errorf("Loan promoted early after installment %d: %s", i+1, got.Status)
			}
		} else if got.Status != models.LoanPaid {
			t.Errorf("Expected loan PAID after final installment, got %s", got.Status)
		}
	}
}

func TestCancelledLoanNeverPromoted(t *testing.T) {
	l, mock := newTestLedger()
	userID := uuid.New()
	debtor := seedDebtor(mock, userID)
	loan, _ := l.CreateLoan(userID, loanInput(debtor.ID, 10000, 1))
	installments, _ := mock.GetInstallmentsByLoan(loan.ID)

	cancelled := models.LoanCancelled
	if _, err := l.UpdateLoan(userID, loan.ID, LoanUpdate{Status: &cancelled}); err != nil {
		t.Fatalf("UpdateLoan failed: %v", err)
	}

	if _, err := l.RegisterPayment(userID, PaymentInput{
		LoanID:        loan.ID,
		InstallmentID: installments[0].ID,
		AmountCents:   installments[0].AmountCents,
		PaymentDate:   time.Now(),
	}); err != nil {
		t.Fatalf("RegisterPayment failed: %v", err)
	}

	got, _ := mock.GetLoan(loan.ID)
	if got.Status != models.LoanCancelled {
		t.Errorf("Cancelled loan must stay CANCELLED, got %s", got.Status)
	}
}

// ---- cascade delete ----

func TestDeleteLoanCascades(t *testing.T) {
	l, mock := newTestLedger()
	userID := uuid.New()
	debtor := seedDebtor(mock, userID)
	loan, _ := l.CreateLoan(userID, loanInput(debtor.ID, 10000, 3))
	installments, _ := mock.GetInstallmentsByLoan(loan.ID)
	l.RegisterPayment(userID, PaymentInput{
		LoanID:        loan.ID,
		InstallmentID: installments[0].ID,
		AmountCents:   1000,
		PaymentDate:   time.Now(),
	})

	if err := l.DeleteLoan(userID, loan.ID); err != nil {
		t.Fatalf("DeleteLoan failed: %v", err)
	}

	if _, err := mock.GetLoan(loan.ID); !errors.Is(err, store.ErrNotFound) {
		t.Error("Expected loan to be gone")
	}
	if remaining, _ := mock.GetInstallmentsByLoan(loan.ID); len(remaining) != 0 {
		t.Errorf("Expected installments gone, found %d", len(remaining))
	}
	if payments, _ := mock.GetPaymentsByLoan(loan.ID); len(payments) != 0 {
		t.Errorf("Expected payments gone, found %d", len(payments))
	}
}

// ---- overdue sweep ----

func TestMarkOverdue(t *testing.T) {
	l, mock := newTestLedger()
	userID := uuid.New()
	debtor := seedDebtor(mock, userID)

	in := loanInput(debtor.ID, 10000, 3)
	loan, _ := l.CreateLoan(userID, in)

	asOf := in.FirstDueDate.AddDate(0, 0, 8) // first two weekly installments past due
	n, err := l.MarkOverdue(asOf)
	if err != nil {
		t.Fatalf("MarkOverdue failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 installments marked late, got %d", n)
	}

	installments, _ := mock.GetInstallmentsByLoan(loan.ID)
	if installments[0].Status != models.InstallmentLate || installments[1].Status != models.InstallmentLate {
		t.Error("Expected leading installments LATE")
	}
	if installments[2].Status != models.InstallmentPending {
		t.Errorf("Expected final installment still PENDING, got %s", installments[2].Status)
	}
}

// ---- debtors ----

func TestDebtorCRUD(t *testing.T) {
	l, _ := newTestLedger()
	userID := uuid.New()

	debtor, err := l.CreateDebtor(userID, DebtorInput{FullName: "Ana Silva", Phone: "+52 55 0000 0000"})
	if err != nil {
		t.Fatalf("CreateDebtor failed: %v", err)
	}

	updated, err := l.UpdateDebtor(userID, debtor.ID, DebtorInput{FullName: "Ana Silva Reyes"})
	if err != nil {
		t.Fatalf("UpdateDebtor failed: %v", err)
	}
	if updated.FullName != "Ana Silva Reyes" {
		t.Errorf("Expected updated name, got %q", updated.FullName)
	}

	if _, err := l.GetDebtor(uuid.New(), debtor.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for cross-user read, got %v", err)
	}

	if err := l.DeleteDebtor(userID, debtor.ID); err != nil {
		t.Fatalf("DeleteDebtor failed: %v", err)
	}
	if _, err := l.GetDebtor(userID, debtor.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	if _, err := l.CreateDebtor(userID, DebtorInput{FullName: "  "}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for blank name, got %v", err)
	}
}
