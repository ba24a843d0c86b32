package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prestamio/prestamio/pkg/models"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Storage on a local SQLite database. Amounts are
// stored as INTEGER cents, so no precision can be lost in the round trip.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database and initializes the schema.
func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS debtors (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		full_name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);
	CREATE TABLE IF NOT EXISTS loans (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		debtor_id TEXT NOT NULL,
		principal_cents INTEGER NOT NULL,
		currency TEXT NOT NULL,
		start_date DATETIME NOT NULL,
		first_due_date DATETIME NOT NULL,
		installments_count INTEGER NOT NULL,
		frequency TEXT NOT NULL,
		interest_type TEXT NOT NULL,
		interest_rate_bps INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY(user_id) REFERENCES users(id),
		FOREIGN KEY(debtor_id) REFERENCES debtors(id)
	);
	CREATE TABLE IF NOT EXISTS installments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		loan_id TEXT NOT NULL,
		number INTEGER NOT NULL,
		due_date DATETIME NOT NULL,
		amount_cents INTEGER NOT NULL,
		paid_cents INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		paid_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY(loan_id) REFERENCES loans(id)
	);
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		loan_id TEXT NOT NULL,
		installment_id TEXT NOT NULL,
		amount_cents INTEGER NOT NULL,
		payment_date DATETIME NOT NULL,
		method TEXT NOT NULL DEFAULT '',
		reference TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		FOREIGN KEY(loan_id) REFERENCES loans(id),
		FOREIGN KEY(installment_id) REFERENCES installments(id)
	);
	CREATE INDEX IF NOT EXISTS idx_debtors_user ON debtors(user_id);
	CREATE INDEX IF NOT EXISTS idx_loans_user ON loans(user_id);
	CREATE INDEX IF NOT EXISTS idx_loans_user_status ON loans(user_id, status);
	CREATE INDEX IF NOT EXISTS idx_loans_debtor ON loans(debtor_id);
	CREATE INDEX IF NOT EXISTS idx_installments_user ON installments(user_id);
	CREATE INDEX IF NOT EXISTS idx_installments_loan_number ON installments(loan_id, number);
	CREATE INDEX IF NOT EXISTS idx_installments_user_status_due ON installments(user_id, status, due_date);
	CREATE INDEX IF NOT EXISTS idx_payments_user ON payments(user_id);
	CREATE INDEX IF NOT EXISTS idx_payments_loan ON payments(loan_id);
	CREATE INDEX IF NOT EXISTS idx_payments_installment ON payments(installment_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ---- Users ----

func (s *SQLiteStore) CreateUser(user *models.User) error {
	_, err := s.db.Exec(
		`INSERT INTO users (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID.String(), user.Name, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetUser(id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(`SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`, id.String())
	return scanUser(row)
}

func (s *SQLiteStore) GetUserByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var idStr string
	err := row.Scan(&idStr, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.ID = uuid.MustParse(idStr)
	return &user, nil
}

// ---- Debtors ----

func (s *SQLiteStore) CreateDebtor(debtor *models.Debtor) error {
	_, err := s.db.Exec(
		`INSERT INTO debtors (id, user_id, full_name, phone, email, notes, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		debtor.ID.String(), debtor.UserID.String(), debtor.FullName, debtor.Phone, debtor.Email, debtor.Notes, debtor.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create debtor: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetDebtor(id uuid.UUID) (*models.Debtor, error) {
	var debtor models.Debtor
	var idStr, userIDStr string
	row := s.db.QueryRow(`SELECT id, user_id, full_name, phone, email, notes, created_at FROM debtors WHERE id = ?`, id.String())
	err := row.Scan(&idStr, &userIDStr, &debtor.FullName, &debtor.Phone, &debtor.Email, &debtor.Notes, &debtor.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get debtor: %w", err)
	}
	debtor.ID = uuid.MustParse(idStr)
	debtor.UserID = uuid.MustParse(userIDStr)
	return &debtor, nil
}

func (s *SQLiteStore) UpdateDebtor(debtor *models.Debtor) error {
	result, err := s.db.Exec(
		`UPDATE debtors SET full_name = ?, phone = ?, email = ?, notes = ? WHERE id = ?`,
		debtor.FullName, debtor.Phone, debtor.Email, debtor.Notes, debtor.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update debtor: %w", err)
	}
	return checkAffected(result)
}

func (s *SQLiteStore) DeleteDebtor(id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM debtors WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete debtor: %w", err)
	}
	return checkAffected(result)
}

func (s *SQLiteStore) GetDebtorsByUser(userID uuid.UUID) ([]*models.Debtor, error) {
	rows, err := s.db.Query(`SELECT id, user_id, full_name, phone, email, notes, created_at FROM debtors WHERE user_id = ? ORDER BY created_at ASC`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get debtors: %w", err)
	}
	defer rows.Close()

	var debtors []*models.Debtor
	for rows.Next() {
		var debtor models.Debtor
		var idStr, userIDStr string
		if err := rows.Scan(&idStr, &userIDStr, &debtor.FullName, &debtor.Phone, &debtor.Email, &debtor.Notes, &debtor.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan debtor row: %w", err)
		}
		debtor.ID = uuid.MustParse(idStr)
		debtor.UserID = uuid.MustParse(userIDStr)
		debtors = append(debtors, &debtor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return debtors, nil
}

// ---- Loans ----

const loanColumns = `id, user_id, debtor_id, principal_cents, currency, start_date, first_due_date,
	installments_count, frequency, interest_type, interest_rate_bps, status, notes, created_at, updated_at`

// CreateLoanWithInstallments writes the loan and its full installment batch in
// one transaction, so a loan can never exist with a partial schedule.
func (s *SQLiteStore) CreateLoanWithInstallments(loan *models.Loan, installments []*models.Installment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO loans (`+loanColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		loan.ID.String(), loan.UserID.String(), loan.DebtorID.String(), loan.PrincipalCents, loan.Currency,
		loan.StartDate, loan.FirstDueDate, loan.InstallmentsCount, loan.Frequency, loan.InterestType,
		loan.InterestRateBps, loan.Status, loan.Notes, loan.CreatedAt, loan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}

	for _, inst := range installments {
		if err := insertInstallment(tx, inst); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertInstallment(tx *sql.Tx, inst *models.Installment) error {
	var paidAt sql.NullTime
	if inst.PaidAt != nil {
		paidAt = sql.NullTime{Time: *inst.PaidAt, Valid: true}
	}
	_, err := tx.Exec(
		`INSERT INTO installments (id, user_id, loan_id, number, due_date, amount_cents, paid_cents, status, paid_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inst.ID.String(), inst.UserID.String(), inst.LoanID.String(), inst.Number, inst.DueDate,
		inst.AmountCents, inst.PaidCents, inst.Status, paidAt, inst.CreatedAt, inst.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create installment %d: %w", inst.Number, err)
	}
	return nil
}

func (s *SQLiteStore) GetLoan(id uuid.UUID) (*models.Loan, error) {
	row := s.db.QueryRow(`SELECT `+loanColumns+` FROM loans WHERE id = ?`, id.String())
	loan, err := scanLoanRow(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return loan, nil
}

func (s *SQLiteStore) UpdateLoan(loan *models.Loan) error {
	result, err := s.db.Exec(
		`UPDATE loans SET debtor_id = ?, principal_cents = ?, currency = ?, start_date = ?, first_due_date = ?,
		installments_count = ?, frequency = ?, interest_type = ?, interest_rate_bps = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		loan.DebtorID.String(), loan.PrincipalCents, loan.Currency, loan.StartDate, loan.FirstDueDate,
		loan.InstallmentsCount, loan.Frequency, loan.InterestType, loan.InterestRateBps, loan.Status,
		loan.Notes, loan.UpdatedAt, loan.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	return checkAffected(result)
}

// DeleteLoanCascade removes the loan's payments, its installments and the loan
// itself in one transaction, in that order.
func (s *SQLiteStore) DeleteLoanCascade(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM payments WHERE loan_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete loan payments: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM installments WHERE loan_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete loan installments: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM loans WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	if err := checkAffected(result); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetLoansByUser(userID uuid.UUID) ([]*models.Loan, error) {
	rows, err := s.db.Query(`SELECT `+loanColumns+` FROM loans WHERE user_id = ? ORDER BY created_at DESC`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get loans: %w", err)
	}
	defer rows.Close()
	return scanLoans(rows)
}

func (s *SQLiteStore) GetLoansByUserStatus(userID uuid.UUID, status models.LoanStatus) ([]*models.Loan, error) {
	rows, err := s.db.Query(`SELECT `+loanColumns+` FROM loans WHERE user_id = ? AND status = ? ORDER BY created_at DESC`, userID.String(), status)
	if err != nil {
		return nil, fmt.Errorf("failed to get loans by status: %w", err)
	}
	defer rows.Close()
	return scanLoans(rows)
}

func scanLoans(rows *sql.Rows) ([]*models.Loan, error) {
	var loans []*models.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return loans, nil
}

func scanLoanRow(scan func(dest ...any) error) (*models.Loan, error) {
	var loan models.Loan
	var idStr, userIDStr, debtorIDStr string
	err := scan(
		&idStr, &userIDStr, &debtorIDStr, &loan.PrincipalCents, &loan.Currency, &loan.StartDate,
		&loan.FirstDueDate, &loan.InstallmentsCount, &loan.Frequency, &loan.InterestType,
		&loan.InterestRateBps, &loan.Status, &loan.Notes, &loan.CreatedAt, &loan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	loan.ID = uuid.MustParse(idStr)
	loan.UserID = uuid.MustParse(userIDStr)
	loan.DebtorID = uuid.MustParse(debtorIDStr)
	return &loan, nil
}

// ---- Installments ----

const installmentColumns = `id, user_id, loan_id, number, due_date, amount_cents, paid_cents, status, paid_at, created_at, updated_at`

func (s *SQLiteStore) GetInstallment(id uuid.UUID) (*models.Installment, error) {
	row := s.db.QueryRow(`SELECT `+installmentColumns+` FROM installments WHERE id = ?`, id.String())
	inst, err := scanInstallmentRow(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get installment: %w", err)
	}
	return inst, nil
}

func (s *SQLiteStore) GetInstallmentsByLoan(loanID uuid.UUID) ([]*models.Installment, error) {
	rows, err := s.db.Query(`SELECT `+installmentColumns+` FROM installments WHERE loan_id = ? ORDER BY number ASC`, loanID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get loan installments: %w", err)
	}
	defer rows.Close()
	return scanInstallments(rows)
}

func (s *SQLiteStore) GetInstallmentsByUser(userID uuid.UUID) ([]*models.Installment, error) {
	rows, err := s.db.Query(`SELECT `+installmentColumns+` FROM installments WHERE user_id = ? ORDER BY due_date ASC`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get user installments: %w", err)
	}
	defer rows.Close()
	return scanInstallments(rows)
}

func (s *SQLiteStore) GetInstallmentsByUserStatus(userID uuid.UUID, status models.InstallmentStatus) ([]*models.Installment, error) {
	rows, err := s.db.Query(`SELECT `+installmentColumns+` FROM installments WHERE user_id = ? AND status = ? ORDER BY due_date ASC`, userID.String(), status)
	if err != nil {
		return nil, fmt.Errorf("failed to get installments by status: %w", err)
	}
	defer rows.Close()
	return scanInstallments(rows)
}

func (s *SQLiteStore) UpdateInstallment(inst *models.Installment) error {
	var paidAt sql.NullTime
	if inst.PaidAt != nil {
		paidAt = sql.NullTime{Time: *inst.PaidAt, Valid: true}
	}
	result, err := s.db.Exec(
		`UPDATE installments SET paid_cents = ?, status = ?, paid_at = ?, updated_at = ? WHERE id = ?`,
		inst.PaidCents, inst.Status, paidAt, inst.UpdatedAt, inst.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update installment: %w", err)
	}
	return checkAffected(result)
}

// MarkInstallmentsLate promotes every pending installment whose due date has
// passed to LATE and reports how many rows changed.
func (s *SQLiteStore) MarkInstallmentsLate(asOf time.Time) (int64, error) {
	result, err := s.db.Exec(
		`UPDATE installments SET status = ?, updated_at = ? WHERE status = ? AND due_date < ?`,
		models.InstallmentLate, asOf, models.InstallmentPending, asOf,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark installments late: %w", err)
	}
	return result.RowsAffected()
}

func scanInstallments(rows *sql.Rows) ([]*models.Installment, error) {
	var installments []*models.Installment
	for rows.Next() {
		inst, err := scanInstallmentRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment row: %w", err)
		}
		installments = append(installments, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return installments, nil
}

func scanInstallmentRow(scan func(dest ...any) error) (*models.Installment, error) {
	var inst models.Installment
	var idStr, userIDStr, loanIDStr string
	var paidAt sql.NullTime
	err := scan(
		&idStr, &userIDStr, &loanIDStr, &inst.Number, &inst.DueDate, &inst.AmountCents,
		&inst.PaidCents, &inst.Status, &paidAt, &inst.CreatedAt, &inst.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inst.ID = uuid.MustParse(idStr)
	inst.UserID = uuid.MustParse(userIDStr)
	inst.LoanID = uuid.MustParse(loanIDStr)
	if paidAt.Valid {
		inst.PaidAt = &paidAt.Time
	}
	return &inst, nil
}

// ---- Payments ----

// ApplyPayment appends the payment record, patches its installment and, when
// loan is non-nil, patches the loan, in a single transaction.
func (s *SQLiteStore) ApplyPayment(payment *models.Payment, installment *models.Installment, loan *models.Loan) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO payments (id, user_id, loan_id, installment_id, amount_cents, payment_date, method, reference, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID.String(), payment.UserID.String(), payment.LoanID.String(), payment.InstallmentID.String(),
		payment.AmountCents, payment.PaymentDate, payment.Method, payment.Reference, payment.Notes, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	var paidAt sql.NullTime
	if installment.PaidAt != nil {
		paidAt = sql.NullTime{Time: *installment.PaidAt, Valid: true}
	}
	result, err := tx.Exec(
		`UPDATE installments SET paid_cents = ?, status = ?, paid_at = ?, updated_at = ? WHERE id = ?`,
		installment.PaidCents, installment.Status, paidAt, installment.UpdatedAt, installment.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update installment: %w", err)
	}
	if err := checkAffected(result); err != nil {
		return err
	}

	if loan != nil {
		result, err := tx.Exec(
			`UPDATE loans SET status = ?, updated_at = ? WHERE id = ?`,
			loan.Status, loan.UpdatedAt, loan.ID.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to update loan: %w", err)
		}
		if err := checkAffected(result); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetPaymentsByLoan(loanID uuid.UUID) ([]*models.Payment, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, loan_id, installment_id, amount_cents, payment_date, method, reference, notes, created_at
		FROM payments WHERE loan_id = ? ORDER BY payment_date ASC`, loanID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get loan payments: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (s *SQLiteStore) GetPaymentsByUser(userID uuid.UUID) ([]*models.Payment, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, loan_id, installment_id, amount_cents, payment_date, method, reference, notes, created_at
		FROM payments WHERE user_id = ? ORDER BY payment_date ASC`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get user payments: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

func scanPayments(rows *sql.Rows) ([]*models.Payment, error) {
	var payments []*models.Payment
	for rows.Next() {
		var payment models.Payment
		var idStr, userIDStr, loanIDStr, instIDStr string
		err := rows.Scan(
			&idStr, &userIDStr, &loanIDStr, &instIDStr, &payment.AmountCents,
			&payment.PaymentDate, &payment.Method, &payment.Reference, &payment.Notes, &payment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payment.ID = uuid.MustParse(idStr)
		payment.UserID = uuid.MustParse(userIDStr)
		payment.LoanID = uuid.MustParse(loanIDStr)
		payment.InstallmentID = uuid.MustParse(instIDStr)
		payments = append(payments, &payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return payments, nil
}

func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
