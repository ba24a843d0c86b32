package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prestamio/prestamio/pkg/ledger"
	"github.com/prestamio/prestamio/pkg/models"
	"github.com/prestamio/prestamio/pkg/money"
)

// parseDate accepts plain dates ("2025-06-01") and RFC 3339 timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}

// ---- dashboard ----

func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		// Anonymous callers get the empty state rather than an error.
		writeJSON(w, http.StatusOK, ledger.EmptySummary())
		return
	}

	summary, err := s.ledger.Dashboard(userID, time.Now())
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ---- debtors ----

type debtorRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Notes    string `json:"notes"`
}

func (s *Server) createDebtorHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	var req debtorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	debtor, err := s.ledger.CreateDebtor(userID, ledger.DebtorInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Notes:    req.Notes,
	})
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, debtor)
}

func (s *Server) listDebtorsHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	debtors, err := s.ledger.ListDebtors(userID)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	if debtors == nil {
		debtors = []*models.Debtor{}
	}
	writeJSON(w, http.StatusOK, debtors)
}

func (s *Server) getDebtorHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid debtor id")
		return
	}

	debtor, err := s.ledger.GetDebtor(userID, id)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, debtor)
}

func (s *Server) updateDebtorHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid debtor id")
		return
	}

	var req debtorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	debtor, err := s.ledger.UpdateDebtor(userID, id, ledger.DebtorInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Notes:    req.Notes,
	})
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, debtor)
}

func (s *Server) deleteDebtorHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid debtor id")
		return
	}

	if err := s.ledger.DeleteDebtor(userID, id); err != nil {
		s.writeLedgerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- loans ----

type createLoanRequest struct {
	DebtorID            string `json:"debtor_id"`
	Amount              string `json:"amount"` // decimal string, e.g. "2500.00"
	Currency            string `json:"currency"`
	StartDate           string `json:"start_date"`
	FirstDueDate        string `json:"first_due_date"`
	InstallmentsCount   int    `json:"installments_count"`
	Frequency           string `json:"frequency"`
	InterestType        string `json:"interest_type"`
	InterestRatePercent string `json:"interest_rate_percent"` // "5.00" -> 500 bps
	Notes               string `json:"notes"`
}

func (s *Server) createLoanHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	var req createLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	debtorID, err := uuid.Parse(req.DebtorID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid debtor id")
		return
	}
	principalCents, err := money.ToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date")
		return
	}
	firstDueDate, err := parseDate(req.FirstDueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid first due date")
		return
	}

	// Percent to basis points is the same x100 scaling cents use.
	var rateBps int64
	if req.InterestRatePercent != "" {
		rateBps, err = money.ToCents(req.InterestRatePercent)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid interest rate")
			return
		}
	}
	interestType := models.InterestType(req.InterestType)
	if req.InterestType == "" {
		interestType = models.InterestNone
	}

	loan, err := s.ledger.CreateLoan(userID, ledger.LoanInput{
		DebtorID:          debtorID,
		PrincipalCents:    principalCents,
		Currency:          req.Currency,
		StartDate:         startDate,
		FirstDueDate:      firstDueDate,
		InstallmentsCount: req.InstallmentsCount,
		Frequency:         models.Frequency(req.Frequency),
		InterestType:      interestType,
		InterestRateBps:   rateBps,
		Notes:             req.Notes,
	})
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

type loanListItem struct {
	*models.Loan
	DebtorName string `json:"debtor_name"`
}

func (s *Server) listLoansHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	loans, err := s.ledger.ListLoans(userID)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	debtors, err := s.ledger.ListDebtors(userID)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	names := make(map[uuid.UUID]string, len(debtors))
	for _, d := range debtors {
		names[d.ID] = d.FullName
	}

	items := make([]loanListItem, 0, len(loans))
	for _, loan := range loans {
		items = append(items, loanListItem{Loan: loan, DebtorName: names[loan.DebtorID]})
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) getLoanHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	detail, err := s.ledger.GetLoan(userID, id)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type updateLoanRequest struct {
	Amount              *string `json:"amount"`
	Currency            *string `json:"currency"`
	StartDate           *string `json:"start_date"`
	FirstDueDate        *string `json:"first_due_date"`
	InstallmentsCount   *int    `json:"installments_count"`
	Frequency           *string `json:"frequency"`
	InterestType        *string `json:"interest_type"`
	InterestRatePercent *string `json:"interest_rate_percent"`
	Status              *string `json:"status"`
	Notes               *string `json:"notes"`
}

func (s *Server) updateLoanHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	var req updateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var update ledger.LoanUpdate
	if req.Amount != nil {
		cents, err := money.ToCents(*req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid amount")
			return
		}
		update.PrincipalCents = &cents
	}
	update.Currency = req.Currency
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start date")
			return
		}
		update.StartDate = &t
	}
	if req.FirstDueDate != nil {
		t, err := parseDate(*req.FirstDueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid first due date")
			return
		}
		update.FirstDueDate = &t
	}
	update.InstallmentsCount = req.InstallmentsCount
	if req.Frequency != nil {
		f := models.Frequency(*req.Frequency)
		update.Frequency = &f
	}
	if req.InterestType != nil {
		it := models.InterestType(*req.InterestType)
		update.InterestType = &it
	}
	if req.InterestRatePercent != nil {
		bps, err := money.ToCents(*req.InterestRatePercent)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid interest rate")
			return
		}
		update.InterestRateBps = &bps
	}
	if req.Status != nil {
		st := models.LoanStatus(*req.Status)
		update.Status = &st
	}
	update.Notes = req.Notes

	loan, err := s.ledger.UpdateLoan(userID, id, update)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (s *Server) deleteLoanHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	if err := s.ledger.DeleteLoan(userID, id); err != nil {
		s.writeLedgerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- payments ----

type registerPaymentRequest struct {
	InstallmentID string `json:"installment_id"`
	Amount        string `json:"amount"` // decimal string
	PaymentDate   string `json:"payment_date"`
	Method        string `json:"method"`
	Reference     string `json:"reference"`
	Notes         string `json:"notes"`
}

func (s *Server) registerPaymentHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	loanID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	var req registerPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	installmentID, err := uuid.Parse(req.InstallmentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid installment id")
		return
	}
	amountCents, err := money.ToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment date")
		return
	}

	installment, err := s.ledger.RegisterPayment(userID, ledger.PaymentInput{
		LoanID:        loanID,
		InstallmentID: installmentID,
		AmountCents:   amountCents,
		PaymentDate:   paymentDate,
		Method:        models.PaymentMethod(req.Method),
		Reference:     req.Reference,
		Notes:         req.Notes,
	})
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, installment)
}

func (s *Server) listPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	loanID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	payments, err := s.ledger.ListLoanPayments(userID, loanID)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}
