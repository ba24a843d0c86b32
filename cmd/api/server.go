package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prestamio/prestamio/pkg/config"
	"github.com/prestamio/prestamio/pkg/ledger"
	"github.com/prestamio/prestamio/pkg/store"
	"go.uber.org/zap"
)

// Server wires the ledger to the HTTP surface.
type Server struct {
	ledger  *ledger.Ledger
	storage store.Storage
	cfg     *config.Config
	log     *zap.Logger
}

func NewServer(s store.Storage, cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		ledger:  ledger.New(s, log),
		storage: s,
		cfg:     cfg,
		log:     log,
	}
}

// Router builds the route table. The authenticate middleware resolves the
// user from a bearer token when one is present; requireUser gates everything
// except login, registration and the dashboard (which degrades to a zero
// summary for anonymous callers).
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.authenticate)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods("GET")

	router.HandleFunc("/auth/register", s.registerHandler).Methods("POST")
	router.HandleFunc("/auth/login", s.loginHandler).Methods("POST")
	router.Handle("/auth/me", s.requireUser(s.meHandler)).Methods("GET")

	router.HandleFunc("/dashboard", s.dashboardHandler).Methods("GET")

	router.Handle("/debtors", s.requireUser(s.listDebtorsHandler)).Methods("GET")
	router.Handle("/debtors", s.requireUser(s.createDebtorHandler)).Methods("POST")
	router.Handle("/debtors/{id}", s.requireUser(s.getDebtorHandler)).Methods("GET")
	router.Handle("/debtors/{id}", s.requireUser(s.updateDebtorHandler)).Methods("PUT")
	router.Handle("/debtors/{id}", s.requireUser(s.deleteDebtorHandler)).Methods("DELETE")

	router.Handle("/loans", s.requireUser(s.listLoansHandler)).Methods("GET")
	router.Handle("/loans", s.requireUser(s.createLoanHandler)).Methods("POST")
	router.Handle("/loans/{id}", s.requireUser(s.getLoanHandler)).Methods("GET")
	router.Handle("/loans/{id}", s.requireUser(s.updateLoanHandler)).Methods("PUT")
	router.Handle("/loans/{id}", s.requireUser(s.deleteLoanHandler)).Methods("DELETE")
	router.Handle("/loans/{id}/payments", s.requireUser(s.listPaymentsHandler)).Methods("GET")
	router.Handle("/loans/{id}/payments", s.requireUser(s.registerPaymentHandler)).Methods("POST")

	return router
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// writeLedgerError maps core errors onto HTTP statuses.
func (s *Server) writeLedgerError(w http.ResponseWriter, err error) {
	var overpay *ledger.OverpaymentError
	switch {
	case errors.As(err, &overpay):
		writeError(w, http.StatusUnprocessableEntity, overpay.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ledger.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, ledger.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
