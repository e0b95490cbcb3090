package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/MirosMazurenko/Banking-solution/internal/models"
	"github.com/MirosMazurenko/Banking-solution/internal/service"
)

// Handler exposes the ledger operations over HTTP
type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

// NewHandler initializes a new handler
func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register attaches all account routes to the router
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/accounts", h.ListAllAccounts).Methods("GET")
	r.HandleFunc("/api/accounts/create", h.CreateAccount).Methods("POST")
	r.HandleFunc("/api/accounts/deposit", h.Deposit).Methods("POST")
	r.HandleFunc("/api/accounts/withdraw", h.Withdraw).Methods("POST")
	r.HandleFunc("/api/accounts/transfer", h.Transfer).Methods("POST")
	r.HandleFunc("/api/accounts/{id:[0-9]+}", h.GetAccountDetails).Methods("GET")
	r.HandleFunc("/api/accounts/{id:[0-9]+}/transactions", h.ListTransactions).Methods("GET")
}

type createAccountRequest struct {
	OwnerName      string          `json:"owner_name"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type amountRequest struct {
	ID     int64           `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

type transferRequest struct {
	FromAccountID int64           `json:"from_account_id"`
	ToAccountID   int64           `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
}

type accountResponse struct {
	ID        int64  `json:"id"`
	OwnerName string `json:"owner_name"`
	Balance   string `json:"balance"`
}

type transactionResponse struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Amount    string    `json:"amount"`
	Type      string    `json:"type"`
	Reference string    `json:"reference,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateAccount handles account creation
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OwnerName == "" {
		writeError(w, http.StatusBadRequest, "owner name is required")
		return
	}
	if utf8.RuneCountInString(req.OwnerName) > 100 {
		writeError(w, http.StatusBadRequest, "owner name cannot exceed 100 characters")
		return
	}
	if !hasCentPrecision(req.InitialBalance) {
		writeError(w, http.StatusBadRequest, "amount cannot have more than two decimal places")
		return
	}

	account, err := h.svc.CreateAccount(r.Context(), req.OwnerName, req.InitialBalance)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/accounts/%d", account.ID))
	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

// GetAccountDetails handles a single account lookup
func (h *Handler) GetAccountDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	account, err := h.svc.GetAccountDetails(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

// ListAllAccounts handles listing every account
func (h *Handler) ListAllAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAllAccounts(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	views := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, toAccountResponse(account))
	}
	writeJSON(w, http.StatusOK, views)
}

// ListTransactions handles the account history lookup
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	entries, err := h.svc.ListTransactions(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	views := make([]transactionResponse, 0, len(entries))
	for _, entry := range entries {
		views = append(views, transactionResponse{
			ID:        entry.ID,
			AccountID: entry.AccountID,
			Amount:    entry.Amount.StringFixed(2),
			Type:      entry.Type,
			Reference: entry.Reference,
			Timestamp: entry.Timestamp,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

// Deposit handles crediting an account
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAmountRequest(w, r)
	if !ok {
		return
	}
	if err := h.svc.Deposit(r.Context(), req.ID, req.Amount); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Withdraw handles debiting an account
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAmountRequest(w, r)
	if !ok {
		return
	}
	if err := h.svc.Withdraw(r.Context(), req.ID, req.Amount); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Transfer handles moving funds between two accounts
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FromAccountID <= 0 || req.ToAccountID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}
	if !hasCentPrecision(req.Amount) {
		writeError(w, http.StatusBadRequest, "amount cannot have more than two decimal places")
		return
	}

	if err := h.svc.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, req.Amount); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeAmountRequest(w http.ResponseWriter, r *http.Request) (amountRequest, bool) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if req.ID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return req, false
	}
	if !hasCentPrecision(req.Amount) {
		writeError(w, http.StatusBadRequest, "amount cannot have more than two decimal places")
		return req, false
	}
	return req, true
}

// writeDomainError maps the service error taxonomy to HTTP statuses:
// invalid input 400, missing account 404, insufficient funds 422.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrSameAccount):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInsufficientFunds):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Errorf("Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toAccountResponse(account *models.Account) accountResponse {
	return accountResponse{
		ID:        account.ID,
		OwnerName: account.OwnerName,
		Balance:   account.Balance.StringFixed(2),
	}
}

// hasCentPrecision reports whether the amount fits the persisted two
// fraction digits.
func hasCentPrecision(amount decimal.Decimal) bool {
	return amount.Exponent() >= -2
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
