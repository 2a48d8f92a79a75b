package handlers

import (
	"net/http"

	"finance-tracker/internal/models"
)

// ListTransactions returns the user's transactions, newest first, optionally
// limited by start and end query parameters.
func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	dr, err := parseRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	txs, err := h.svc.ListTransactions(r.Context(), user.ID, dr)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	writeJSON(w, r, http.StatusOK, txs)
}

// CreateTransaction records a transaction from form values.
func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	in, err := h.parseTransactionForm(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := h.svc.RecordTransaction(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, t)
}

// GetTransaction returns one of the user's transactions.
func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := h.svc.GetTransaction(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, t)
}

// UpdateTransaction replaces one of the user's transactions.
func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := h.parseTransactionForm(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := h.svc.UpdateTransaction(r.Context(), user.ID, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, t)
}

// DeleteTransaction removes one of the user's transactions.
func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.DeleteTransaction(r.Context(), user.ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
