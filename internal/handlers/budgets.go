package handlers

import (
	"net/http"

	"finance-tracker/internal/models"
)

// ListBudgets returns the user's budgets.
func (h *Handlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	budgets, err := h.svc.ListBudgets(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	writeJSON(w, r, http.StatusOK, budgets)
}

// CreateBudget sets a budget from form values.
func (h *Handlers) CreateBudget(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	in, err := parseBudgetForm(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	b, err := h.svc.SetBudget(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, b)
}

// GetBudget returns one of the user's budgets.
func (h *Handlers) GetBudget(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	b, err := h.svc.GetBudget(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, b)
}

// UpdateBudget replaces one of the user's budgets.
func (h *Handlers) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := parseBudgetForm(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	b, err := h.svc.UpdateBudget(r.Context(), user.ID, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, b)
}

// DeleteBudget removes one of the user's budgets.
func (h *Handlers) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.DeleteBudget(r.Context(), user.ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
