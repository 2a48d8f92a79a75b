package handlers

import (
	"net/http"
	"strings"

	"finance-tracker/internal/finance"
)

// Dashboard returns the overview: transactions, budgets, alerts as of now and
// the monthly spending pattern.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	d, err := h.svc.Dashboard(r.Context(), user.ID, h.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

// SpendingPatterns returns net spending per calendar month as index-aligned
// dates and amounts.
func (h *Handlers) SpendingPatterns(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	byMonth, err := h.svc.SpendingByMonth(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, finance.NewTimeSeries(byMonth))
}

// SpendingByCategory returns net spending per category, optionally limited
// by start and end query parameters.
func (h *Handlers) SpendingByCategory(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	dr, err := parseRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	byCategory, err := h.svc.SpendingByCategory(r.Context(), user.ID, dr)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, finance.NewCategoryBreakdown(byCategory))
}

// Alerts returns the budgets the user has exceeded, evaluated at the as_of
// query parameter or now.
func (h *Handlers) Alerts(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	asOf := h.now()
	if v := strings.TrimSpace(r.URL.Query().Get("as_of")); v != "" {
		t, err := parseStart("as_of", v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		asOf = t
	}

	alerts, err := h.svc.BudgetAlerts(r.Context(), user.ID, asOf)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, alerts)
}
