package handlers

import "net/http"

// Register adds every route to mux. Routes other than signup, login, logout
// and the health check require a session.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("POST /signup", h.Signup)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /logout", h.Logout)

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})

	protected := func(fn http.HandlerFunc) http.Handler {
		return h.AuthMiddleware(fn)
	}

	mux.Handle("GET /dashboard", protected(h.Dashboard))

	mux.Handle("GET /transactions", protected(h.ListTransactions))
	mux.Handle("POST /transactions", protected(h.CreateTransaction))
	mux.Handle("GET /transactions/{id}", protected(h.GetTransaction))
	mux.Handle("PUT /transactions/{id}", protected(h.UpdateTransaction))
	mux.Handle("DELETE /transactions/{id}", protected(h.DeleteTransaction))

	mux.Handle("GET /budgets", protected(h.ListBudgets))
	mux.Handle("POST /budgets", protected(h.CreateBudget))
	mux.Handle("GET /budgets/{id}", protected(h.GetBudget))
	mux.Handle("PUT /budgets/{id}", protected(h.UpdateBudget))
	mux.Handle("DELETE /budgets/{id}", protected(h.DeleteBudget))

	mux.Handle("GET /api/spending_patterns", protected(h.SpendingPatterns))
	mux.Handle("GET /api/spending_by_category", protected(h.SpendingByCategory))
	mux.Handle("GET /api/alerts", protected(h.Alerts))
}
