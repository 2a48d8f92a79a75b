package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"finance-tracker/internal/finance"
	"finance-tracker/internal/models"
)

const dateLayout = "2006-01-02"

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parseDate accepts a timestamp or a calendar date. Values without a zone
// are taken as UTC. The second result is true for a bare date.
func parseDate(field, value string) (time.Time, bool, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), false, nil
		}
	}
	if t, err := time.ParseInLocation(dateLayout, value, time.UTC); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, &finance.ValidationError{Field: field, Reason: "must be a date (YYYY-MM-DD) or timestamp"}
}

// parseStart reads an inclusive lower bound.
func parseStart(field, value string) (time.Time, error) {
	t, _, err := parseDate(field, value)
	return t, err
}

// parseEnd reads an inclusive upper bound. A bare date covers the whole day.
func parseEnd(field, value string) (time.Time, error) {
	t, dateOnly, err := parseDate(field, value)
	if err != nil {
		return time.Time{}, err
	}
	if dateOnly {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func parseAmount(value string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, &finance.ValidationError{Field: "amount", Reason: "must be a number"}
	}
	return amount, nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, finance.ErrNotFound
	}
	return id, nil
}

func (h *Handlers) parseTransactionForm(r *http.Request) (finance.TransactionInput, error) {
	if err := r.ParseForm(); err != nil {
		return finance.TransactionInput{}, &finance.ValidationError{Field: "form", Reason: "could not be parsed"}
	}

	amount, err := parseAmount(r.FormValue("amount"))
	if err != nil {
		return finance.TransactionInput{}, err
	}

	in := finance.TransactionInput{
		Kind:     models.Kind(strings.ToLower(strings.TrimSpace(r.FormValue("type")))),
		Amount:   amount,
		Category: r.FormValue("category"),
		Currency: r.FormValue("currency"),
	}
	if strings.TrimSpace(in.Currency) == "" {
		in.Currency = h.svc.BaseCurrency()
	}
	if v := r.FormValue("date"); strings.TrimSpace(v) != "" {
		if in.Date, err = parseStart("date", v); err != nil {
			return finance.TransactionInput{}, err
		}
	}
	return in, nil
}

func parseBudgetForm(r *http.Request) (finance.BudgetInput, error) {
	if err := r.ParseForm(); err != nil {
		return finance.BudgetInput{}, &finance.ValidationError{Field: "form", Reason: "could not be parsed"}
	}

	amount, err := parseAmount(r.FormValue("amount"))
	if err != nil {
		return finance.BudgetInput{}, err
	}
	in := finance.BudgetInput{
		Category: r.FormValue("category"),
		Amount:   amount,
	}

	start := r.FormValue("start_date")
	if strings.TrimSpace(start) == "" {
		return finance.BudgetInput{}, &finance.ValidationError{Field: "start_date", Reason: "is required"}
	}
	if in.Start, err = parseStart("start_date", start); err != nil {
		return finance.BudgetInput{}, err
	}

	end := r.FormValue("end_date")
	if strings.TrimSpace(end) == "" {
		return finance.BudgetInput{}, &finance.ValidationError{Field: "end_date", Reason: "is required"}
	}
	if in.End, err = parseEnd("end_date", end); err != nil {
		return finance.BudgetInput{}, err
	}
	return in, nil
}

// parseRange reads optional start and end query parameters.
func parseRange(r *http.Request) (models.DateRange, error) {
	var dr models.DateRange
	var err error
	q := r.URL.Query()
	if v := q.Get("start"); v != "" {
		if dr.Start, err = parseStart("start", v); err != nil {
			return models.DateRange{}, err
		}
	}
	if v := q.Get("end"); v != "" {
		if dr.End, err = parseEnd("end", v); err != nil {
			return models.DateRange{}, err
		}
	}
	if !dr.Start.IsZero() && !dr.End.IsZero() && dr.Start.After(dr.End) {
		return models.DateRange{}, &finance.ValidationError{Field: "end", Reason: "must not be before start"}
	}
	return dr, nil
}
