package http

import (
	"errors"
	"html/template"
	"net/http"

	"owura/internal/core"
	applog "owura/internal/log"
)

// ledgerChanged is the htmx event fired after every successful
// mutation; tables and the dashboard listen for it and refresh.
const ledgerChanged = "ledger:changed"

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Parse form error",
			applog.FieldError, err.Error(), applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
		writeErrorFragment(w, http.StatusBadRequest, "Invalid request format")
		return false
	}
	return true
}

func writeErrorFragment(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
}

func writeSuccessFragment(w http.ResponseWriter, msg string) {
	w.Header().Set("HX-Trigger", ledgerChanged)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">` + template.HTMLEscapeString(msg) + `</div>`))
}

// writeActionError maps ledger errors onto fragments: a missing id is
// 404, bad input 422, anything else 500.
func writeActionError(w http.ResponseWriter, r *http.Request, err error) {
	logger := applog.FromContext(r.Context())
	switch {
	case errors.Is(err, core.ErrNotFound):
		logger.WarnContext(r.Context(), "Record not found", applog.FieldError, err.Error())
		writeErrorFragment(w, http.StatusNotFound, "Record not found")
	case errors.Is(err, core.ErrParse):
		logger.WarnContext(r.Context(), "Malformed document", applog.FieldError, err.Error())
		writeErrorFragment(w, http.StatusUnprocessableEntity, "Error importing data. Please check the file format.")
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidMethod),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyDescription):
		writeErrorFragment(w, http.StatusUnprocessableEntity, "Invalid input: "+err.Error())
	default:
		logger.ErrorContext(r.Context(), "Action failed", applog.FieldError, err.Error())
		writeErrorFragment(w, http.StatusInternalServerError, "Something went wrong, please try again")
	}
}
