package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/xuri/excelize/v2"

	"owura/internal/core"
	applog "owura/internal/log"
)

// maxImportSize caps uploaded snapshot files at 8 MiB; the real
// documents are a few kilobytes.
const maxImportSize = 8 << 20

// handleExportJSON streams the snapshot document as a dated download.
func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ledger.ExportSnapshot()
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Export failed", applog.FieldError, err.Error())
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	filename := "debtors-profits-" + s.now().Format(formDateLayout) + ".json"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(doc)
}

// handleExportXLSX renders the three record tables as a spreadsheet.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	book := s.ledger.Book()
	now := s.now()

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Debtors")
	writeSheetRow(f, "Debtors", 1, "Name", "Contact", "Amount", "Paid", "Balance", "Due Date", "Status", "Notes")
	for i, d := range book.Debtors {
		writeSheetRow(f, "Debtors", i+2,
			d.Name, d.Contact, d.Amount.Cedis(), d.Paid.Cedis(), core.Balance(d).Cedis(),
			d.DueDate.Format(formDateLayout), string(core.DebtorStatus(d, now)), d.Notes)
	}

	if _, err := f.NewSheet("Profits"); err == nil {
		writeSheetRow(f, "Profits", 1, "Date", "Description", "Category", "Amount", "Payment Method")
		for i, p := range book.Profits {
			writeSheetRow(f, "Profits", i+2,
				p.Date.Format(formDateLayout), p.Description, p.Category, p.Amount.Cedis(), methodLabel(p.Method))
		}
	}

	if _, err := f.NewSheet("Payments"); err == nil {
		writeSheetRow(f, "Payments", 1, "Date", "Debtor", "Amount", "Method", "Notes")
		names := make(map[string]string, len(book.Debtors))
		for _, d := range book.Debtors {
			names[d.ID] = d.Name
		}
		for i, p := range book.Payments {
			name, ok := names[p.DebtorID]
			if !ok {
				name = "Unknown"
			}
			writeSheetRow(f, "Payments", i+2,
				p.Date.Format(formDateLayout), name, p.Amount.Cedis(), methodLabel(p.Method), p.Notes)
		}
	}

	filename := "debtors-profits-" + now.Format(formDateLayout) + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := f.Write(w); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Spreadsheet export failed", applog.FieldError, err.Error())
	}
}

func writeSheetRow(f *excelize.File, sheet string, row int, values ...any) {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, cell, v)
	}
}

// handleImport applies an uploaded snapshot document. The document is
// decoded in full before any state changes; malformed files leave the
// ledger untouched.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeErrorFragment(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeErrorFragment(w, http.StatusBadRequest, "No file selected")
		return
	}
	defer file.Close()

	doc, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		writeErrorFragment(w, http.StatusBadRequest, fmt.Sprintf("Reading upload failed: %v", err))
		return
	}

	if err := s.ledger.ImportSnapshot(r.Context(), doc); err != nil {
		writeActionError(w, r, err)
		return
	}
	writeSuccessFragment(w, "Data imported successfully!")
}
