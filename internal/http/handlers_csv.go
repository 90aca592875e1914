package http

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"wealthify/internal/csvio"
	"wealthify/internal/log"
)

// exportHistoryLimit caps how much collaborator history one export
// pulls; the local fallback is never longer than the recent window.
const exportHistoryLimit = 500

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	transactions := s.transactionHistory(r.Context(), exportHistoryLimit)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		`attachment; filename="transactions-`+time.Now().Format("2006-01-02")+`.csv"`)
	if err := csvio.Export(w, transactions); err != nil {
		// Headers are already out; all we can do is log.
		slog.ErrorContext(r.Context(), "CSV export failed mid-stream", "error", err)
	}
}

// handleExportSheets mirrors the CSV export into the configured
// spreadsheet. 404 when no sheets target is configured.
func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	if s.sheets == nil {
		writeError(w, http.StatusNotFound, log.ErrorTypeNotFound, "spreadsheet export is not configured")
		return
	}
	transactions := s.transactionHistory(r.Context(), exportHistoryLimit)
	if err := s.sheets.AppendTransactions(r.Context(), transactions); err != nil {
		slog.ErrorContext(r.Context(), "Sheets export failed", "error", err)
		writeError(w, http.StatusBadGateway, log.ErrorTypeTransport, "could not write to the spreadsheet")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"exported": len(transactions)})
}

// handleImportCSV accepts the upload either as a multipart "file" field
// or as a raw text/csv body. Parsing is all-or-nothing; a bad row is
// reported with its line number and nothing reaches the ledger.
func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := importBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, log.ErrorTypeParse, "could not read upload: "+err.Error())
		return
	}
	defer body.Close()

	// Anonymous imports stay local; a session id lets the relay worker
	// attribute rows when they reach the collaborator.
	userID, err := s.currentUserID(ctx)
	if err != nil {
		userID = 0
	}

	result, err := s.importer.Import(ctx, body, userID)
	if err != nil {
		writeImportError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func importBody(r *http.Request) (io.ReadCloser, error) {
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(contentType, "multipart/") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		return file, nil
	}
	return http.MaxBytesReader(nil, r.Body, maxBodyBytes), nil
}

// writeImportError surfaces CSV problems as 422 with the offending
// detail; anything else is an internal failure.
func writeImportError(w http.ResponseWriter, err error) {
	var rowErr *csvio.RowError
	var colErr *csvio.MissingColumnError
	var parseErr *csv.ParseError
	switch {
	case errors.As(err, &rowErr), errors.As(err, &colErr),
		errors.As(err, &parseErr), errors.Is(err, csvio.ErrEmptyFile):
		writeError(w, http.StatusUnprocessableEntity, log.ErrorTypeParse, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, log.ErrorTypeInternal, "import failed")
	}
}
