package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"paisa/internal/export"
)

// handleExport streams the full collection as an xlsx attachment. The kind
// path segment selects the collection: "expense" or "saving".
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")

	var (
		data []byte
		err  error
	)
	switch kind {
	case "expense":
		expenses, lerr := s.expenses.All(r.Context())
		if lerr != nil {
			err = lerr
			break
		}
		data, err = export.Expenses(expenses)
	case "saving":
		savings, lerr := s.savings.All(r.Context())
		if lerr != nil {
			err = lerr
			break
		}
		data, err = export.Savings(savings)
	default:
		http.NotFound(w, r)
		return
	}

	if err != nil {
		slog.ErrorContext(r.Context(), "Export error", "error", err, "kind", kind)
		http.Error(w, "failed to export "+kind+"s", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+kind+`s.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
