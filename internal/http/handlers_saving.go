package http

import (
	"errors"
	"log/slog"
	"net/http"

	"paisa/internal/chart"
	"paisa/internal/core"
	"paisa/internal/docstore"
	"paisa/internal/entry"
	"paisa/internal/report"
)

type savingFormData struct {
	CurrentDate string
	Error       string
}

func (s *Server) handleAddSavingForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "add_saving.html", savingFormData{
		CurrentDate: s.now().Format(core.DateLayout),
	})
}

func (s *Server) handleAddSaving(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sav, ferr := parseSavingForm(r)
	if ferr != nil {
		w.WriteHeader(ferr.Status)
		s.render(w, r, "add_saving.html", savingFormData{
			CurrentDate: s.now().Format(core.DateLayout),
			Error:       ferr.Message,
		})
		return
	}

	id, err := s.savings.Create(r.Context(), sav)
	if err != nil {
		slog.ErrorContext(r.Context(), "Saving create error", "error", err, "saving_mode", sav.SavingMode, "amount", sav.Amount.Cents)
		http.Error(w, "failed to save saving", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "Saving created", "id", id, "saving_mode", sav.SavingMode, "amount", sav.Amount.Cents)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type editSavingData struct {
	Saving core.Saving
	Error  string
}

func (s *Server) handleEditSavingForm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sav, err := s.savings.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "Saving load error", "error", err, "id", id)
		http.Error(w, "failed to load saving", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "edit_saving.html", editSavingData{Saving: sav})
}

func (s *Server) handleEditSaving(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sav, ferr := parseSavingForm(r)
	if ferr != nil {
		stored, err := s.savings.Get(r.Context(), id)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(ferr.Status)
		s.render(w, r, "edit_saving.html", editSavingData{Saving: stored, Error: ferr.Message})
		return
	}

	if err := s.savings.Update(r.Context(), id, sav); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.ErrorContext(r.Context(), "Saving update error", "error", err, "id", id)
		http.Error(w, "failed to update saving", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(r.Context(), "Saving updated", "id", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDeleteSaving(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.savings.Delete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Saving delete error", "error", err, "id", id)
		http.Error(w, "failed to delete saving", http.StatusInternalServerError)
		return
	}
	slog.InfoContext(r.Context(), "Saving deleted", "id", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSavingReport(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	q := report.Query{
		Month:    r.URL.Query().Get("month"),
		Group:    r.URL.Query().Get("saving_mode"),
		FromDate: r.URL.Query().Get("from_date"),
		ToDate:   r.URL.Query().Get("to_date"),
	}
	f := report.BuildFilter(q, entry.SavingModeField, now)

	bundle, err := report.Build(r.Context(), s.savings.Collection(), entry.SavingModeField, f, entry.SavingSort, entry.DecodeSaving, now)
	if err != nil {
		slog.ErrorContext(r.Context(), "Saving report error", "error", err)
		http.Error(w, "failed to build saving report", http.StatusInternalServerError)
		return
	}

	if err := s.charts.RenderPie(bundle.GroupedTotals, chart.SavingChart); err != nil {
		slog.ErrorContext(r.Context(), "Saving chart render error", "error", err)
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "saving_report.html", reportPageData[core.Saving]{
		Report:    bundle,
		Query:     q,
		Months:    months,
		ChartName: chart.SavingChart,
	})
}
