package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/model"
	"github.com/sells-group/contract-costs/internal/report"
)

// analyticalReaders may see item-level cost lines.
var analyticalReaders = model.RoleGroup{model.RoleSuprimentos, model.RoleDiretoria, model.RoleAdmin}

func canRead(u *model.User, t report.Type) error {
	if t == report.TypeAnalytical && !analyticalReaders.Allows(u.Role) {
		return apperr.Forbidden("analytical report is restricted to suprimentos and diretoria")
	}
	return nil
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req report.Request
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	u := currentUser(r)
	if err := canRead(u, req.Type); err != nil {
		s.fail(w, r, err)
		return
	}
	resp, err := s.Reports.Generate(r.Context(), req, u.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecentReports(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.Reports.Recent(r.Context(), min(max(limit, 1), maxLimit))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if out == nil {
		out = []report.Entry{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	path, entry, err := s.Reports.Download(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", entry.Format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+entry.Filename+`"`)
	http.ServeFile(w, r, path)
}

// reportFilter reads the preview query parameters.
func reportFilter(r *http.Request) (report.Filter, error) {
	var f report.Filter
	var err error
	if f.ContractID, err = queryInt64(r, "contract_id"); err != nil {
		return f, err
	}
	if f.From, err = queryDate(r, "start_date"); err != nil {
		return f, err
	}
	if f.To, err = queryDate(r, "end_date"); err != nil {
		return f, err
	}
	q := r.URL.Query()
	f.Client = strings.TrimSpace(q.Get("client"))
	f.CostCenter = strings.TrimSpace(q.Get("cost_center"))
	f.Supplier = strings.TrimSpace(q.Get("supplier"))
	return f, nil
}

func (s *Server) handleAnalyticalPreview(w http.ResponseWriter, r *http.Request) {
	if err := canRead(currentUser(r), report.TypeAnalytical); err != nil {
		s.fail(w, r, err)
		return
	}
	f, err := reportFilter(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.Reports.Analytical(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBalancePreview(w http.ResponseWriter, r *http.Request) {
	f, err := reportFilter(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.Reports.Balance(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
