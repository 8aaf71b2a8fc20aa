package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/dashboard"
)

// dashboardFilters reads from, to and a comma-separated contract_ids list.
func dashboardFilters(r *http.Request) (dashboard.Filters, error) {
	var f dashboard.Filters
	var err error
	if f.From, err = queryDate(r, "from"); err != nil {
		return f, err
	}
	if f.To, err = queryDate(r, "to"); err != nil {
		return f, err
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return f, apperr.Validation("from must not be after to")
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("contract_ids")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil || id <= 0 {
				return f, apperr.Validation("invalid contract_ids %q", raw)
			}
			f.ContractIDs = append(f.ContractIDs, id)
		}
	}
	return f, nil
}

func (s *Server) handleSupplies(w http.ResponseWriter, r *http.Request) {
	f, err := dashboardFilters(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := s.Dashboard.Supplies(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleExecutive(w http.ResponseWriter, r *http.Request) {
	f, err := dashboardFilters(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := s.Dashboard.Executive(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleRoleSummary(w http.ResponseWriter, r *http.Request) {
	contractID, err := queryInt64(r, "contract_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := s.Dashboard.RoleSummary(r.Context(), currentUser(r).Role, contractID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	d, err := s.Dashboard.KPIs(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleKPIPeriod(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "period_days", 30)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if days <= 0 || days > 3650 {
		s.fail(w, r, apperr.Validation("period_days must be between 1 and 3650"))
		return
	}
	d, err := s.Dashboard.KPISummary(r.Context(), days)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleContractMetrics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := s.Dashboard.ContractMetrics(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleActiveContracts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 5)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := s.Dashboard.ActiveContracts(r.Context(), min(max(limit, 1), maxLimit))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if d == nil {
		d = []dashboard.ActiveContract{}
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := s.Dashboard.Activities(r.Context(), min(max(limit, 1), maxLimit))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if d == nil {
		d = []dashboard.Activity{}
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	d, err := s.Dashboard.Alerts(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
