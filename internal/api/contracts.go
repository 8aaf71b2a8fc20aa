package api

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/finance"
	"github.com/sells-group/contract-costs/internal/importer"
	"github.com/sells-group/contract-costs/internal/model"
)

// contractRow is a contract listing entry with its realized spend.
type contractRow struct {
	model.Contract
	SpentValue decimal.Decimal `json:"spent_value"`
	Progress   decimal.Decimal `json:"progress_percent"`
}

func (s *Server) handleListContracts(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status := model.ContractStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		s.fail(w, r, apperr.Validation("invalid status %q", status))
		return
	}
	contracts, err := s.Store.ListContracts(r.Context(), model.ContractFilter{
		Client: strings.TrimSpace(r.URL.Query().Get("client")),
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ids := make([]int64, len(contracts))
	for i, c := range contracts {
		ids[i] = c.ID
	}
	realized, err := s.Store.RealizedByContract(r.Context(), ids)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out := make([]contractRow, len(contracts))
	for i, c := range contracts {
		spent := realized[c.ID]
		out[i] = contractRow{
			Contract:   c,
			SpentValue: spent,
			Progress:   finance.PercentRealized(spent, c.OriginalValue),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleContractKPIs(w http.ResponseWriter, r *http.Request) {
	k, err := s.Dashboard.ContractKPIs(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, k)
}

type contractDetail struct {
	*model.Contract
	BudgetItems    []model.BudgetItem    `json:"budget_items"`
	ForecastValues []model.ForecastValue `json:"forecast_values"`
	Metrics        *finance.Metrics      `json:"metrics"`
}

func (s *Server) handleGetContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx := r.Context()
	c, err := s.Store.GetContract(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d := contractDetail{Contract: c}
	if d.BudgetItems, err = s.Store.ListBudgetItems(ctx, id); err != nil {
		s.fail(w, r, err)
		return
	}
	if d.ForecastValues, err = s.Store.ListForecastValues(ctx, id); err != nil {
		s.fail(w, r, err)
		return
	}
	if d.Metrics, err = s.engine.ContractMetrics(ctx, id); err != nil {
		s.fail(w, r, err)
		return
	}
	if d.BudgetItems == nil {
		d.BudgetItems = []model.BudgetItem{}
	}
	if d.ForecastValues == nil {
		d.ForecastValues = []model.ForecastValue{}
	}
	writeJSON(w, http.StatusOK, d)
}

type contractCreated struct {
	Contract *model.Contract        `json:"contract"`
	Budget   *importer.BudgetResult `json:"budget"`
}

// handleCreateContract takes the contract fields and the budget workbook as
// one multipart form. The contract value comes from the workbook.
func (s *Server) handleCreateContract(w http.ResponseWriter, r *http.Request) {
	if err := s.parseMultipart(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	in := model.NewContract{
		ProjectName:  r.FormValue("project_name"),
		Client:       r.FormValue("client"),
		ContractType: model.ContractType(r.FormValue("contract_type")),
		Notes:        formString(r, "notes"),
		CreatedBy:    currentUser(r).ID,
	}
	start, err := parseDate(strings.TrimSpace(r.FormValue("start_date")))
	if err != nil {
		s.fail(w, r, apperr.Validation("invalid start_date"))
		return
	}
	in.StartDate = start
	if v := formString(r, "expected_end_date"); v != nil {
		end, err := parseDate(*v)
		if err != nil {
			s.fail(w, r, apperr.Validation("invalid expected_end_date"))
			return
		}
		in.ExpectedEndDate = &end
	}
	if v := formString(r, "reduction_target_percent"); v != nil {
		pct, err := decimal.NewFromString(*v)
		if err != nil || pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
			s.fail(w, r, apperr.Validation("invalid reduction_target_percent"))
			return
		}
		in.ReductionTargetPercent = &pct
	}
	file, err := formFile(r, "budget_file")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	c, budget, err := s.Importer.CreateContractWithBudget(r.Context(), in, file)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionCreate, model.Ref(model.EntityContract, c.ID), nil, c, "contract created from budget "+file.Name)
	writeJSON(w, http.StatusCreated, contractCreated{Contract: c, Budget: budget})
}

func (s *Server) handleUpdateContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var u model.ContractUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		s.fail(w, r, err)
		return
	}
	if u.Status != nil && !u.Status.Valid() {
		s.fail(w, r, apperr.Validation("invalid status %q", *u.Status))
		return
	}
	if u.OriginalValue != nil && u.OriginalValue.IsNegative() {
		s.fail(w, r, apperr.Validation("original_value must not be negative"))
		return
	}
	before, err := s.Store.GetContract(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	after, err := s.Store.UpdateContract(r.Context(), id, u)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionUpdate, model.Ref(model.EntityContract, id), before, after, "")
	writeJSON(w, http.StatusOK, after)
}

func (s *Server) handleDeleteContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	before, err := s.Store.GetContract(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.Store.DeleteContract(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionDelete, model.Ref(model.EntityContract, id), before, nil, "")
	writeJSON(w, http.StatusOK, map[string]string{"message": "contract deleted"})
}

func (s *Server) handleListForecast(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.Store.GetContract(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	values, err := s.Store.ListForecastValues(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if values == nil {
		values = []model.ForecastValue{}
	}
	writeJSON(w, http.StatusOK, values)
}
