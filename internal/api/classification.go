package api

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/classify"
	"github.com/sells-group/contract-costs/internal/model"
)

// handleListCostCenters pages in memory; the table holds a few dozen rows.
func (s *Server) handleListCostCenters(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	activeOnly := true
	if v := r.URL.Query().Get("active_only"); v != "" {
		activeOnly = queryBool(r, "active_only")
	}
	centers, err := s.Store.ListCostCenters(r.Context(), activeOnly)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, window(centers, limit, offset))
}

func window[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := min(offset+limit, len(all))
	return all[offset:end]
}

type costCenterRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (s *Server) handleCreateCostCenter(w http.ResponseWriter, r *http.Request) {
	var in costCenterRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	cc := &model.CostCenter{
		Code:        strings.ToLower(strings.TrimSpace(in.Code)),
		Name:        strings.TrimSpace(in.Name),
		Description: trimmed(in.Description),
		Active:      true,
	}
	if cc.Code == "" || cc.Name == "" {
		s.fail(w, r, apperr.Validation("code and name are required"))
		return
	}
	if err := s.Store.CreateCostCenter(r.Context(), cc); err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionCreate, model.Ref(model.EntityCostCenter, cc.ID), nil, cc, "")
	writeJSON(w, http.StatusCreated, cc)
}

func (s *Server) handleUpdateCostCenter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var u model.CostCenterUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		s.fail(w, r, err)
		return
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		s.fail(w, r, apperr.Validation("name must not be empty"))
		return
	}
	cc, err := s.Store.UpdateCostCenter(r.Context(), id, u)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionUpdate, model.Ref(model.EntityCostCenter, id), nil, u, "")
	writeJSON(w, http.StatusOK, cc)
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.Store.ListClassificationRules(r.Context(), queryBool(r, "active_only"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if rules == nil {
		rules = []model.ClassificationRule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

type ruleRequest struct {
	Name           string   `json:"name"`
	CostCenterCode string   `json:"cost_center_code"`
	Keywords       []string `json:"keywords"`
	Priority       int      `json:"priority"`
	Active         *bool    `json:"active,omitempty"`
}

// rule validates the request and checks that the cost center exists.
func (s *Server) rule(r *http.Request, in ruleRequest) (*model.ClassificationRule, error) {
	rule := &model.ClassificationRule{
		Name:           strings.TrimSpace(in.Name),
		CostCenterCode: strings.TrimSpace(in.CostCenterCode),
		Priority:       in.Priority,
		Active:         in.Active == nil || *in.Active,
	}
	if rule.Name == "" || rule.CostCenterCode == "" {
		return nil, apperr.Validation("name and cost_center_code are required")
	}
	for _, kw := range in.Keywords {
		if kw = classify.Fold(strings.TrimSpace(kw)); kw != "" {
			rule.Keywords = append(rule.Keywords, kw)
		}
	}
	if len(rule.Keywords) == 0 {
		return nil, apperr.Validation("at least one keyword is required")
	}
	if _, err := s.Store.GetCostCenterByCode(r.Context(), rule.CostCenterCode); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Validation("unknown cost center %q", rule.CostCenterCode)
		}
		return nil, err
	}
	return rule, nil
}

func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var in ruleRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	rule, err := s.rule(r, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.Store.CreateClassificationRule(r.Context(), rule); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in ruleRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	rule, err := s.rule(r, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rule.ID = id
	if err := s.Store.UpdateClassificationRule(r.Context(), rule); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.Store.DeleteClassificationRule(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "rule deleted"})
}

func (s *Server) handleClassificationStats(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "period_days", 30)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.Classify.Stats(r.Context(), days)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if st.ByCostCenter == nil {
		st.ByCostCenter = []model.CostCenterUsage{}
	}
	writeJSON(w, http.StatusOK, st)
}

type batchRequest struct {
	Items     []classify.ItemInput `json:"items"`
	AutoApply bool                 `json:"auto_apply"`
}

const maxBatch = 500

func (s *Server) handleBatchClassify(w http.ResponseWriter, r *http.Request) {
	var in batchRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if len(in.Items) == 0 {
		s.fail(w, r, apperr.Validation("items are required"))
		return
	}
	if len(in.Items) > maxBatch {
		s.fail(w, r, apperr.Validation("at most %d items per request", maxBatch))
		return
	}
	out, err := s.Classify.Suggest(r.Context(), in.Items, in.AutoApply)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type manualRequest struct {
	CostCenterID int64            `json:"cost_center_id"`
	Score        *decimal.Decimal `json:"score,omitempty"`
}

func (s *Server) handleManualClassify(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in manualRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if in.CostCenterID <= 0 {
		s.fail(w, r, apperr.Validation("cost_center_id is required"))
		return
	}
	res, err := s.Classify.ManualClassify(r.Context(), id, in.CostCenterID, in.Score)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
