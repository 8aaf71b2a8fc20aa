package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/finance"
	"github.com/sells-group/contract-costs/internal/model"
)

func (s *Server) handleListNF(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	contractID, err := queryInt64(r, "contract_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	status := strings.TrimSpace(q.Get("status"))
	if status != "" && !model.NFStatus(status).Valid() {
		s.fail(w, r, apperr.Validation("invalid status %q", status))
		return
	}
	s.listNF(w, r, model.NFFilter{
		Status:     status,
		Supplier:   strings.TrimSpace(q.Get("supplier")),
		ContractID: contractID,
		Folder:     strings.TrimSpace(q.Get("folder")),
		Limit:      limit,
		Offset:     offset,
	})
}

func (s *Server) listNF(w http.ResponseWriter, r *http.Request, f model.NFFilter) {
	out, err := s.Store.ListNotasFiscais(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if out == nil {
		out = []model.NotaFiscal{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleNFByFolder(w http.ResponseWriter, r *http.Request) {
	folder := strings.TrimSpace(chi.URLParam(r, "folder"))
	if folder == "" {
		s.fail(w, r, apperr.Validation("folder is required"))
		return
	}
	limit, offset, err := page(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.listNF(w, r, model.NFFilter{Folder: folder, Limit: limit, Offset: offset})
}

func (s *Server) handleNFStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.Dashboard.NFStats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleProcessingLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logs, err := s.Webhook.Logs(r.Context(), strings.TrimSpace(r.URL.Query().Get("folder")), limit, offset)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if logs == nil {
		logs = []model.ProcessingLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

type realizedValue struct {
	ContractID      int64           `json:"contract_id"`
	ContractNumber  string          `json:"contract_number"`
	OriginalValue   decimal.Decimal `json:"original_value"`
	Realized        decimal.Decimal `json:"realized_value"`
	Balance         decimal.Decimal `json:"balance"`
	PercentRealized decimal.Decimal `json:"percent_realized"`
}

// handleRealizedValue reports what the contract's validated notas fiscais
// add up to against its original value.
func (s *Server) handleRealizedValue(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "contractID")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.Store.GetContract(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	realized, err := s.engine.RealizedValue(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, realizedValue{
		ContractID:      c.ID,
		ContractNumber:  c.ContractNumber,
		OriginalValue:   c.OriginalValue,
		Realized:        realized,
		Balance:         finance.Balance(c.OriginalValue, realized),
		PercentRealized: finance.PercentRealized(realized, c.OriginalValue),
	})
}

type processFolderRequest struct {
	Folder string `json:"nome_pasta"`
}

func (s *Server) handleProcessFolder(w http.ResponseWriter, r *http.Request) {
	var in processFolderRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.Webhook.ProcessFolder(r.Context(), in.Folder, currentUser(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleImportNF(w http.ResponseWriter, r *http.Request) {
	if err := s.parseMultipart(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	contractID, err := formInt64(r, "contract_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	file, err := formFile(r, "file")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	nf, err := s.Importer.ImportNotaFiscalXML(r.Context(), file, r.FormValue("folder"), contractID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionCreate, model.Ref(model.EntityNotaFiscal, nf.ID), nil, nil, "imported from "+file.Name)
	writeJSON(w, http.StatusCreated, nf)
}

func (s *Server) handleGetNF(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	nf, err := s.Store.GetNotaFiscal(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if nf.Items == nil {
		nf.Items = []model.NotaFiscalItem{}
	}
	writeJSON(w, http.StatusOK, nf)
}

func (s *Server) handleUpdateNF(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var u model.NFUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		s.fail(w, r, err)
		return
	}
	nf, err := s.Store.UpdateNotaFiscal(r.Context(), id, u)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionUpdate, model.Ref(model.EntityNotaFiscal, id), nil, u, "")
	writeJSON(w, http.StatusOK, nf)
}

// handleValidateNF makes the nota fiscal count toward realized value.
func (s *Server) handleValidateNF(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	before, err := s.Store.GetNotaFiscal(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if before.Status == model.NFValidated {
		s.fail(w, r, apperr.Validation("nota fiscal %d is already validated", id))
		return
	}
	nf, err := s.Store.ValidateNotaFiscal(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionUpdate, model.Ref(model.EntityNotaFiscal, id),
		map[string]model.NFStatus{"status": before.Status},
		map[string]model.NFStatus{"status": nf.Status}, "nota fiscal validated")
	writeJSON(w, http.StatusOK, nf)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleRejectNF(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in rejectRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	in.Reason = strings.TrimSpace(in.Reason)
	if in.Reason == "" {
		s.fail(w, r, apperr.Validation("reason is required"))
		return
	}
	nf, err := s.Store.RejectNotaFiscal(r.Context(), id, in.Reason)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionUpdate, model.Ref(model.EntityNotaFiscal, id), nil,
		map[string]model.NFStatus{"status": nf.Status}, "rejected: "+in.Reason)
	writeJSON(w, http.StatusOK, nf)
}

func (s *Server) handleDeleteNF(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.Store.DeleteNotaFiscal(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionDelete, model.Ref(model.EntityNotaFiscal, id), nil, nil, "")
	writeJSON(w, http.StatusOK, map[string]string{"message": "nota fiscal deleted"})
}

func (s *Server) handleUpdateNFItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var u model.NFItemUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		s.fail(w, r, err)
		return
	}
	if st := u.IntegrationStatus; st != nil {
		switch *st {
		case model.IntegrationPending, model.IntegrationIntegrated, model.IntegrationError:
		default:
			s.fail(w, r, apperr.Validation("invalid integration_status %q", *st))
			return
		}
	}
	if u.CostCenterID != nil {
		if _, err := s.Store.GetCostCenter(r.Context(), *u.CostCenterID); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	it, err := s.Store.UpdateNFItem(r.Context(), id, u)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

type integrateRequest struct {
	BudgetItemID int64 `json:"budget_item_id"`
}

func (s *Server) handleIntegrateNFItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in integrateRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if in.BudgetItemID <= 0 {
		s.fail(w, r, apperr.Validation("budget_item_id is required"))
		return
	}
	it, err := s.Store.IntegrateNFItem(r.Context(), id, in.BudgetItemID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleClassifyNFItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.Classify.ClassifyNFItem(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
