package api

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/importer"
	"github.com/sells-group/contract-costs/internal/model"
)

func (s *Server) handleValidateFile(w http.ResponseWriter, r *http.Request) {
	if err := s.parseMultipart(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	file, err := formFile(r, "file")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	info, err := importer.ValidateFile(file.Name, bytes.NewReader(file.Data))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// formInt64 parses an optional positive integer form field.
func formInt64(r *http.Request, field string) (*int64, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, apperr.Validation("invalid %s %q", field, raw)
	}
	return &v, nil
}

func (s *Server) handleImportBudget(w http.ResponseWriter, r *http.Request) {
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
	res, err := s.Importer.ImportBudget(r.Context(), file, contractID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if contractID != nil {
		s.audit(r, model.ActionUpdate, model.Ref(model.EntityContract, *contractID), nil, nil,
			"budget imported from "+file.Name)
	}
	writeJSON(w, http.StatusOK, res)
}

// handleImportInvoiceXML links the invoice to the order, the contract or
// both, depending on which form fields are present.
func (s *Server) handleImportInvoiceXML(w http.ResponseWriter, r *http.Request) {
	if err := s.parseMultipart(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	orderID, err := formInt64(r, "order_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	contractID, err := formInt64(r, "contract_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	link := model.InvoiceLinkFromRefs(contractID, orderID)
	if link.Kind() == model.LinkNone {
		s.fail(w, r, apperr.Validation("order_id or contract_id is required"))
		return
	}
	file, err := formFile(r, "file")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.Importer.ImportInvoiceXML(r.Context(), link, file)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleImportInvoiceSheet(w http.ResponseWriter, r *http.Request) {
	if err := s.parseMultipart(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	orderID, err := formInt64(r, "purchase_order_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if orderID == nil {
		s.fail(w, r, apperr.Validation("purchase_order_id is required"))
		return
	}
	skip := 0
	if raw := strings.TrimSpace(r.FormValue("skip_rows")); raw != "" {
		if skip, err = strconv.Atoi(raw); err != nil || skip < 0 {
			s.fail(w, r, apperr.Validation("invalid skip_rows %q", raw))
			return
		}
	}
	file, err := formFile(r, "file")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.Importer.ImportInvoiceSheet(r.Context(), *orderID, file, strings.TrimSpace(r.FormValue("sheet_name")), skip)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type bucketSuggestions struct {
	Description *string            `json:"description,omitempty"`
	Suggested   *string            `json:"suggested,omitempty"`
	Buckets     []string           `json:"buckets"`
	CostCenters []model.CostCenter `json:"cost_centers"`
}

func (s *Server) handleBucketSuggestions(w http.ResponseWriter, r *http.Request) {
	centers, err := s.Store.ListCostCenters(r.Context(), true)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if centers == nil {
		centers = []model.CostCenter{}
	}
	out := bucketSuggestions{
		Buckets:     s.Importer.Buckets().Labels(),
		CostCenters: centers,
	}
	if desc := strings.TrimSpace(r.URL.Query().Get("description")); desc != "" {
		label := s.Importer.Buckets().Label(desc)
		out.Description = &desc
		out.Suggested = &label
	}
	writeJSON(w, http.StatusOK, out)
}

type bulkFilesResult struct {
	ContractID int64                 `json:"contract_id"`
	Succeeded  int                   `json:"succeeded"`
	Failed     int                   `json:"failed"`
	Results    []importer.FileResult `json:"results"`
}

func (s *Server) handleBulkInvoices(w http.ResponseWriter, r *http.Request) {
	if err := s.parseMultipart(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	contractID, err := formInt64(r, "contract_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if contractID == nil {
		s.fail(w, r, apperr.Validation("contract_id is required"))
		return
	}
	files, err := formFiles(r, "files")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	results, err := s.Importer.ImportFiles(r.Context(), *contractID, files)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := bulkFilesResult{ContractID: *contractID, Results: results}
	for _, fr := range results {
		if fr.Success {
			out.Succeeded++
		} else {
			out.Failed++
		}
	}
	writeJSON(w, http.StatusOK, out)
}
