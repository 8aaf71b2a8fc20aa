package api

import (
	"net/http"

	"github.com/sells-group/contract-costs/internal/model"
)

func (s *Server) handleUploadZip(w http.ResponseWriter, r *http.Request) {
	contractID, err := pathID(r, "contractID")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.parseMultipart(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	file, err := formFile(r, "file")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.Store.GetContract(r.Context(), contractID); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.Importer.ImportZip(r.Context(), contractID, file, &currentUser(r).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleContractInvoices(w http.ResponseWriter, r *http.Request) {
	contractID, err := pathID(r, "contractID")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	limit, offset, err := page(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.listInvoices(w, r, model.InvoiceFilter{ContractID: &contractID, Limit: limit, Offset: offset})
}

func (s *Server) handleInvoiceSummary(w http.ResponseWriter, r *http.Request) {
	contractID, err := pathID(r, "contractID")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sum, err := s.Store.InvoiceSummary(r.Context(), contractID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if sum.Recent == nil {
		sum.Recent = []model.Invoice{}
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleInvoiceItems(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	inv, err := s.Store.GetInvoice(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	items := inv.Items
	if items == nil {
		items = []model.InvoiceItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.Store.DeleteInvoice(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionDelete, model.Ref(model.EntityInvoice, id), nil, nil, "")
	writeJSON(w, http.StatusOK, map[string]string{"message": "invoice deleted"})
}
