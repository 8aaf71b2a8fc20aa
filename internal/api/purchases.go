package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/model"
)

type supplierRequest struct {
	Name    string  `json:"name"`
	TaxID   *string `json:"tax_id,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (s *Server) handleCreateSupplier(w http.ResponseWriter, r *http.Request) {
	var in supplierRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		s.fail(w, r, apperr.Validation("supplier name is required"))
		return
	}
	sp := &model.Supplier{
		Name:    in.Name,
		TaxID:   trimmed(in.TaxID),
		Email:   trimmed(in.Email),
		Phone:   trimmed(in.Phone),
		Address: trimmed(in.Address),
	}
	if err := s.Store.CreateSupplier(r.Context(), sp); err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionCreate, model.Ref(model.EntitySupplier, sp.ID), nil, sp, "")
	writeJSON(w, http.StatusCreated, sp)
}

// trimmed drops blank optional strings.
func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func (s *Server) handleListSuppliers(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.Store.ListSuppliers(r.Context(), queryBool(r, "approved_only"), limit, offset)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if out == nil {
		out = []model.Supplier{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleApproveSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sp, err := s.Store.ApproveSupplier(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionUpdate, model.Ref(model.EntitySupplier, id), nil, sp, "supplier approved")
	writeJSON(w, http.StatusOK, sp)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var in model.NewPurchaseOrder
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validateOrder(&in); err != nil {
		s.fail(w, r, err)
		return
	}
	in.CreatedBy = currentUser(r).ID

	o, err := s.Store.CreatePurchaseOrder(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionCreate, model.Ref(model.EntityPurchaseOrder, o.ID), nil, o, "")
	writeJSON(w, http.StatusCreated, o)
}

func validateOrder(in *model.NewPurchaseOrder) error {
	in.OrderNumber = strings.TrimSpace(in.OrderNumber)
	switch {
	case in.ContractID <= 0:
		return apperr.Validation("contract_id is required")
	case in.SupplierID <= 0:
		return apperr.Validation("supplier_id is required")
	case in.OrderNumber == "":
		return apperr.Validation("order_number is required")
	case in.IssueDate.IsZero():
		return apperr.Validation("issue_date is required")
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.Description) == "" {
			return apperr.Validation("item %d: description is required", i+1)
		}
		if it.TotalValue.IsNegative() {
			return apperr.Validation("item %d: total_value must not be negative", i+1)
		}
	}
	for i, q := range in.Quotations {
		if q.SupplierID <= 0 {
			return apperr.Validation("quotation %d: supplier_id is required", i+1)
		}
		if q.TotalValue.IsNegative() {
			return apperr.Validation("quotation %d: total_value must not be negative", i+1)
		}
	}
	return nil
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
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
	status := model.OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		s.fail(w, r, apperr.Validation("invalid status %q", status))
		return
	}
	out, err := s.Store.ListPurchaseOrders(r.Context(), model.OrderFilter{
		ContractID: contractID,
		Status:     status,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if out == nil {
		out = []model.PurchaseOrder{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	o, err := s.Store.GetPurchaseOrder(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type statusRequest struct {
	Status model.OrderStatus `json:"status"`
}

func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in statusRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if !in.Status.Valid() {
		s.fail(w, r, apperr.Validation("invalid status %q", in.Status))
		return
	}
	before, err := s.Store.GetPurchaseOrder(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !before.Status.CanTransition(in.Status) {
		s.fail(w, r, apperr.Validation("cannot move order from %s to %s", before.Status, in.Status))
		return
	}
	after, err := s.Store.UpdateOrderStatus(r.Context(), id, in.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionUpdate, model.Ref(model.EntityPurchaseOrder, id),
		map[string]model.OrderStatus{"status": before.Status},
		map[string]model.OrderStatus{"status": after.Status}, "")
	writeJSON(w, http.StatusOK, after)
}

type quotationRequest struct {
	SupplierID   int64           `json:"supplier_id"`
	TotalValue   decimal.Decimal `json:"total_value"`
	DeliveryDays *int            `json:"delivery_days,omitempty"`
	PaymentTerms *string         `json:"payment_terms,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
}

func (s *Server) handleAddQuotation(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in quotationRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if in.SupplierID <= 0 {
		s.fail(w, r, apperr.Validation("supplier_id is required"))
		return
	}
	if in.TotalValue.IsNegative() {
		s.fail(w, r, apperr.Validation("total_value must not be negative"))
		return
	}
	if in.DeliveryDays != nil && *in.DeliveryDays < 0 {
		s.fail(w, r, apperr.Validation("delivery_days must not be negative"))
		return
	}
	if _, err := s.Store.GetPurchaseOrder(r.Context(), orderID); err != nil {
		s.fail(w, r, err)
		return
	}
	q := &model.Quotation{
		PurchaseOrderID: orderID,
		SupplierID:      in.SupplierID,
		TotalValue:      in.TotalValue,
		DeliveryDays:    in.DeliveryDays,
		PaymentTerms:    trimmed(in.PaymentTerms),
		Notes:           trimmed(in.Notes),
	}
	if err := s.Store.AddQuotation(r.Context(), q); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) handleSelectQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q, err := s.Store.SelectQuotation(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionUpdate, model.Ref(model.EntityQuotation, id), nil, q, "quotation selected")
	writeJSON(w, http.StatusOK, q)
}

type invoiceRequest struct {
	ContractID      *int64              `json:"contract_id,omitempty"`
	PurchaseOrderID *int64              `json:"purchase_order_id,omitempty"`
	InvoiceNumber   string              `json:"invoice_number"`
	SupplierName    *string             `json:"supplier_name,omitempty"`
	TotalValue      decimal.Decimal     `json:"total_value"`
	IssueDate       time.Time           `json:"issue_date"`
	DueDate         *time.Time          `json:"due_date,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
	Items           []model.InvoiceItem `json:"items"`
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var in invoiceRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	in.InvoiceNumber = strings.TrimSpace(in.InvoiceNumber)
	switch {
	case in.InvoiceNumber == "":
		s.fail(w, r, apperr.Validation("invoice_number is required"))
		return
	case in.IssueDate.IsZero():
		s.fail(w, r, apperr.Validation("issue_date is required"))
		return
	case in.TotalValue.IsNegative():
		s.fail(w, r, apperr.Validation("total_value must not be negative"))
		return
	}
	for i, it := range in.Items {
		if !it.Reconciles() {
			s.fail(w, r, apperr.Validation("item %d: quantity times unit value does not match total", i+1))
			return
		}
	}

	inv := &model.Invoice{
		Link:          model.InvoiceLinkFromRefs(in.ContractID, in.PurchaseOrderID),
		InvoiceNumber: in.InvoiceNumber,
		SupplierName:  trimmed(in.SupplierName),
		TotalValue:    in.TotalValue,
		IssueDate:     in.IssueDate,
		DueDate:       in.DueDate,
		Notes:         trimmed(in.Notes),
		Items:         in.Items,
	}
	if err := s.Store.CreateInvoice(r.Context(), inv); err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionCreate, model.Ref(model.EntityInvoice, inv.ID), nil, inv, "")
	writeJSON(w, http.StatusCreated, inv)
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
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
	s.listInvoices(w, r, model.InvoiceFilter{ContractID: contractID, Limit: limit, Offset: offset})
}

func (s *Server) listInvoices(w http.ResponseWriter, r *http.Request, f model.InvoiceFilter) {
	out, err := s.Store.ListInvoices(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if out == nil {
		out = []model.Invoice{}
	}
	writeJSON(w, http.StatusOK, out)
}

type payRequest struct {
	PaymentDate *time.Time `json:"payment_date,omitempty"`
}

// handlePayInvoice sets the payment date, today when the body omits it.
func (s *Server) handlePayInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in payRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(w, r, &in); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	paidAt := time.Now().UTC()
	if in.PaymentDate != nil {
		paidAt = *in.PaymentDate
	}
	inv, err := s.Store.PayInvoice(r.Context(), id, paidAt)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.audit(r, model.ActionUpdate, model.Ref(model.EntityInvoice, id), nil, inv, "invoice paid")
	writeJSON(w, http.StatusOK, inv)
}
