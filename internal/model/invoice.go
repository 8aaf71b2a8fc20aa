package model

import (
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// LinkKind says how an invoice is attached to the contract tree.
type LinkKind int

const (
	// LinkNone marks legacy rows that were never attached.
	LinkNone LinkKind = iota
	// LinkContract attaches the invoice directly to a contract.
	LinkContract
	// LinkPurchaseOrder attaches the invoice through a purchase order.
	LinkPurchaseOrder
	// LinkBoth carries both references.
	LinkBoth
)

var linkKindNames = map[LinkKind]string{
	LinkNone:          "none",
	LinkContract:      "contract",
	LinkPurchaseOrder: "purchase_order",
	LinkBoth:          "both",
}

func (k LinkKind) String() string {
	if s, ok := linkKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// InvoiceLink is the association of an invoice with a contract, a purchase
// order, or both. The zero value is LinkNone.
type InvoiceLink struct {
	kind       LinkKind
	contractID int64
	orderID    int64
}

// LinkToContract links an invoice directly to a contract.
func LinkToContract(contractID int64) InvoiceLink {
	return InvoiceLink{kind: LinkContract, contractID: contractID}
}

// LinkToOrder links an invoice through a purchase order.
func LinkToOrder(orderID int64) InvoiceLink {
	return InvoiceLink{kind: LinkPurchaseOrder, orderID: orderID}
}

// LinkToBoth links an invoice to a contract and one of its purchase orders.
func LinkToBoth(contractID, orderID int64) InvoiceLink {
	return InvoiceLink{kind: LinkBoth, contractID: contractID, orderID: orderID}
}

// InvoiceLinkFromRefs builds a link from the two nullable columns.
func InvoiceLinkFromRefs(contractID, orderID *int64) InvoiceLink {
	switch {
	case contractID != nil && orderID != nil:
		return LinkToBoth(*contractID, *orderID)
	case contractID != nil:
		return LinkToContract(*contractID)
	case orderID != nil:
		return LinkToOrder(*orderID)
	}
	return InvoiceLink{}
}

// Kind returns the link variant.
func (l InvoiceLink) Kind() LinkKind { return l.kind }

// ContractID returns the direct contract reference, if any.
func (l InvoiceLink) ContractID() (int64, bool) {
	if l.kind == LinkContract || l.kind == LinkBoth {
		return l.contractID, true
	}
	return 0, false
}

// OrderID returns the purchase order reference, if any.
func (l InvoiceLink) OrderID() (int64, bool) {
	if l.kind == LinkPurchaseOrder || l.kind == LinkBoth {
		return l.orderID, true
	}
	return 0, false
}

// Refs returns the nullable column values for persistence.
func (l InvoiceLink) Refs() (contractID, orderID *int64) {
	if id, ok := l.ContractID(); ok {
		contractID = &id
	}
	if id, ok := l.OrderID(); ok {
		orderID = &id
	}
	return contractID, orderID
}

type invoiceLinkJSON struct {
	Kind            string `json:"kind"`
	ContractID      *int64 `json:"contract_id,omitempty"`
	PurchaseOrderID *int64 `json:"purchase_order_id,omitempty"`
}

// MarshalJSON renders the link with an explicit kind tag.
func (l InvoiceLink) MarshalJSON() ([]byte, error) {
	c, o := l.Refs()
	return json.Marshal(invoiceLinkJSON{Kind: l.kind.String(), ContractID: c, PurchaseOrderID: o})
}

// UnmarshalJSON accepts either an explicit kind or just the references.
func (l *InvoiceLink) UnmarshalJSON(data []byte) error {
	var raw invoiceLinkJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return eris.Wrap(err, "invoice link: decode")
	}
	link := InvoiceLinkFromRefs(raw.ContractID, raw.PurchaseOrderID)
	if raw.Kind != "" && raw.Kind != link.kind.String() {
		return eris.Errorf("invoice link: kind %q does not match references", raw.Kind)
	}
	*l = link
	return nil
}

// Invoice is a supplier invoice recorded by the application.
type Invoice struct {
	ID            int64           `json:"id"`
	Link          InvoiceLink     `json:"link"`
	InvoiceNumber string          `json:"invoice_number"`
	SupplierName  *string         `json:"supplier_name,omitempty"`
	TotalValue    decimal.Decimal `json:"total_value"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	SourceFile    *string         `json:"source_file,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	ItemsCount    int             `json:"items_count"`
	Items         []InvoiceItem   `json:"items,omitempty"`
}

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	ID                      int64            `json:"id"`
	InvoiceID               int64            `json:"invoice_id"`
	Description             string           `json:"description"`
	CostCenterLabel         string           `json:"cost_center_label"`
	Unit                    *string          `json:"unit,omitempty"`
	Quantity                *decimal.Decimal `json:"quantity,omitempty"`
	Weight                  *decimal.Decimal `json:"weight,omitempty"`
	UnitValue               *decimal.Decimal `json:"unit_value,omitempty"`
	TotalValue              decimal.Decimal  `json:"total_value"`
	DivergentWeight         *decimal.Decimal `json:"divergent_weight,omitempty"`
	DivergentValue          *decimal.Decimal `json:"divergent_value,omitempty"`
	DivergenceJustification *string          `json:"divergence_justification,omitempty"`
}

// Reconciles reports whether quantity × unit value equals the line total,
// to the cent. Lines without quantity or unit value are not checked.
func (it InvoiceItem) Reconciles() bool {
	if it.Quantity == nil || it.UnitValue == nil {
		return true
	}
	return it.Quantity.Mul(*it.UnitValue).Round(2).Equal(it.TotalValue.Round(2))
}

// InvoiceFilter narrows invoice listings. ContractID matches invoices linked
// directly or through one of the contract's orders.
type InvoiceFilter struct {
	ContractID *int64
	Limit      int
	Offset     int
}

// InvoiceSummary aggregates a contract's invoices.
type InvoiceSummary struct {
	TotalInvoices int             `json:"total_invoices"`
	TotalValue    decimal.Decimal `json:"total_value"`
	Recent        []Invoice       `json:"recent_invoices"`
}
