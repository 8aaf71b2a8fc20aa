package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a purchase order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderApproved  OrderStatus = "approved"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderApproved, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from s to next.
// Delivered and cancelled orders are terminal.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderApproved || next == OrderCancelled
	case OrderApproved:
		return next == OrderDelivered || next == OrderCancelled
	}
	return false
}

// Supplier is a vendor that can quote and fulfil purchase orders.
type Supplier struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	TaxID     *string    `json:"tax_id,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	Address   *string    `json:"address,omitempty"`
	Approved  bool       `json:"approved"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// PurchaseOrder is an order placed against a contract with one supplier.
type PurchaseOrder struct {
	ID                     int64           `json:"id"`
	ContractID             int64           `json:"contract_id"`
	SupplierID             int64           `json:"supplier_id"`
	OrderNumber            string          `json:"order_number"`
	TotalValue             decimal.Decimal `json:"total_value"`
	IssueDate              time.Time       `json:"issue_date"`
	ExpectedDeliveryDate   *time.Time      `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate     *time.Time      `json:"actual_delivery_date,omitempty"`
	Status                 OrderStatus     `json:"status"`
	Notes                  *string         `json:"notes,omitempty"`
	SelectionJustification *string         `json:"selection_justification,omitempty"`
	CreatedBy              int64           `json:"created_by"`
	CreatedAt              time.Time       `json:"created_at"`

	Supplier   *Supplier           `json:"supplier,omitempty"`
	Items      []PurchaseOrderItem `json:"items,omitempty"`
	Quotations []Quotation         `json:"quotations,omitempty"`
}

// PurchaseOrderItem is one line of a purchase order.
type PurchaseOrderItem struct {
	ID              int64            `json:"id"`
	PurchaseOrderID int64            `json:"purchase_order_id"`
	BudgetItemID    *int64           `json:"budget_item_id,omitempty"`
	Description     string           `json:"description"`
	CostCenterLabel string           `json:"cost_center_label"`
	Unit            *string          `json:"unit,omitempty"`
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	Weight          *decimal.Decimal `json:"weight,omitempty"`
	UnitValue       *decimal.Decimal `json:"unit_value,omitempty"`
	TotalValue      decimal.Decimal  `json:"total_value"`
	NormalHours     *decimal.Decimal `json:"normal_hours,omitempty"`
	OvertimeHours   *decimal.Decimal `json:"overtime_hours,omitempty"`
	Wage            *decimal.Decimal `json:"wage,omitempty"`
}

// Quotation is a supplier's offer against a purchase order.
type Quotation struct {
	ID              int64           `json:"id"`
	PurchaseOrderID int64           `json:"purchase_order_id"`
	SupplierID      int64           `json:"supplier_id"`
	TotalValue      decimal.Decimal `json:"total_value"`
	DeliveryDays    *int            `json:"delivery_days,omitempty"`
	PaymentTerms    *string         `json:"payment_terms,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	IsSelected      bool            `json:"is_selected"`
	QuotedAt        time.Time       `json:"quoted_at"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewPurchaseOrder is the input for creating an order with its lines and quotations.
type NewPurchaseOrder struct {
	ContractID             int64               `json:"contract_id"`
	SupplierID             int64               `json:"supplier_id"`
	OrderNumber            string              `json:"order_number"`
	IssueDate              time.Time           `json:"issue_date"`
	ExpectedDeliveryDate   *time.Time          `json:"expected_delivery_date,omitempty"`
	Notes                  *string             `json:"notes,omitempty"`
	SelectionJustification *string             `json:"selection_justification,omitempty"`
	Items                  []PurchaseOrderItem `json:"items"`
	Quotations             []Quotation         `json:"quotations"`
	CreatedBy              int64               `json:"-"`
}

// Total sums the line totals of the order.
func (o NewPurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.TotalValue)
	}
	return total
}

// OrderFilter narrows purchase order listings.
type OrderFilter struct {
	ContractID *int64
	Status     OrderStatus
	Limit      int
	Offset     int
}
