package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// NFStatus is the processing state of a nota fiscal.
type NFStatus string

const (
	NFProcessed NFStatus = "processed"
	NFValidated NFStatus = "validated"
	NFError     NFStatus = "error"
)

// Valid reports whether s is a known NF status.
func (s NFStatus) Valid() bool {
	return s == NFProcessed || s == NFValidated || s == NFError
}

// ClassificationSource records who assigned an item's cost center.
type ClassificationSource string

const (
	SourceAI     ClassificationSource = "ai"
	SourceManual ClassificationSource = "manual"
	SourceAuto   ClassificationSource = "auto"
)

// IntegrationStatus tracks whether an NF item was matched to the budget.
type IntegrationStatus string

const (
	IntegrationPending    IntegrationStatus = "pending"
	IntegrationIntegrated IntegrationStatus = "integrated"
	IntegrationError      IntegrationStatus = "error"
)

// AccessKeyLen is the length of an NFe access key.
const AccessKeyLen = 44

// NotaFiscal is the canonical, deduplicated fiscal invoice record.
type NotaFiscal struct {
	ID              int64            `json:"id"`
	Number          string           `json:"number"`
	Series          string           `json:"series"`
	AccessKey       *string          `json:"access_key,omitempty"`
	SupplierTaxID   string           `json:"supplier_tax_id"`
	SupplierName    string           `json:"supplier_name"`
	TotalValue      decimal.Decimal  `json:"total_value"`
	GoodsValue      *decimal.Decimal `json:"goods_value,omitempty"`
	TaxValue        *decimal.Decimal `json:"tax_value,omitempty"`
	FreightValue    *decimal.Decimal `json:"freight_value,omitempty"`
	IssueDate       time.Time        `json:"issue_date"`
	EntryDate       *time.Time       `json:"entry_date,omitempty"`
	SourceFolder    string           `json:"source_folder"`
	SourceSubfolder *string          `json:"source_subfolder,omitempty"`
	Status          NFStatus         `json:"status"`
	Notes           *string          `json:"notes,omitempty"`
	ContractID      *int64           `json:"contract_id,omitempty"`
	PurchaseOrderID *int64           `json:"purchase_order_id,omitempty"`
	IngestedAt      *time.Time       `json:"ingested_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       *time.Time       `json:"updated_at,omitempty"`
	Items           []NotaFiscalItem `json:"items,omitempty"`
}

// NotaFiscalItem is one product/service line of a nota fiscal.
type NotaFiscalItem struct {
	ID                   int64                 `json:"id"`
	NotaFiscalID         int64                 `json:"nota_fiscal_id"`
	Sequence             int                   `json:"sequence"`
	ProductCode          *string               `json:"product_code,omitempty"`
	Description          string                `json:"description"`
	NCM                  *string               `json:"ncm,omitempty"`
	Quantity             decimal.Decimal       `json:"quantity"`
	Unit                 string                `json:"unit"`
	UnitValue            decimal.Decimal       `json:"unit_value"`
	TotalValue           decimal.Decimal       `json:"total_value"`
	NetWeight            *decimal.Decimal      `json:"net_weight,omitempty"`
	GrossWeight          *decimal.Decimal      `json:"gross_weight,omitempty"`
	CostCenterID         *int64                `json:"cost_center_id,omitempty"`
	BudgetItemID         *int64                `json:"budget_item_id,omitempty"`
	ClassificationScore  *decimal.Decimal      `json:"classification_score,omitempty"`
	ClassificationSource *ClassificationSource `json:"classification_source,omitempty"`
	IntegrationStatus    IntegrationStatus     `json:"integration_status"`
	IntegratedAt         *time.Time            `json:"integrated_at,omitempty"`
	UpdatedAt            *time.Time            `json:"updated_at,omitempty"`
}

// NFUpdate carries the mutable header fields of a nota fiscal.
type NFUpdate struct {
	Notes           *string    `json:"notes,omitempty"`
	EntryDate       *time.Time `json:"entry_date,omitempty"`
	ContractID      *int64     `json:"contract_id,omitempty"`
	PurchaseOrderID *int64     `json:"purchase_order_id,omitempty"`
	SourceSubfolder *string    `json:"source_subfolder,omitempty"`
}

// NFItemUpdate carries the mutable fields of a nota fiscal item.
type NFItemUpdate struct {
	CostCenterID      *int64             `json:"cost_center_id,omitempty"`
	BudgetItemID      *int64             `json:"budget_item_id,omitempty"`
	IntegrationStatus *IntegrationStatus `json:"integration_status,omitempty"`
	NetWeight         *decimal.Decimal   `json:"net_weight,omitempty"`
	GrossWeight       *decimal.Decimal   `json:"gross_weight,omitempty"`
}

// Classification is the persisted outcome of classifying an NF item.
type Classification struct {
	CostCenterID int64
	Score        decimal.Decimal
	Source       ClassificationSource
}

// NFFilter narrows nota fiscal listings.
type NFFilter struct {
	Status     string
	Supplier   string
	ContractID *int64
	Folder     string
	Limit      int
	Offset     int
}

// ProcessingStatus is the state of a folder-ingestion trigger.
type ProcessingStatus string

const (
	ProcessingStarted     ProcessingStatus = "started"
	ProcessingWebhookSent ProcessingStatus = "webhook_sent"
	ProcessingError       ProcessingStatus = "error"
)

// ProcessingLog audits one folder-ingestion trigger.
type ProcessingLog struct {
	ID               int64            `json:"id"`
	FolderName       string           `json:"folder_name"`
	WebhookInvokedAt time.Time        `json:"webhook_invoked_at"`
	Status           ProcessingStatus `json:"status"`
	FileCount        *int             `json:"file_count,omitempty"`
	NFCount          *int             `json:"nf_count,omitempty"`
	Message          *string          `json:"message,omitempty"`
	ErrorDetail      *string          `json:"error_detail,omitempty"`
	RequestedBy      *int64           `json:"requested_by,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        *time.Time       `json:"updated_at,omitempty"`
}
