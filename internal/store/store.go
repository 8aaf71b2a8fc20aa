// Package store persists contracts, procurement and fiscal documents in Postgres.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sells-group/contract-costs/internal/model"
)

// Store defines the persistence interface for the cost-management backend.
// Missing rows surface as apperr.KindNotFound and unique violations as
// apperr.KindConflict.
type Store interface {
	// Contracts
	CreateContract(ctx context.Context, c *model.Contract) error
	GetContract(ctx context.Context, id int64) (*model.Contract, error)
	ListContracts(ctx context.Context, filter model.ContractFilter) ([]model.Contract, error)
	UpdateContract(ctx context.Context, id int64, u model.ContractUpdate) (*model.Contract, error)
	DeleteContract(ctx context.Context, id int64) error
	ListBudgetItems(ctx context.Context, contractID int64) ([]model.BudgetItem, error)
	InsertForecastValues(ctx context.Context, contractID int64, values []model.ForecastValue) (int64, error)
	ListForecastValues(ctx context.Context, contractID int64) ([]model.ForecastValue, error)

	// Financial figures
	RealizedValue(ctx context.Context, contractID int64) (decimal.Decimal, error)
	RealizedByContract(ctx context.Context, contractIDs []int64) (map[int64]decimal.Decimal, error)
	ContractFigures(ctx context.Context, contractID int64) (*model.ContractFigures, error)
	AllContractFigures(ctx context.Context) ([]model.ContractFigures, error)

	// Suppliers
	CreateSupplier(ctx context.Context, s *model.Supplier) error
	GetSupplier(ctx context.Context, id int64) (*model.Supplier, error)
	ListSuppliers(ctx context.Context, approvedOnly bool, limit, offset int) ([]model.Supplier, error)
	ApproveSupplier(ctx context.Context, id int64) (*model.Supplier, error)

	// Purchase orders and quotations
	CreatePurchaseOrder(ctx context.Context, o model.NewPurchaseOrder) (*model.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, id int64) (*model.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, filter model.OrderFilter) ([]model.PurchaseOrder, error)
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.PurchaseOrder, error)
	AddQuotation(ctx context.Context, q *model.Quotation) error
	SelectQuotation(ctx context.Context, quotationID int64) (*model.Quotation, error)

	// Invoices
	CreateInvoice(ctx context.Context, inv *model.Invoice) error
	GetInvoice(ctx context.Context, id int64) (*model.Invoice, error)
	ListInvoices(ctx context.Context, filter model.InvoiceFilter) ([]model.Invoice, error)
	InvoiceSummary(ctx context.Context, contractID int64) (*model.InvoiceSummary, error)
	PayInvoice(ctx context.Context, id int64, paidAt time.Time) (*model.Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error

	// Notas fiscais
	CreateNotaFiscal(ctx context.Context, nf *model.NotaFiscal) error
	GetNotaFiscal(ctx context.Context, id int64) (*model.NotaFiscal, error)
	ListNotasFiscais(ctx context.Context, filter model.NFFilter) ([]model.NotaFiscal, error)
	UpdateNotaFiscal(ctx context.Context, id int64, u model.NFUpdate) (*model.NotaFiscal, error)
	ValidateNotaFiscal(ctx context.Context, id int64) (*model.NotaFiscal, error)
	RejectNotaFiscal(ctx context.Context, id int64, reason string) (*model.NotaFiscal, error)
	DeleteNotaFiscal(ctx context.Context, id int64) error
	GetNFItem(ctx context.Context, id int64) (*model.NotaFiscalItem, error)
	UpdateNFItem(ctx context.Context, id int64, u model.NFItemUpdate) (*model.NotaFiscalItem, error)
	IntegrateNFItem(ctx context.Context, id, budgetItemID int64) (*model.NotaFiscalItem, error)
	SetNFItemClassification(ctx context.Context, id int64, c model.Classification) error
	ClassificationStats(ctx context.Context, since time.Time) (*model.ClassificationStats, error)

	// Cost centers and classification rules
	CreateCostCenter(ctx context.Context, cc *model.CostCenter) error
	GetCostCenter(ctx context.Context, id int64) (*model.CostCenter, error)
	GetCostCenterByCode(ctx context.Context, code string) (*model.CostCenter, error)
	ListCostCenters(ctx context.Context, activeOnly bool) ([]model.CostCenter, error)
	UpdateCostCenter(ctx context.Context, id int64, u model.CostCenterUpdate) (*model.CostCenter, error)
	UpsertCostCenters(ctx context.Context, centers []model.CostCenter) (int64, error)
	ListClassificationRules(ctx context.Context, activeOnly bool) ([]model.ClassificationRule, error)
	CreateClassificationRule(ctx context.Context, r *model.ClassificationRule) error
	UpdateClassificationRule(ctx context.Context, r *model.ClassificationRule) error
	DeleteClassificationRule(ctx context.Context, id int64) error
	UpsertClassificationRules(ctx context.Context, rules []model.ClassificationRule) (int64, error)

	// Processing logs
	StartProcessingLog(ctx context.Context, folder string, requestedBy *int64) (*model.ProcessingLog, error)
	CompleteProcessingLog(ctx context.Context, id int64, message string) error
	FailProcessingLog(ctx context.Context, id int64, detail string) error
	ListProcessingLogs(ctx context.Context, folder string, limit, offset int) ([]model.ProcessingLog, error)

	// Users
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)

	// Audit trail and attachments
	AppendAudit(ctx context.Context, entry *model.AuditLog) error
	ListAudit(ctx context.Context, ref model.EntityRef, limit int) ([]model.AuditLog, error)
	CreateAttachment(ctx context.Context, a *model.Attachment) error
	ListAttachments(ctx context.Context, ref model.EntityRef) ([]model.Attachment, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
