// Package importer turns budget spreadsheets, NFe XML files, invoice sheets
// and ZIP bundles into contracts, invoices and notas fiscais.
package importer

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/attach"
	"github.com/sells-group/contract-costs/internal/classify"
	"github.com/sells-group/contract-costs/internal/config"
	"github.com/sells-group/contract-costs/internal/model"
)

// Store is the persistence the importers write through.
type Store interface {
	CreateContract(ctx context.Context, c *model.Contract) error
	GetContract(ctx context.Context, id int64) (*model.Contract, error)
	DeleteContract(ctx context.Context, id int64) error
	InsertForecastValues(ctx context.Context, contractID int64, values []model.ForecastValue) (int64, error)
	ListPurchaseOrders(ctx context.Context, filter model.OrderFilter) ([]model.PurchaseOrder, error)
	CreateInvoice(ctx context.Context, inv *model.Invoice) error
	CreateNotaFiscal(ctx context.Context, nf *model.NotaFiscal) error
	GetCostCenterByCode(ctx context.Context, code string) (*model.CostCenter, error)
}

// RuleSource yields the active classification table.
type RuleSource interface {
	Table(ctx context.Context) (classify.Table, error)
}

// File is an uploaded file held in memory.
type File struct {
	Name string
	Data []byte
}

// Ext returns the lower-cased extension of the file name.
func (f File) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// Service runs imports against the store.
type Service struct {
	store   Store
	rules   RuleSource
	files   *attach.Service
	buckets *classify.BucketClassifier
	layout  Layout
	tempDir string
	now     func() time.Time
	randN   func(n int) int
	log     *zap.Logger
}

// NewService creates an import service.
func NewService(st Store, rules RuleSource, files *attach.Service, cfg config.ImportConfig) *Service {
	return &Service{
		store:   st,
		rules:   rules,
		files:   files,
		buckets: classify.NewBucketClassifier(),
		layout:  cfg.Budget,
		tempDir: cfg.TempDir,
		now:     time.Now,
		randN:   rand.IntN,
		log:     zap.L().With(zap.String("component", "importer")),
	}
}

// Buckets exposes the invoice item bucket classifier.
func (s *Service) Buckets() *classify.BucketClassifier { return s.buckets }

func isExcel(ext string) bool {
	return ext == ".xlsx" || ext == ".xlsm"
}

// errLegacyExcel is returned for .xls uploads; only OOXML workbooks can be read.
var errLegacyExcel = apperr.Validation("legacy .xls workbooks are not supported; save the file as .xlsx")

func strPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
