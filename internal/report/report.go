// Package report builds the analytical, synthetic and contract balance
// reports and renders them as JSON, PDF or Excel files.
package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/config"
	"github.com/sells-group/contract-costs/internal/db"
	"github.com/sells-group/contract-costs/internal/finance"
	"github.com/sells-group/contract-costs/internal/model"
)

// Type is a report kind.
type Type string

const (
	TypeAnalytical Type = "analitico"
	TypeSynthetic  Type = "sintetico"
	TypeBalance    Type = "conta_corrente"
)

// Valid reports whether t is a known report type.
func (t Type) Valid() bool {
	return t == TypeAnalytical || t == TypeSynthetic || t == TypeBalance
}

// Format is a report output format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f == FormatJSON || f == FormatPDF || f == FormatExcel
}

// Ext is the file extension of a rendered format.
func (f Format) Ext() string {
	switch f {
	case FormatPDF:
		return ".pdf"
	case FormatExcel:
		return ".xlsx"
	}
	return ".json"
}

// ContentType is the MIME type served for a rendered format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json"
}

// Filter narrows report lines.
type Filter struct {
	ContractID *int64     `json:"contract_id,omitempty"`
	Client     string     `json:"client,omitempty"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	CostCenter string     `json:"cost_center,omitempty"`
	Supplier   string     `json:"supplier,omitempty"`
}

func (f Filter) validate() error {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return apperr.Validation("start date must not be after end date")
	}
	return nil
}

// Request asks for one report.
type Request struct {
	Type   Type   `json:"report_type"`
	Format Format `json:"format"`
	Filter Filter `json:"filters"`
}

// Response describes a generated report. Data is set for JSON requests and
// FileURL for rendered files.
type Response struct {
	ReportID    string    `json:"report_id"`
	Type        Type      `json:"report_type"`
	Format      Format    `json:"format"`
	GeneratedAt time.Time `json:"generated_at"`
	FileURL     *string   `json:"file_url,omitempty"`
	Data        any       `json:"data,omitempty"`
}

// AnalyticalItem is one invoice item line.
type AnalyticalItem struct {
	ID            int64            `json:"id"`
	Description   string           `json:"description"`
	Supplier      string           `json:"supplier"`
	CostCenter    string           `json:"cost_center"`
	OrderNumber   *string          `json:"order_number,omitempty"`
	InvoiceNumber string           `json:"invoice_number"`
	IssueDate     time.Time        `json:"issue_date"`
	DeliveryDate  *time.Time       `json:"delivery_date,omitempty"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	Unit          *string          `json:"unit,omitempty"`
	Weight        *decimal.Decimal `json:"weight,omitempty"`
	UnitValue     *decimal.Decimal `json:"unit_value,omitempty"`
	TotalValue    decimal.Decimal  `json:"total_value"`
	Notes         *string          `json:"notes,omitempty"`
}

// AnalyticalReport lists invoice items with their grand total.
type AnalyticalReport struct {
	ContractID     int64            `json:"contract_id"`
	ContractNumber string           `json:"contract_number"`
	ProjectName    string           `json:"project_name"`
	From           *time.Time       `json:"period_start,omitempty"`
	To             *time.Time       `json:"period_end,omitempty"`
	Total          decimal.Decimal  `json:"total"`
	Items          []AnalyticalItem `json:"items"`
}

// Line is one invoice of a contract.
type Line struct {
	Date          time.Time       `json:"date"`
	OrderNumber   string          `json:"order_number"`
	InvoiceNumber string          `json:"invoice_number"`
	Supplier      string          `json:"supplier"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// SyntheticReport lists the invoices of a contract without balance figures.
type SyntheticReport struct {
	ContractID     int64           `json:"contract_id"`
	ContractNumber string          `json:"contract_number"`
	ProjectName    string          `json:"project_name"`
	Client         string          `json:"client"`
	Total          decimal.Decimal `json:"total"`
	Lines          []Line          `json:"lines"`
}

// BalanceReport is the contract current account: invoices plus realized
// value, balance and percent realized.
type BalanceReport struct {
	SyntheticReport
	OriginalValue   decimal.Decimal `json:"original_value"`
	Realized        decimal.Decimal `json:"realized_value"`
	Balance         decimal.Decimal `json:"balance"`
	PercentRealized decimal.Decimal `json:"percent_realized"`
}

// Store is the store surface reports read besides raw SQL.
type Store interface {
	finance.Figures
	GetContract(ctx context.Context, id int64) (*model.Contract, error)
}

// Service generates reports.
type Service struct {
	pool    db.Pool
	store   Store
	engine  *finance.Engine
	catalog *Catalog
	dir     string
	now     func() time.Time
	newID   func() string
	log     *zap.Logger
}

// NewService creates a report service writing files under cfg.Dir.
func NewService(pool db.Pool, st Store, catalog *Catalog, cfg config.ReportsConfig) *Service {
	dir := cfg.Dir
	if dir == "" {
		dir = "reports"
	}
	return &Service{
		pool:    pool,
		store:   st,
		engine:  finance.NewEngine(st),
		catalog: catalog,
		dir:     dir,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
		log:     zap.L().With(zap.String("component", "report")),
	}
}

// Generate builds the requested report. JSON reports carry their data in
// the response; PDF and Excel reports are written to disk and cataloged.
func (s *Service) Generate(ctx context.Context, req Request, userID int64) (*Response, error) {
	if req.Format == "" {
		req.Format = FormatJSON
	}
	if !req.Type.Valid() {
		return nil, apperr.Validation("unsupported report type %q", req.Type)
	}
	if !req.Format.Valid() {
		return nil, apperr.Validation("unsupported report format %q", req.Format)
	}

	var (
		data any
		doc  *table
		err  error
	)
	switch req.Type {
	case TypeAnalytical:
		var r *AnalyticalReport
		if r, err = s.Analytical(ctx, req.Filter); err == nil {
			data, doc = r, analyticalTable(r)
		}
	case TypeSynthetic:
		var r *SyntheticReport
		if r, err = s.Synthetic(ctx, req.Filter); err == nil {
			data, doc = r, syntheticTable(r)
		}
	case TypeBalance:
		var r *BalanceReport
		if r, err = s.Balance(ctx, req.Filter); err == nil {
			data, doc = r, balanceTable(r)
		}
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	resp := &Response{
		ReportID:    s.newID(),
		Type:        req.Type,
		Format:      req.Format,
		GeneratedAt: now,
	}
	if req.Format == FormatJSON {
		resp.Data = data
		return resp, nil
	}

	name := fileName(req.Type, req.Format, now, resp.ReportID)
	if err := s.render(req.Format, doc, name); err != nil {
		return nil, err
	}
	entry := &Entry{
		ID:        resp.ReportID,
		Type:      req.Type,
		Format:    req.Format,
		Filename:  name,
		CreatedBy: userID,
		CreatedAt: now,
	}
	if err := s.catalog.Record(ctx, entry); err != nil {
		return nil, err
	}
	url := "/api/v1/reports/download/" + name
	resp.FileURL = &url

	s.log.Info("report generated",
		zap.String("report_id", resp.ReportID),
		zap.String("type", string(req.Type)),
		zap.String("file", name),
	)
	return resp, nil
}

var filePrefix = map[Type]string{
	TypeAnalytical: "relatorio_analitico",
	TypeSynthetic:  "relatorio_sintetico",
	TypeBalance:    "conta_corrente",
}

func fileName(t Type, f Format, at time.Time, id string) string {
	short := strings.ReplaceAll(id, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return filePrefix[t] + "_" + at.Format("20060102_150405") + "_" + short + f.Ext()
}

func (s *Service) render(f Format, doc *table, name string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return eris.Wrapf(err, "report: create dir %s", s.dir)
	}
	path := filepath.Join(s.dir, name)
	switch f {
	case FormatPDF:
		return writePDF(path, doc)
	case FormatExcel:
		return writeExcel(path, doc)
	}
	return eris.Errorf("report: cannot render format %s", f)
}

// Download resolves a generated file name to its path. Only names recorded
// in the catalog are served.
func (s *Service) Download(ctx context.Context, name string) (string, *Entry, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", nil, apperr.Validation("invalid report file name")
	}
	entry, err := s.catalog.Lookup(ctx, name)
	if err != nil {
		return "", nil, err
	}
	path := filepath.Join(s.dir, entry.Filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil, apperr.NotFound("report file %s not found", name)
		}
		return "", nil, eris.Wrapf(err, "report: stat %s", name)
	}
	return path, entry, nil
}

// Recent lists recently generated files.
func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return s.catalog.List(ctx, limit)
}
