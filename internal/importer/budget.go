package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/config"
	"github.com/sells-group/contract-costs/internal/ingest"
	"github.com/sells-group/contract-costs/internal/model"
)

const compensateTimeout = 10 * time.Second

// Layout locates the contract total and the forecast table in a budget
// sheet. Rows and columns are 0-indexed; LastRow is inclusive.
type Layout = config.BudgetLayout

// ForecastLine is one parsed forecast row.
type ForecastLine struct {
	Row             int              `json:"row"`
	ItemCode        string           `json:"item_code"`
	Description     string           `json:"service_description"`
	Unit            *string          `json:"unit,omitempty"`
	MonthlyQuantity *decimal.Decimal `json:"monthly_quantity,omitempty"`
	DurationMonths  *decimal.Decimal `json:"duration_months,omitempty"`
	TotalPrice      decimal.Decimal  `json:"total_price"`
	Note            *string          `json:"note,omitempty"`
}

// BudgetParse is the outcome of reading a budget sheet.
type BudgetParse struct {
	ContractTotal *decimal.Decimal `json:"contract_total_value,omitempty"`
	Items         []ForecastLine   `json:"items"`
	Errors        []string         `json:"errors"`
	ItemsTotal    decimal.Decimal  `json:"items_total"`
}

// BudgetResult reports a budget import.
type BudgetResult struct {
	BudgetParse
	ContractID    *int64 `json:"contract_id,omitempty"`
	ImportedItems int    `json:"imported_items"`
}

// ParseBudget extracts the contract total and forecast lines from sheet rows.
// Rows without code, description or total price are skipped. The contract
// total is read only from a plain numeric cell.
func ParseBudget(rows [][]string, l Layout) BudgetParse {
	p := BudgetParse{Errors: []string{}}

	if raw := strings.TrimSpace(ingest.Cell(rows, l.TotalRow, l.TotalCol)); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil {
			p.ContractTotal = &d
		}
	}

	for r := l.FirstRow; r <= l.LastRow && r < len(rows); r++ {
		code := strings.TrimSpace(ingest.Cell(rows, r, l.CodeCol))
		desc := strings.TrimSpace(ingest.Cell(rows, r, l.DescriptionCol))
		rawTotal := strings.TrimSpace(ingest.Cell(rows, r, l.TotalPriceCol))
		if code == "" || desc == "" || rawTotal == "" {
			continue
		}

		total, err := ParseAmount(rawTotal)
		if err != nil || total == nil {
			p.Errors = append(p.Errors, fmt.Sprintf("row %d: invalid total price %q", r+1, rawTotal))
			continue
		}

		line := ForecastLine{
			Row:         r + 1,
			ItemCode:    code,
			Description: desc,
			Unit:        strPtr(ingest.Cell(rows, r, l.UnitCol)),
			TotalPrice:  *total,
			Note:        strPtr(ingest.Cell(rows, r, l.NoteCol)),
		}
		// optional numerics that fail to parse are left empty
		line.MonthlyQuantity, _ = ParseAmount(ingest.Cell(rows, r, l.MonthlyQtyCol))
		line.DurationMonths, _ = ParseAmount(ingest.Cell(rows, r, l.DurationCol))

		p.Items = append(p.Items, line)
		p.ItemsTotal = p.ItemsTotal.Add(line.TotalPrice)
	}
	return p
}

// forecastValues converts parsed lines into rows for a contract.
func forecastValues(contractID int64, lines []ForecastLine) []model.ForecastValue {
	out := make([]model.ForecastValue, len(lines))
	for i, l := range lines {
		out[i] = model.ForecastValue{
			ContractID:         contractID,
			ItemCode:           l.ItemCode,
			ServiceDescription: l.Description,
			Unit:               l.Unit,
			MonthlyQuantity:    l.MonthlyQuantity,
			DurationMonths:     l.DurationMonths,
			TotalPrice:         l.TotalPrice,
			Note:               l.Note,
		}
	}
	return out
}

func (s *Service) parseBudgetFile(file File) (BudgetParse, error) {
	if file.Ext() == ".xls" {
		return BudgetParse{}, errLegacyExcel
	}
	if !isExcel(file.Ext()) {
		return BudgetParse{}, apperr.Validation("budget file must be an Excel workbook (.xlsx or .xlsm)")
	}
	rows, err := ingest.ParseXLSX(file.Data, ingest.XLSXOptions{SheetName: s.layout.Sheet})
	if err != nil {
		return BudgetParse{}, apperr.Wrap(apperr.KindValidation, err, "could not read budget sheet "+s.layout.Sheet)
	}
	return ParseBudget(rows, s.layout), nil
}

// ImportBudget parses a budget sheet. With a contract id the forecast lines
// are stored for that contract; without one the file is only parsed.
func (s *Service) ImportBudget(ctx context.Context, file File, contractID *int64) (*BudgetResult, error) {
	parse, err := s.parseBudgetFile(file)
	if err != nil {
		return nil, err
	}
	res := &BudgetResult{BudgetParse: parse, ContractID: contractID}
	if contractID == nil {
		res.ImportedItems = len(parse.Items)
		return res, nil
	}

	if _, err := s.store.GetContract(ctx, *contractID); err != nil {
		return nil, err
	}
	n, err := s.store.InsertForecastValues(ctx, *contractID, forecastValues(*contractID, parse.Items))
	if err != nil {
		return nil, err
	}
	res.ImportedItems = int(n)

	s.log.Info("budget imported",
		zap.Int64("contract_id", *contractID),
		zap.Int64("items", n),
		zap.Int("errors", len(parse.Errors)),
	)
	return res, nil
}

// CreateContractWithBudget creates a contract whose value comes from the
// budget sheet, then stores its forecast lines. The sheet is parsed before
// anything is written; if storing the lines fails the contract is deleted
// again so no half-imported contract survives.
func (s *Service) CreateContractWithBudget(ctx context.Context, in model.NewContract, file File) (*model.Contract, *BudgetResult, error) {
	if strings.TrimSpace(in.ProjectName) == "" || strings.TrimSpace(in.Client) == "" {
		return nil, nil, apperr.Validation("project name and client are required")
	}
	if !in.ContractType.Valid() {
		return nil, nil, apperr.Validation("invalid contract type %q", in.ContractType)
	}

	parse, err := s.parseBudgetFile(file)
	if err != nil {
		return nil, nil, err
	}
	if len(parse.Errors) > 0 && len(parse.Items) == 0 {
		return nil, nil, apperr.Validation("budget sheet has errors: %s", strings.Join(parse.Errors, "; "))
	}
	if parse.ContractTotal == nil {
		return nil, nil, apperr.Validation("could not read the contract total from the budget sheet")
	}

	c := &model.Contract{
		ContractNumber:  s.contractNumber(),
		ProjectName:     strings.TrimSpace(in.ProjectName),
		Client:          strings.TrimSpace(in.Client),
		ContractType:    in.ContractType,
		OriginalValue:   *parse.ContractTotal,
		Status:          model.ContractInProgress,
		StartDate:       in.StartDate,
		ExpectedEndDate: in.ExpectedEndDate,
		Notes:           in.Notes,
		CreatedBy:       in.CreatedBy,
	}
	if in.ReductionTargetPercent != nil {
		c.ReductionTargetPercent = *in.ReductionTargetPercent
	}
	if err := s.store.CreateContract(ctx, c); err != nil {
		return nil, nil, err
	}

	n, err := s.store.InsertForecastValues(ctx, c.ID, forecastValues(c.ID, parse.Items))
	if err != nil {
		s.discardContract(ctx, c.ID)
		return nil, nil, eris.Wrap(err, "could not save budget items")
	}

	s.log.Info("contract created from budget",
		zap.Int64("contract_id", c.ID),
		zap.String("number", c.ContractNumber),
		zap.Int64("items", n),
	)
	return c, &BudgetResult{BudgetParse: parse, ContractID: &c.ID, ImportedItems: int(n)}, nil
}

// discardContract deletes a contract whose budget lines could not be stored.
// It runs even when ctx is already cancelled.
func (s *Service) discardContract(ctx context.Context, id int64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()
	if err := s.store.DeleteContract(ctx, id); err != nil {
		s.log.Error("compensating contract delete failed",
			zap.Int64("contract_id", id), zap.Error(err))
	}
}

func (s *Service) contractNumber() string {
	return fmt.Sprintf("CONT-%d-%d", s.now().Unix(), 1000+s.randN(9000))
}
