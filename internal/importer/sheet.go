package importer

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/classify"
	"github.com/sells-group/contract-costs/internal/ingest"
	"github.com/sells-group/contract-costs/internal/model"
)

// Invoice sheet fields.
const (
	colDescription = "description"
	colCostCenter  = "cost_center"
	colUnit        = "unit"
	colQuantity    = "quantity"
	colWeight      = "weight"
	colUnitValue   = "unit_value"
	colTotal       = "total_value"
)

// headerAliases maps normalized header text to a sheet field.
var headerAliases = map[string]string{
	"descricao":       colDescription,
	"descrição":       colDescription,
	"produto":         colDescription,
	"item":            colDescription,
	"centro_custo":    colCostCenter,
	"centro de custo": colCostCenter,
	"cc":              colCostCenter,
	"unidade":         colUnit,
	"un":              colUnit,
	"quantidade":      colQuantity,
	"qtd":             colQuantity,
	"peso":            colWeight,
	"valor_unitario":  colUnitValue,
	"valor unitário":  colUnitValue,
	"preco_unitario":  colUnitValue,
	"preço unitário":  colUnitValue,
	"valor_total":     colTotal,
	"valor total":     colTotal,
	"total":           colTotal,
}

// InvoiceSheet is a parsed header-mapped item sheet.
type InvoiceSheet struct {
	Items  []model.InvoiceItem `json:"items"`
	Errors []string            `json:"errors"`
	Total  decimal.Decimal     `json:"total_value"`
}

// ParseInvoiceSheet maps the first row's headers to item fields and reads
// the remaining rows. Description and total columns are required. Blank
// rows are skipped; bad rows are reported and skipped.
func ParseInvoiceSheet(rows [][]string, buckets *classify.BucketClassifier) (*InvoiceSheet, error) {
	if len(rows) == 0 {
		return nil, apperr.Validation("sheet is empty")
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		if field, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	var missing []string
	for _, req := range []string{colDescription, colTotal} {
		if _, ok := cols[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("missing required columns: %s", strings.Join(missing, ", "))
	}

	get := func(row []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	sheet := &InvoiceSheet{Errors: []string{}}
	for r := 1; r < len(rows); r++ {
		row := rows[r]
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		desc := get(row, colDescription)
		if desc == "" {
			sheet.Errors = append(sheet.Errors, fmt.Sprintf("row %d: missing description", r+1))
			continue
		}
		total, err := ParseAmount(get(row, colTotal))
		if err != nil || total == nil {
			sheet.Errors = append(sheet.Errors, fmt.Sprintf("row %d: invalid total value %q", r+1, get(row, colTotal)))
			continue
		}

		item := model.InvoiceItem{
			Description:     desc,
			CostCenterLabel: get(row, colCostCenter),
			Unit:            strPtr(get(row, colUnit)),
			TotalValue:      *total,
		}
		if item.CostCenterLabel == "" {
			item.CostCenterLabel = buckets.Label(desc)
		}
		// unreadable optional numbers are left empty
		item.Quantity, _ = ParseAmount(get(row, colQuantity))
		item.Weight, _ = ParseAmount(get(row, colWeight))
		item.UnitValue, _ = ParseAmount(get(row, colUnitValue))

		sheet.Items = append(sheet.Items, item)
		sheet.Total = sheet.Total.Add(item.TotalValue)
	}
	return sheet, nil
}

// SheetImport reports an invoice created from an item sheet.
type SheetImport struct {
	Invoice       *model.Invoice `json:"invoice"`
	ItemsImported int            `json:"items_imported"`
	Errors        []string       `json:"errors"`
}

// ImportInvoiceSheet creates an invoice for a purchase order from an Excel
// or CSV item sheet. The invoice number is IMPORT_<order>_<timestamp> and
// its total is the sum of the imported item totals.
func (s *Service) ImportInvoiceSheet(ctx context.Context, orderID int64, file File, sheetName string, skipRows int) (*SheetImport, error) {
	var rows [][]string
	var err error
	switch ext := file.Ext(); {
	case isExcel(ext):
		rows, err = ingest.ParseXLSX(file.Data, ingest.XLSXOptions{SheetName: sheetName, SkipRows: skipRows})
	case ext == ".csv":
		rows, err = ingest.ParseCSV(bytes.NewReader(file.Data), ingest.CSVOptions{SkipRows: skipRows})
	case ext == ".xls":
		return nil, errLegacyExcel
	default:
		return nil, apperr.Validation("file must be Excel (.xlsx) or CSV")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "could not read sheet")
	}

	sheet, err := ParseInvoiceSheet(rows, s.buckets)
	if err != nil {
		return nil, err
	}
	if len(sheet.Items) == 0 {
		return nil, apperr.Validation("no valid items in sheet: %s", strings.Join(sheet.Errors, "; "))
	}

	now := s.now()
	name := file.Name
	inv := &model.Invoice{
		Link:          model.LinkToOrder(orderID),
		InvoiceNumber: fmt.Sprintf("IMPORT_%d_%s", orderID, now.Format("20060102_150405")),
		TotalValue:    sheet.Total,
		IssueDate:     now,
		SourceFile:    &name,
		Notes:         strPtr("imported from spreadsheet: " + name),
		Items:         sheet.Items,
	}
	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}
	inv.ItemsCount = len(inv.Items)

	s.log.Info("invoice imported from sheet",
		zap.Int64("invoice_id", inv.ID),
		zap.Int64("order_id", orderID),
		zap.Int("items", len(sheet.Items)),
		zap.Int("errors", len(sheet.Errors)),
	)
	return &SheetImport{Invoice: inv, ItemsImported: len(sheet.Items), Errors: sheet.Errors}, nil
}
