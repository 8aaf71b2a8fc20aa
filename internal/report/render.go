package report

import (
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// cellKind controls how a value is printed.
type cellKind int

const (
	kindText cellKind = iota
	kindMoney
	kindNumber
	kindDate
)

type column struct {
	name  string
	width float64 // mm, PDF only
	kind  cellKind
	clip  int // PDF only; 0 keeps the full text
}

// table is the format-neutral layout shared by the PDF and Excel renderers.
type table struct {
	title   string
	sheet   string
	info    []string
	columns []column
	rows    [][]any
}

var brl = message.NewPrinter(language.BrazilianPortuguese)

func money(d decimal.Decimal) string {
	return brl.Sprintf("R$ %.2f", d.InexactFloat64())
}

func percent(d decimal.Decimal) string {
	return brl.Sprintf("%.1f%%", d.InexactFloat64())
}

func analyticalTable(r *AnalyticalReport) *table {
	t := &table{
		title: "Relatório Analítico - " + r.ProjectName,
		sheet: "Relatório Analítico",
		info: []string{
			"Contrato: " + r.ContractNumber,
			"Total Geral: " + money(r.Total),
		},
		columns: []column{
			{name: "Descrição", width: 50, clip: 30},
			{name: "Fornecedor", width: 35, clip: 22},
			{name: "Centro Custo", width: 28},
			{name: "Nº OC", width: 18},
			{name: "Nº NF", width: 18},
			{name: "Emissão", width: 18, kind: kindDate},
			{name: "Quantidade", width: 0, kind: kindNumber},
			{name: "Unidade", width: 0},
			{name: "Peso", width: 0, kind: kindNumber},
			{name: "Valor Unitário", width: 0, kind: kindMoney},
			{name: "Valor Total", width: 23, kind: kindMoney},
			{name: "Observações", width: 0},
		},
	}
	for _, it := range r.Items {
		t.rows = append(t.rows, []any{
			it.Description, it.Supplier, it.CostCenter, it.OrderNumber, it.InvoiceNumber, it.IssueDate,
			it.Quantity, it.Unit, it.Weight, it.UnitValue, it.TotalValue, it.Notes,
		})
	}
	return t
}

func lineColumns() []column {
	return []column{
		{name: "Data", width: 25, kind: kindDate},
		{name: "Nº OC", width: 30},
		{name: "Nº NF", width: 30},
		{name: "Fornecedor", width: 65, clip: 40},
		{name: "Valor Total", width: 35, kind: kindMoney},
	}
}

func lineRows(lines []Line) [][]any {
	rows := make([][]any, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []any{l.Date, l.OrderNumber, l.InvoiceNumber, l.Supplier, l.TotalValue})
	}
	return rows
}

func syntheticTable(r *SyntheticReport) *table {
	return &table{
		title: "Relatório Sintético do Contrato",
		sheet: "Sintético",
		info: []string{
			"Contrato: " + r.ContractNumber,
			"Projeto: " + r.ProjectName,
			"Cliente: " + r.Client,
			"Total: " + money(r.Total),
		},
		columns: lineColumns(),
		rows:    lineRows(r.Lines),
	}
}

func balanceTable(r *BalanceReport) *table {
	return &table{
		title: "Conta-Corrente do Contrato",
		sheet: "Conta-Corrente",
		info: []string{
			"Contrato: " + r.ContractNumber,
			"Projeto: " + r.ProjectName,
			"Cliente: " + r.Client,
			"Valor Original: " + money(r.OriginalValue),
			"Valor Realizado: " + money(r.Realized),
			"Saldo: " + money(r.Balance),
			"% Realizado: " + percent(r.PercentRealized),
		},
		columns: lineColumns(),
		rows:    lineRows(r.Lines),
	}
}

// text prints a cell value for the PDF.
func text(v any, kind cellKind) string {
	switch x := v.(type) {
	case string:
		return x
	case *string:
		if x != nil {
			return *x
		}
	case decimal.Decimal:
		if kind == kindMoney {
			return money(x)
		}
		return x.String()
	case *decimal.Decimal:
		if x != nil {
			return text(*x, kind)
		}
	case time.Time:
		return x.Format("02/01/2006")
	case *time.Time:
		if x != nil {
			return x.Format("02/01/2006")
		}
	}
	return ""
}

func clip(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// writePDF renders t on A4 pages. Columns with zero width are left out.
func writePDF(path string, t *table) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(t.title, true)
	pdf.SetAutoPageBreak(true, 15)

	var cols []int
	for i, c := range t.columns {
		if c.width > 0 {
			cols = append(cols, i)
		}
	}
	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(128, 128, 128)
		pdf.SetTextColor(255, 255, 255)
		for _, i := range cols {
			pdf.CellFormat(t.columns[i].width, 7, tr(t.columns[i].name), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetFillColor(245, 245, 220)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(t.title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, l := range t.info {
		pdf.CellFormat(0, 5, tr(l), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
	header()

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range t.rows {
		if pdf.GetY()+6 > pageH-bottom-15 {
			pdf.AddPage()
			header()
		}
		for _, i := range cols {
			c := t.columns[i]
			align := "L"
			if c.kind == kindMoney || c.kind == kindNumber {
				align = "R"
			}
			pdf.CellFormat(c.width, 6, tr(clip(text(row[i], c.kind), c.clip)), "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(t.rows) == 0 {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 6, tr("Nenhum lançamento encontrado."), "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return eris.Wrapf(err, "report: write pdf %s", path)
	}
	return nil
}

// writeExcel renders t as one sheet: title and info lines, a blank row, then
// the column header and the rows.
func writeExcel(path string, t *table) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(t.sheet)
	if err != nil {
		return eris.Wrapf(err, "report: add sheet %s", t.sheet)
	}

	sheet.AddRow().AddCell().SetString(t.title)
	for _, l := range t.info {
		sheet.AddRow().AddCell().SetString(l)
	}
	sheet.AddRow().AddCell()

	head := sheet.AddRow()
	for _, c := range t.columns {
		head.AddCell().SetString(c.name)
	}
	for _, row := range t.rows {
		r := sheet.AddRow()
		for i, v := range row {
			setCell(r.AddCell(), v, t.columns[i].kind)
		}
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "report: write xlsx %s", path)
	}
	return nil
}

func setCell(cell *xlsx.Cell, v any, kind cellKind) {
	switch x := v.(type) {
	case decimal.Decimal:
		cell.SetFloat(x.InexactFloat64())
		if kind == kindMoney {
			cell.NumFmt = "#,##0.00"
		}
	case *decimal.Decimal:
		if x != nil {
			setCell(cell, *x, kind)
		}
	case time.Time:
		cell.SetDate(x)
	case *time.Time:
		if x != nil {
			cell.SetDate(*x)
		}
	default:
		cell.SetString(text(v, kind))
	}
}
