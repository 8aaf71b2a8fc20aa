package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/config"
	"github.com/sells-group/contract-costs/internal/model"
	"github.com/sells-group/contract-costs/internal/store/mocks"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

var fixedNow = time.Date(2024, 3, 8, 9, 15, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strp(s string) *string { return &s }

func id64(v int64) *int64 { return &v }

type fixture struct {
	svc  *Service
	pool pgxmock.PgxPoolIface
	st   *mocks.MockStore
	dir  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	tmp := t.TempDir()
	cat, err := OpenCatalog(context.Background(), filepath.Join(tmp, "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cat.Close() })

	st := mocks.NewMockStore(t)
	dir := filepath.Join(tmp, "out")
	svc := NewService(pool, st, cat, config.ReportsConfig{Dir: dir})
	svc.now = func() time.Time { return fixedNow }
	svc.newID = func() string { return "5f2b8c1e-0000-4000-8000-000000000001" }
	return fixture{svc: svc, pool: pool, st: st, dir: dir}
}

func contract() *model.Contract {
	return &model.Contract{
		ID:             1,
		ContractNumber: "CONT-2024-0007",
		ProjectName:    "Ponte Norte",
		Client:         "Acme Engenharia",
		OriginalValue:  dec("1000.00"),
		Status:         model.ContractInProgress,
	}
}

var analyticalCols = []string{
	"id", "description", "supplier", "cost_center_label", "order_number", "invoice_number",
	"issue_date", "actual_delivery_date", "quantity", "unit", "weight", "unit_value", "total_value", "notes",
}

var lineCols = []string{"issue_date", "order_number", "invoice_number", "supplier", "total_value"}

func expectLines(pool pgxmock.PgxPoolIface) {
	pool.ExpectQuery(`(?s)FROM invoices i.*WHERE \(i\.contract_id = \$1 OR po\.contract_id = \$1\) ORDER BY i\.issue_date, i\.id`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(lineCols).
			AddRow(fixedNow.AddDate(0, 0, -10), "OC-0001", "NF-10", "Cimentos SA", dec("250.00")).
			AddRow(fixedNow.AddDate(0, 0, -2), "", "NF-11", "Frete Rápido", dec("50.00")))
}

func TestAnalytical_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	delivered := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)

	f.st.On("GetContract", ctx, int64(1)).Return(contract(), nil)
	f.pool.ExpectQuery(`(?s)FROM invoice_items ii.*WHERE c\.id = \$1 AND c\.client ILIKE \$2 AND i\.issue_date >= \$3 AND i\.issue_date <= \$4 AND ii\.cost_center_label ILIKE \$5 AND COALESCE\(s\.name, i\.supplier_name, ''\) ILIKE \$6 ORDER BY`).
		WithArgs(int64(1), "%acme%", from, to, "%MATERIA%", "%cimentos%").
		WillReturnRows(pgxmock.NewRows(analyticalCols).
			AddRow(int64(5), "Cimento CP-II", "Cimentos SA", "MATERIA_PRIMA", strp("OC-0001"), "NF-10",
				from.AddDate(0, 1, 0), &delivered, decp("10"), strp("SC"), (*decimal.Decimal)(nil), decp("35.50"), dec("355.00"), (*string)(nil)).
			AddRow(int64(6), "Areia", "Cimentos SA", "MATERIA_PRIMA", (*string)(nil), "NF-12",
				from.AddDate(0, 1, 5), (*time.Time)(nil), (*decimal.Decimal)(nil), (*string)(nil), decp("2.5"), (*decimal.Decimal)(nil), dec("120.25"), strp("entrega parcial")))

	r, err := f.svc.Analytical(ctx, Filter{
		ContractID: id64(1),
		Client:     "acme",
		From:       &from,
		To:         &to,
		CostCenter: "MATERIA",
		Supplier:   "cimentos",
	})
	require.NoError(t, err)
	assert.Equal(t, "CONT-2024-0007", r.ContractNumber)
	assert.Equal(t, "Ponte Norte", r.ProjectName)
	require.Len(t, r.Items, 2)
	assert.Equal(t, "OC-0001", *r.Items[0].OrderNumber)
	assert.Nil(t, r.Items[1].OrderNumber)
	assert.True(t, dec("475.25").Equal(r.Total))
	assert.NoError(t, f.pool.ExpectationsWereMet())
}

func TestAnalytical_AllContracts(t *testing.T) {
	f := newFixture(t)
	f.pool.ExpectQuery(`(?s)FROM invoice_items ii.*LEFT JOIN suppliers s ON s\.id = po\.supplier_id ORDER BY i\.issue_date, ii\.id`).
		WillReturnRows(pgxmock.NewRows(analyticalCols))

	r, err := f.svc.Analytical(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, "Todos", r.ContractNumber)
	assert.Equal(t, "Relatório Geral", r.ProjectName)
	assert.NotNil(t, r.Items)
	assert.Empty(t, r.Items)
	assert.True(t, r.Total.IsZero())
}

func TestAnalytical_InvertedRange(t *testing.T) {
	f := newFixture(t)
	from := fixedNow
	to := fixedNow.AddDate(0, 0, -1)

	_, err := f.svc.Analytical(context.Background(), Filter{From: &from, To: &to})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSynthetic_RequiresContract(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Synthetic(context.Background(), Filter{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.Balance(context.Background(), Filter{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSynthetic_UnknownContract(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.st.On("GetContract", ctx, int64(9)).Return(nil, apperr.NotFound("contract 9 not found"))

	_, err := f.svc.Synthetic(ctx, Filter{ContractID: id64(9)})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSynthetic_DateRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	f.st.On("GetContract", ctx, int64(1)).Return(contract(), nil)
	f.pool.ExpectQuery(`WHERE \(i\.contract_id = \$1 OR po\.contract_id = \$1\) AND i\.issue_date >= \$2 ORDER BY`).
		WithArgs(int64(1), from).
		WillReturnRows(pgxmock.NewRows(lineCols))

	r, err := f.svc.Synthetic(ctx, Filter{ContractID: id64(1), From: &from})
	require.NoError(t, err)
	assert.Equal(t, "Acme Engenharia", r.Client)
	assert.NotNil(t, r.Lines)
	assert.True(t, r.Total.IsZero())
}

func TestBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.st.On("GetContract", ctx, int64(1)).Return(contract(), nil)
	f.st.On("RealizedValue", ctx, int64(1)).Return(dec("300.00"), nil)
	expectLines(f.pool)

	r, err := f.svc.Balance(ctx, Filter{ContractID: id64(1)})
	require.NoError(t, err)
	require.Len(t, r.Lines, 2)
	assert.Equal(t, "OC-0001", r.Lines[0].OrderNumber)
	assert.True(t, dec("300").Equal(r.Total))
	assert.True(t, dec("300").Equal(r.Realized))
	assert.True(t, dec("700").Equal(r.Balance))
	assert.True(t, dec("30").Equal(r.PercentRealized))
	assert.NoError(t, f.pool.ExpectationsWereMet())
}

func TestGenerate_JSON(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.st.On("GetContract", ctx, int64(1)).Return(contract(), nil)
	expectLines(f.pool)

	resp, err := f.svc.Generate(ctx, Request{Type: TypeSynthetic, Filter: Filter{ContractID: id64(1)}}, 3)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, resp.Format)
	assert.Nil(t, resp.FileURL)
	assert.Equal(t, fixedNow, resp.GeneratedAt)
	syn, ok := resp.Data.(*SyntheticReport)
	require.True(t, ok)
	assert.Len(t, syn.Lines, 2)

	_, err = os.Stat(f.dir)
	assert.True(t, os.IsNotExist(err))
}

func TestGenerate_PDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.st.On("GetContract", ctx, int64(1)).Return(contract(), nil)
	f.st.On("RealizedValue", ctx, int64(1)).Return(dec("300.00"), nil)
	expectLines(f.pool)

	resp, err := f.svc.Generate(ctx, Request{Type: TypeBalance, Format: FormatPDF, Filter: Filter{ContractID: id64(1)}}, 3)
	require.NoError(t, err)
	require.NotNil(t, resp.FileURL)
	assert.Nil(t, resp.Data)

	name := "conta_corrente_20240308_091500_5f2b8c1e.pdf"
	assert.Equal(t, "/api/v1/reports/download/"+name, *resp.FileURL)

	path, entry, err := f.svc.Download(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.dir, name), path)
	assert.Equal(t, TypeBalance, entry.Type)
	assert.Equal(t, int64(3), entry.CreatedBy)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(raw[:4]))
}

func TestGenerate_Excel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.st.On("GetContract", ctx, int64(1)).Return(contract(), nil)
	f.pool.ExpectQuery(`(?s)FROM invoice_items ii.*WHERE c\.id = \$1 ORDER BY`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(analyticalCols).
			AddRow(int64(5), "Cimento CP-II", "Cimentos SA", "MATERIA_PRIMA", strp("OC-0001"), "NF-10",
				fixedNow, (*time.Time)(nil), decp("10"), strp("SC"), (*decimal.Decimal)(nil), decp("35.50"), dec("355.00"), (*string)(nil)))

	resp, err := f.svc.Generate(ctx, Request{Type: TypeAnalytical, Format: FormatExcel, Filter: Filter{ContractID: id64(1)}}, 3)
	require.NoError(t, err)
	require.NotNil(t, resp.FileURL)

	path, entry, err := f.svc.Download(ctx, "relatorio_analitico_20240308_091500_5f2b8c1e.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatExcel, entry.Format)

	wb, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := wb.Sheet["Relatório Analítico"]
	require.True(t, ok)
	assert.Equal(t, "Relatório Analítico - Ponte Norte", sheet.Cell(0, 0).String())
	assert.Equal(t, "Contrato: CONT-2024-0007", sheet.Cell(1, 0).String())
	assert.Equal(t, "Descrição", sheet.Cell(4, 0).String())
	assert.Equal(t, "Cimento CP-II", sheet.Cell(5, 0).String())
	v, err := sheet.Cell(5, 10).Float()
	require.NoError(t, err)
	assert.InDelta(t, 355.0, v, 0.001)
}

func TestGenerate_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, Request{Type: "mensal"}, 1)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.Generate(ctx, Request{Type: TypeAnalytical, Format: "csv"}, 1)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.Generate(ctx, Request{Type: TypeBalance, Format: FormatPDF}, 1)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestDownload_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"", "../catalog.db", "a/b.pdf", ".."} {
		_, _, err := f.svc.Download(ctx, name)
		assert.True(t, apperr.Is(err, apperr.KindValidation), name)
	}

	_, _, err := f.svc.Download(ctx, "conta_corrente_unknown.pdf")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, f.svc.catalog.Record(ctx, &Entry{
		ID: "x", Type: TypeBalance, Format: FormatPDF, Filename: "gone.pdf", CreatedBy: 1, CreatedAt: fixedNow,
	}))
	_, _, err = f.svc.Download(ctx, "gone.pdf")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCatalog_List(t *testing.T) {
	ctx := context.Background()
	cat, err := OpenCatalog(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer cat.Close()

	for i, name := range []string{"a.pdf", "b.xlsx", "c.pdf"} {
		require.NoError(t, cat.Record(ctx, &Entry{
			ID: name, Type: TypeAnalytical, Format: FormatPDF, Filename: name,
			CreatedBy: 1, CreatedAt: fixedNow.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := cat.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c.pdf", got[0].Filename)
	assert.Equal(t, "b.xlsx", got[1].Filename)

	err = cat.Record(ctx, &Entry{ID: "dup", Type: TypeAnalytical, Format: FormatPDF, Filename: "a.pdf", CreatedAt: fixedNow})
	assert.Error(t, err)
}

func TestText(t *testing.T) {
	assert.Equal(t, "Cimento...", clip("Cimento CP-II", 7))
	assert.Equal(t, "Areia", clip("Areia", 7))
	assert.Equal(t, "08/03/2024", text(fixedNow, kindDate))
	assert.Equal(t, "", text((*string)(nil), kindText))
	assert.Equal(t, "2.5", text(decp("2.5"), kindNumber))
	assert.Contains(t, text(dec("1234.5"), kindMoney), "R$ ")
}
