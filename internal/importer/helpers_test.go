package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/attach"
	"github.com/sells-group/contract-costs/internal/classify"
	"github.com/sells-group/contract-costs/internal/config"
	"github.com/sells-group/contract-costs/internal/store/mocks"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type staticRules struct{ table classify.Table }

func (r staticRules) Table(context.Context) (classify.Table, error) { return r.table, nil }

var fixedNow = time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)

func testLayout() Layout {
	return Layout{
		Sheet:          "QQP_Cliente",
		TotalRow:       1,
		TotalCol:       1,
		FirstRow:       3,
		LastRow:        6,
		CodeCol:        0,
		DescriptionCol: 1,
		UnitCol:        2,
		MonthlyQtyCol:  3,
		DurationCol:    4,
		TotalPriceCol:  5,
		NoteCol:        6,
	}
}

func newTestService(t *testing.T) (*Service, *mocks.MockStore) {
	t.Helper()
	st := mocks.NewMockStore(t)
	svc := NewService(st, staticRules{classify.DefaultTable()}, attach.NewService(st, t.TempDir()),
		config.ImportConfig{TempDir: t.TempDir(), Budget: testLayout()})
	svc.now = func() time.Time { return fixedNow }
	svc.randN = func(int) int { return 234 }
	return svc, st
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// cellValue is written as a number when it is a float64, as text otherwise.
type cellValue any

func buildXLSX(t *testing.T, sheet string, rows [][]cellValue) []byte {
	t.Helper()
	f := xlsx.NewFile()
	sh, err := f.AddSheet(sheet)
	require.NoError(t, err)
	for _, r := range rows {
		row := sh.AddRow()
		for _, v := range r {
			cell := row.AddCell()
			switch tv := v.(type) {
			case float64:
				cell.SetFloat(tv)
			case string:
				cell.SetString(tv)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.Save(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func budgetRows() [][]cellValue {
	return [][]cellValue{
		{"PROPOSTA"},
		{"Total", 1500.5},
		{"Item", "Serviço", "Un", "Qtd", "Meses", "Total", "Obs"},
		{"1.1", "Mobilização", "vb", "1", "1", "500.50", ""},
		{"1.2", "Equipe de obra", "mês", "2", "6", "R$ 1.000,00", "turno único"},
		{"", "sem código", "", "", "", "10", ""},
		{"1.3", "Linha ruim", "", "", "", "abc", ""},
		{"1.4", "Fora do intervalo", "", "", "", "99", ""},
	}
}
