package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/model"
)

var nfCols = []string{
	"id", "number", "series", "access_key", "supplier_tax_id", "supplier_name", "total_value",
	"goods_value", "tax_value", "freight_value", "issue_date", "entry_date", "source_folder",
	"source_subfolder", "status", "notes", "contract_id", "purchase_order_id", "ingested_at",
	"created_at", "updated_at",
}

func nfRow(id int64, status model.NFStatus) []any {
	contractID := int64(3)
	return []any{
		id, "1234", "1", nil, "12345678000199", "Fornecedor A", dec("1000.00"),
		nil, nil, nil, fixedTime, nil, "obra-centro",
		nil, status, nil, &contractID, nil, &fixedTime,
		fixedTime, nil,
	}
}

var nfItemCols = []string{
	"id", "nota_fiscal_id", "sequence", "product_code", "description", "ncm", "quantity", "unit",
	"unit_value", "total_value", "net_weight", "gross_weight", "cost_center_id", "budget_item_id",
	"classification_score", "classification_source", "integration_status", "integrated_at", "updated_at",
}

func nfItemRow(id int64) []any {
	return []any{
		id, int64(50), int32(1), nil, "CIMENTO CP-II 50KG", nil, dec("10"), "SC",
		dec("35.50"), dec("355.00"), nil, nil, nil, nil,
		nil, nil, model.IntegrationPending, nil, nil,
	}
}

func TestPostgresStore_CreateNotaFiscal(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO notas_fiscais`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "ingested_at", "created_at"}).
			AddRow(int64(50), &fixedTime, fixedTime))
	mock.ExpectCopyFrom(pgx.Identifier{"nota_fiscal_items"}, nfItemCopyColumns).WillReturnResult(1)
	mock.ExpectCommit()

	nf := &model.NotaFiscal{
		Number: "1234", Series: "1", TotalValue: dec("355.00"), IssueDate: fixedTime,
		Items: []model.NotaFiscalItem{
			{Sequence: 1, Description: "CIMENTO", Quantity: dec("10"), UnitValue: dec("35.5"), TotalValue: dec("355")},
		},
	}
	require.NoError(t, s.CreateNotaFiscal(context.Background(), nf))
	assert.Equal(t, int64(50), nf.ID)
	assert.Equal(t, model.NFProcessed, nf.Status)
	assert.Equal(t, model.IntegrationPending, nf.Items[0].IntegrationStatus)
	assert.Equal(t, int64(50), nf.Items[0].NotaFiscalID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateNotaFiscal_DuplicateKey(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	key := "35240312345678000199550010000012341000012345"
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO notas_fiscais`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "notas_fiscais_access_key_key"})
	mock.ExpectRollback()

	err := s.CreateNotaFiscal(context.Background(), &model.NotaFiscal{AccessKey: &key, IssueDate: fixedTime})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateNotaFiscal_KeyTooLong(t *testing.T) {
	s, _ := newMockPostgresStore(t)

	key := "352403123456780001995500100000123410000123456789"
	err := s.CreateNotaFiscal(context.Background(), &model.NotaFiscal{AccessKey: &key})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestPostgresStore_GetNotaFiscal(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM notas_fiscais WHERE id = \$1`).
		WithArgs(int64(50)).
		WillReturnRows(pgxmock.NewRows(nfCols).AddRow(nfRow(50, model.NFProcessed)...))
	mock.ExpectQuery(`FROM nota_fiscal_items WHERE nota_fiscal_id = \$1`).
		WithArgs(int64(50)).
		WillReturnRows(pgxmock.NewRows(nfItemCols).AddRow(nfItemRow(1)...).AddRow(nfItemRow(2)...))

	nf, err := s.GetNotaFiscal(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, model.NFProcessed, nf.Status)
	require.NotNil(t, nf.ContractID)
	assert.Equal(t, int64(3), *nf.ContractID)
	require.Len(t, nf.Items, 2)
	assert.Equal(t, 1, nf.Items[0].Sequence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ValidateNotaFiscal(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE notas_fiscais SET status = 'validated'`).
		WithArgs(int64(50)).
		WillReturnRows(pgxmock.NewRows(nfCols).AddRow(nfRow(50, model.NFValidated)...))
	mock.ExpectExec(`UPDATE nota_fiscal_items SET integration_status = 'integrated'`).
		WithArgs(int64(50)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))
	mock.ExpectCommit()

	nf, err := s.ValidateNotaFiscal(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, model.NFValidated, nf.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ValidateNotaFiscal_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE notas_fiscais SET status = 'validated'`).
		WithArgs(int64(51)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := s.ValidateNotaFiscal(context.Background(), 51)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RejectNotaFiscal(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`UPDATE notas_fiscais SET status = 'error', notes = \$1`).
		WithArgs("valor divergente", int64(50)).
		WillReturnRows(pgxmock.NewRows(nfCols).AddRow(nfRow(50, model.NFError)...))

	nf, err := s.RejectNotaFiscal(context.Background(), 50, "valor divergente")
	require.NoError(t, err)
	assert.Equal(t, model.NFError, nf.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListNotasFiscais_Filters(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	contractID := int64(3)
	mock.ExpectQuery(`AND status = \$1 AND supplier_name ILIKE \$2 AND contract_id = \$3 AND source_folder = \$4`).
		WithArgs("validated", "%forn%", int64(3), "obra-centro", 10).
		WillReturnRows(pgxmock.NewRows(nfCols).AddRow(nfRow(50, model.NFValidated)...))

	list, err := s.ListNotasFiscais(context.Background(), model.NFFilter{
		Status: "validated", Supplier: "forn", ContractID: &contractID, Folder: "obra-centro", Limit: 10,
	})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_IntegrateNFItem(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	row := nfItemRow(7)
	budgetItem := int64(12)
	row[13] = &budgetItem
	row[16] = model.IntegrationIntegrated
	mock.ExpectQuery(`UPDATE nota_fiscal_items SET budget_item_id = \$1, integration_status = 'integrated'`).
		WithArgs(int64(12), int64(7)).
		WillReturnRows(pgxmock.NewRows(nfItemCols).AddRow(row...))

	it, err := s.IntegrateNFItem(context.Background(), 7, 12)
	require.NoError(t, err)
	assert.Equal(t, model.IntegrationIntegrated, it.IntegrationStatus)
	require.NotNil(t, it.BudgetItemID)
	assert.Equal(t, int64(12), *it.BudgetItemID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetNFItemClassification(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE nota_fiscal_items SET cost_center_id = \$1, classification_score = \$2`).
		WithArgs(int64(2), dec("60"), model.SourceAI, int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, s.SetNFItemClassification(context.Background(), 7,
		model.Classification{CostCenterID: 2, Score: dec("60"), Source: model.SourceAI}))

	mock.ExpectExec(`UPDATE nota_fiscal_items SET cost_center_id`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	err := s.SetNFItemClassification(context.Background(), 8,
		model.Classification{CostCenterID: 2, Score: dec("100"), Source: model.SourceManual})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ClassificationStats(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	since := fixedTime.Add(-30 * 24 * time.Hour)
	mock.ExpectQuery(`FILTER \(WHERE i.cost_center_id IS NOT NULL\)`).
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows([]string{"total", "classified", "review", "avg"}).
			AddRow(int64(10), int64(7), int64(3), dec("71.4286")))
	mock.ExpectQuery(`GROUP BY cc.id, cc.code, cc.name`).
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows([]string{"id", "code", "name", "count", "sum"}).
			AddRow(int64(1), "materia_prima", "Matéria-prima", int64(5), dec("900.00")))

	st, err := s.ClassificationStats(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, int64(10), st.TotalItems)
	assert.Equal(t, int64(3), st.NeedsReview)
	assert.Equal(t, "71.43", st.AverageScore.StringFixed(2))
	require.Len(t, st.ByCostCenter, 1)
	assert.Equal(t, "materia_prima", st.ByCostCenter[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
