package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/config"
	"github.com/sells-group/contract-costs/internal/model"
	"github.com/sells-group/contract-costs/internal/store/mocks"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

var fixedNow = time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestService(t *testing.T) (*Service, pgxmock.PgxPoolIface, *mocks.MockStore) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	pool.MatchExpectationsInOrder(false)

	st := mocks.NewMockStore(t)
	svc := NewService(pool, st, config.DashboardConfig{})
	svc.now = func() time.Time { return fixedNow }
	return svc, pool, st
}

func portfolio() []model.ContractFigures {
	return []model.ContractFigures{
		{ContractID: 1, Status: model.ContractInProgress, OriginalValue: dec("1000"),
			ReductionTargetPercent: dec("15"), Realized: dec("300"), BudgetTotal: dec("800")},
		{ContractID: 2, Status: model.ContractCompleted, OriginalValue: dec("500"),
			ReductionTargetPercent: dec("15"), Realized: dec("200")},
	}
}

func TestMonthWindows(t *testing.T) {
	got := MonthWindows(time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC), 3)
	require.Len(t, got, 3)
	assert.Equal(t, "Nov/2023", got[0].Label)
	assert.Equal(t, "Dec/2023", got[1].Label)
	assert.Equal(t, "Jan/2024", got[2].Label)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), got[1].Start)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got[1].End)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), got[2].End)
}

func expectSupplies(pool pgxmock.PgxPoolIface) {
	pool.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(total_value\), 0\) FROM purchase_orders$`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(int64(7), dec("3500")))
	pool.ExpectQuery(`FROM purchase_orders GROUP BY status`).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow("approved", int64(2)).AddRow("pending", int64(5)))
	pool.ExpectQuery(`FROM suppliers WHERE approved`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(4)))
	pool.ExpectQuery(`FROM quotations WHERE NOT is_selected`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(9)))
	pool.ExpectQuery(`FROM budget_items$`).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(dec("1000")))
	pool.ExpectQuery(`FROM notas_fiscais WHERE status = 'validated'`).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(dec("400")))
	pool.ExpectQuery(`GROUP BY cost_center_label`).
		WithArgs(fixedNow.AddDate(0, 0, -30)).
		WillReturnRows(pgxmock.NewRows([]string{"label", "sum"}).
			AddRow("MATERIA_PRIMA", dec("700")).AddRow("MAO_DE_OBRA", dec("300")))
	pool.ExpectQuery(`FROM purchase_orders WHERE issue_date >= \$1 AND issue_date < \$2`).
		WithArgs(time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(pgxmock.NewRows([]string{"month", "sum"}).
			AddRow(time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), dec("100")).
			AddRow(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), dec("50")))
}

func TestSupplies(t *testing.T) {
	svc, pool, _ := newTestService(t)
	expectSupplies(pool)

	got, err := svc.Supplies(context.Background(), Filters{})
	require.NoError(t, err)

	assert.Equal(t, int64(7), got.Summary.TotalOrders)
	assert.True(t, dec("3500").Equal(got.Summary.TotalValue))
	assert.Equal(t, int64(4), got.Summary.ApprovedSuppliers)
	assert.Equal(t, int64(9), got.Summary.PendingQuotations)
	assert.True(t, dec("600").Equal(got.Summary.Economy))
	assert.True(t, dec("60").Equal(got.Summary.EconomyPercent))
	assert.Equal(t, []StatusCount{{"approved", 2}, {"pending", 5}}, got.OrdersByStatus)
	require.Len(t, got.CostCenterExpenses, 2)
	assert.Equal(t, "MATERIA_PRIMA", got.CostCenterExpenses[0].Name)

	require.Len(t, got.MonthlyTrend, 6)
	assert.Equal(t, "Sep/2023", got.MonthlyTrend[0].Month)
	assert.True(t, dec("100").Equal(got.MonthlyTrend[3].Value))
	assert.True(t, got.MonthlyTrend[4].Value.IsZero())
	assert.Equal(t, "Feb/2024", got.MonthlyTrend[5].Month)
	assert.True(t, dec("50").Equal(got.MonthlyTrend[5].Value))
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestSupplies_ContractFilter(t *testing.T) {
	svc, pool, _ := newTestService(t)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := []int64{3}

	pool.ExpectQuery(`FROM purchase_orders WHERE issue_date >= \$1 AND contract_id = ANY\(\$2\)$`).
		WithArgs(from, ids).
		WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(int64(1), dec("10")))
	pool.ExpectQuery(`contract_id = ANY\(\$2\) GROUP BY status`).
		WithArgs(from, ids).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}))
	pool.ExpectQuery(`FROM suppliers WHERE approved`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	pool.ExpectQuery(`FROM quotations WHERE NOT is_selected`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	pool.ExpectQuery(`FROM budget_items WHERE contract_id = ANY\(\$1\)$`).
		WithArgs(ids).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(dec("0")))
	pool.ExpectQuery(`FROM notas_fiscais WHERE contract_id = ANY\(\$1\) AND status = 'validated'`).
		WithArgs(ids).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(dec("0")))
	pool.ExpectQuery(`GROUP BY cost_center_label`).
		WillReturnRows(pgxmock.NewRows([]string{"label", "sum"}))
	pool.ExpectQuery(`issue_date < \$2`).
		WillReturnRows(pgxmock.NewRows([]string{"month", "sum"}))

	got, err := svc.Supplies(context.Background(), Filters{From: &from, ContractIDs: ids})
	require.NoError(t, err)
	assert.True(t, got.Summary.Economy.IsZero())
	assert.True(t, got.Summary.EconomyPercent.IsZero())
	assert.Empty(t, got.OrdersByStatus)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestSupplies_QueryError(t *testing.T) {
	svc, pool, _ := newTestService(t)
	pool.ExpectQuery(`FROM suppliers WHERE approved`).WillReturnError(errors.New("conn lost"))

	_, err := svc.Supplies(context.Background(), Filters{})
	require.Error(t, err)
}

func expectExecutive(pool pgxmock.PgxPoolIface, st *mocks.MockStore, expiring int64) {
	st.On("AllContractFigures", mock.Anything).Return(portfolio(), nil)
	pool.ExpectQuery(`FROM contracts GROUP BY status`).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow("completed", int64(1)).AddRow("in_progress", int64(1)))
	pool.ExpectQuery(`ORDER BY original_value DESC, id LIMIT \$1`).
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "project_name", "client", "original_value", "status"}).
			AddRow(int64(1), "Obra A", "Cliente A", dec("1000"), model.ContractInProgress).
			AddRow(int64(2), "Obra B", "Cliente B", dec("500"), model.ContractCompleted))
	pool.ExpectQuery(`expected_end_date <= \$1`).
		WithArgs(fixedNow.AddDate(0, 0, 30)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(expiring))
	pool.ExpectQuery(`status = 'pending' AND issue_date <= \$1`).
		WithArgs(fixedNow.AddDate(0, 0, -15)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
}

func TestExecutive(t *testing.T) {
	svc, pool, st := newTestService(t)
	expectExecutive(pool, st, 2)

	got, err := svc.Executive(context.Background(), Filters{})
	require.NoError(t, err)

	s := got.Summary
	assert.Equal(t, 2, s.TotalContracts)
	assert.Equal(t, 1, s.ActiveContracts)
	assert.True(t, dec("1500").Equal(s.TotalValue))
	assert.True(t, dec("500").Equal(s.TotalRealized))
	assert.True(t, dec("33.33").Equal(s.RealizationPercent))
	assert.True(t, dec("1000").Equal(s.Balance))
	assert.True(t, dec("300").Equal(s.Economy))
	assert.True(t, dec("37.5").Equal(s.EconomyPercent))

	assert.True(t, dec("62.5").Equal(got.KPIs.BudgetAdherence))
	assert.True(t, s.RealizationPercent.Equal(got.KPIs.CompletionRate))
	require.Len(t, got.TopContracts, 2)
	assert.Equal(t, "Obra A", got.TopContracts[0].Name)

	require.Len(t, got.Alerts, 1)
	assert.Equal(t, "warning", got.Alerts[0].Type)
	assert.Equal(t, "2 contract(s) ending within 30 days", got.Alerts[0].Message)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestExecutive_FiltersFigures(t *testing.T) {
	svc, pool, st := newTestService(t)
	ids := []int64{2}

	st.On("AllContractFigures", mock.Anything).Return(portfolio(), nil)
	pool.ExpectQuery(`FROM contracts WHERE id = ANY\(\$1\) GROUP BY status`).WithArgs(ids).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).AddRow("completed", int64(1)))
	pool.ExpectQuery(`WHERE id = ANY\(\$1\) ORDER BY original_value DESC, id LIMIT \$2`).WithArgs(ids, 5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "project_name", "client", "original_value", "status"}))
	pool.ExpectQuery(`expected_end_date`).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	pool.ExpectQuery(`status = 'pending' AND issue_date`).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

	got, err := svc.Executive(context.Background(), Filters{ContractIDs: ids})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Summary.TotalContracts)
	assert.True(t, dec("500").Equal(got.Summary.TotalValue))
	assert.True(t, got.Summary.Economy.IsZero(), "no budget items means no economy")
	assert.True(t, got.KPIs.BudgetAdherence.IsZero())
	assert.Empty(t, got.Alerts)
}

func TestKPIs(t *testing.T) {
	svc, pool, st := newTestService(t)
	st.On("AllContractFigures", mock.Anything).Return(portfolio(), nil)
	pool.ExpectQuery(`status IN \('pending', 'approved'\)`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(6)))

	got, err := svc.KPIs(context.Background())
	require.NoError(t, err)
	assert.True(t, dec("1000").Equal(got.ContractBalance))
	assert.True(t, dec("37.5").Equal(got.RealizedSavings))
	assert.True(t, dec("15").Equal(got.ReductionTarget))
	assert.Equal(t, int64(6), got.PendingPurchases)
}

func TestKPISummary(t *testing.T) {
	svc, pool, _ := newTestService(t)
	start := fixedNow.AddDate(0, 0, -30)

	pool.ExpectQuery(`FROM contracts WHERE created_at >= \$1`).WithArgs(start).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	pool.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM\(total_value\), 0\) FROM purchase_orders WHERE issue_date >= \$1$`).
		WithArgs(start).
		WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(int64(4), dec("1000")))
	pool.ExpectQuery(`issue_date < \$2`).WithArgs(start.AddDate(0, 0, -30), start).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(dec("800")))

	got, err := svc.KPISummary(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 30, got.PeriodDays)
	assert.Equal(t, int64(3), got.PeriodContracts)
	assert.Equal(t, int64(4), got.PeriodOrders)
	assert.True(t, dec("25").Equal(got.ValueGrowth))
	assert.True(t, dec("250").Equal(got.AverageOrderValue))
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestKPISummary_NoPreviousValue(t *testing.T) {
	svc, pool, _ := newTestService(t)

	pool.ExpectQuery(`FROM contracts WHERE created_at`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	pool.ExpectQuery(`WHERE issue_date >= \$1$`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(int64(0), dec("0")))
	pool.ExpectQuery(`issue_date < \$2`).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(dec("0")))

	got, err := svc.KPISummary(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, got.ValueGrowth.IsZero())
	assert.True(t, got.AverageOrderValue.IsZero())
}

func TestRoleSummary(t *testing.T) {
	t.Run("diretoria gets the executive shape", func(t *testing.T) {
		svc, pool, st := newTestService(t)
		expectExecutive(pool, st, 0)

		got, err := svc.RoleSummary(context.Background(), model.RoleDiretoria, nil)
		require.NoError(t, err)
		assert.Equal(t, "executive", got.Audience)
		require.NotNil(t, got.Executive)
		assert.Nil(t, got.Supplies)
	})

	t.Run("suprimentos gets the supplies shape", func(t *testing.T) {
		svc, pool, _ := newTestService(t)
		expectSupplies(pool)

		got, err := svc.RoleSummary(context.Background(), model.RoleSuprimentos, nil)
		require.NoError(t, err)
		assert.Equal(t, "supplies", got.Audience)
		require.NotNil(t, got.Supplies)
		assert.Equal(t, int64(7), got.Supplies.TotalOrders)
		assert.Nil(t, got.Executive)
	})
}

func TestContractMetrics(t *testing.T) {
	svc, _, st := newTestService(t)
	ctx := context.Background()
	f := portfolio()[0]

	st.On("GetContract", ctx, int64(1)).Return(&model.Contract{
		ID: 1, ContractNumber: "CONT-1", ProjectName: "Obra A", Client: "Cliente A",
	}, nil)
	st.On("ContractFigures", ctx, int64(1)).Return(&f, nil)

	got, err := svc.ContractMetrics(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "CONT-1", got.ContractNumber)
	assert.True(t, dec("700").Equal(got.Balance))
	assert.True(t, dec("500").Equal(got.Savings))
	assert.True(t, got.TargetMet)
}

func TestContractKPIs(t *testing.T) {
	svc, _, st := newTestService(t)
	st.On("AllContractFigures", mock.Anything).Return(portfolio(), nil)

	got, err := svc.ContractKPIs(context.Background())
	require.NoError(t, err)
	assert.True(t, dec("1500").Equal(got.TotalValue))
	assert.True(t, dec("500").Equal(got.TotalSpent))
	assert.True(t, dec("33.33").Equal(got.AvgProgress))
	assert.Equal(t, 1, got.ActiveContracts)
}

func TestActiveContracts(t *testing.T) {
	svc, pool, st := newTestService(t)
	ctx := context.Background()

	pool.ExpectQuery(`WHERE status = 'in_progress' ORDER BY created_at DESC`).WithArgs(5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "project_name", "original_value", "status"}).
			AddRow(int64(4), "Obra D", dec("2000"), model.ContractInProgress).
			AddRow(int64(3), "Obra C", dec("0"), model.ContractInProgress))
	st.On("RealizedByContract", ctx, []int64{4, 3}).
		Return(map[int64]decimal.Decimal{4: dec("500"), 3: dec("10")}, nil)

	got, err := svc.ActiveContracts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, dec("25").Equal(got[0].Progress))
	assert.True(t, dec("500").Equal(got[0].Spent))
	assert.True(t, got[1].Progress.IsZero(), "zero budget reports zero progress")
}

func TestActiveContracts_None(t *testing.T) {
	svc, pool, _ := newTestService(t)
	pool.ExpectQuery(`WHERE status = 'in_progress'`).WithArgs(3).
		WillReturnRows(pgxmock.NewRows([]string{"id", "project_name", "original_value", "status"}))

	got, err := svc.ActiveContracts(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestActivities(t *testing.T) {
	svc, pool, _ := newTestService(t)
	at := fixedNow.Add(-time.Hour)

	pool.ExpectQuery(`UNION ALL`).WithArgs(10).
		WillReturnRows(pgxmock.NewRows([]string{"kind", "id", "label", "at", "value"}).
			AddRow("nota_fiscal", int64(9), "1234", at, dec("400")).
			AddRow("purchase_order", int64(8), "PO-0008", at, dec("900")).
			AddRow("contract", int64(1), "Obra A", at, dec("1000")))

	got, err := svc.Activities(context.Background(), 99)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "nota fiscal 1234 validated", got[0].Description)
	assert.Equal(t, "purchase order PO-0008 issued", got[1].Description)
	assert.Equal(t, `contract "Obra A" created`, got[2].Description)
}

func expectAlertCounts(pool pgxmock.PgxPoolIface, expiring, stale, nfErrors int64) {
	pool.ExpectQuery(`expected_end_date <= \$1`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(expiring))
	pool.ExpectQuery(`status = 'pending' AND issue_date <= \$1`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(stale))
	pool.ExpectQuery(`FROM notas_fiscais WHERE status = 'error'`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(nfErrors))
}

func TestAlerts(t *testing.T) {
	svc, pool, _ := newTestService(t)
	pool.ExpectQuery(`WHERE original_value > \$1`).WithArgs(decimal.NewFromFloat(1_000_000)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "project_name", "original_value"}).
			AddRow(int64(5), "Hospital", dec("2500000")))
	expectAlertCounts(pool, 1, 3, 2)

	got, err := svc.Alerts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "budget", got[0].Type)
	assert.Equal(t, int64(5), *got[0].ContractID)
	assert.Contains(t, got[0].Description, "2500000.00")
	assert.Equal(t, "deadline", got[1].Type)
	assert.Equal(t, int64(3), got[2].Count)
	assert.Equal(t, "nota_fiscal", got[3].Type)
}

func TestAlerts_AllClear(t *testing.T) {
	svc, pool, _ := newTestService(t)
	pool.ExpectQuery(`WHERE original_value > \$1`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "project_name", "original_value"}))
	expectAlertCounts(pool, 0, 0, 0)

	got, err := svc.Alerts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "low", got[0].Priority)
}

func TestNFStats(t *testing.T) {
	svc, pool, _ := newTestService(t)

	pool.ExpectQuery(`FROM notas_fiscais GROUP BY status`).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count", "sum"}).
			AddRow(model.NFProcessed, int64(3), dec("300")).
			AddRow(model.NFValidated, int64(5), dec("1500")).
			AddRow(model.NFError, int64(1), dec("20")))
	pool.ExpectQuery(`FROM notas_fiscais WHERE issue_date >= \$1 AND issue_date < \$2`).
		WithArgs(time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(pgxmock.NewRows([]string{"month", "count", "sum"}).
			AddRow(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), int64(2), dec("250")))

	got, err := svc.NFStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.Total)
	assert.Equal(t, int64(3), got.PendingValidation)
	assert.Equal(t, int64(5), got.Validated)
	assert.Equal(t, int64(1), got.Rejected)
	assert.True(t, dec("1820").Equal(got.TotalValue))

	require.Len(t, got.Monthly, 12)
	assert.Equal(t, MonthStat{Month: "Mar", Year: 2023}, got.Monthly[0])
	assert.Equal(t, "Jan", got.Monthly[10].Month)
	assert.Equal(t, int64(2), got.Monthly[10].Count)
	assert.True(t, dec("250").Equal(got.Monthly[10].Value))
	assert.NoError(t, pool.ExpectationsWereMet())
}
