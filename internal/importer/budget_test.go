package importer

import (
	"context"
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/model"
)

func toStrings(rows [][]cellValue) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = make([]string, len(r))
		for j, v := range r {
			out[i][j] = fmt.Sprint(v)
		}
	}
	return out
}

func TestParseBudget(t *testing.T) {
	t.Parallel()

	p := ParseBudget(toStrings(budgetRows()), testLayout())

	require.NotNil(t, p.ContractTotal)
	assert.True(t, dec("1500.5").Equal(*p.ContractTotal))

	require.Len(t, p.Items, 2)
	first := p.Items[0]
	assert.Equal(t, "1.1", first.ItemCode)
	assert.Equal(t, "Mobilização", first.Description)
	assert.Equal(t, "vb", *first.Unit)
	assert.True(t, dec("500.50").Equal(first.TotalPrice))
	assert.Nil(t, first.Note)
	assert.Equal(t, 4, first.Row)

	second := p.Items[1]
	assert.True(t, dec("1000").Equal(second.TotalPrice))
	assert.True(t, dec("6").Equal(*second.DurationMonths))
	assert.Equal(t, "turno único", *second.Note)

	assert.Equal(t, []string{`row 7: invalid total price "abc"`}, p.Errors)
	assert.True(t, dec("1500.50").Equal(p.ItemsTotal))
}

func TestParseBudget_NonNumericTotalCell(t *testing.T) {
	t.Parallel()

	rows := toStrings(budgetRows())
	rows[1][1] = "R$ 1.500,50"
	p := ParseBudget(rows, testLayout())
	assert.Nil(t, p.ContractTotal)
}

func TestParseBudget_ShortSheet(t *testing.T) {
	t.Parallel()

	p := ParseBudget([][]string{{"x"}}, testLayout())
	assert.Nil(t, p.ContractTotal)
	assert.Empty(t, p.Items)
	assert.Empty(t, p.Errors)
}

func TestImportBudget_ParseOnly(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.ImportBudget(context.Background(), File{Name: "qqp.xlsx", Data: buildXLSX(t, "QQP_Cliente", budgetRows())}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ImportedItems)
	assert.Nil(t, res.ContractID)
	require.NotNil(t, res.ContractTotal)
	assert.True(t, dec("1500.5").Equal(*res.ContractTotal))
}

func TestImportBudget_PersistsForContract(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	id := int64(5)

	st.On("GetContract", ctx, id).Return(&model.Contract{ID: id}, nil)
	st.On("InsertForecastValues", ctx, id, mock.MatchedBy(func(v []model.ForecastValue) bool {
		return len(v) == 2 && v[0].ContractID == id && v[1].ItemCode == "1.2"
	})).Return(int64(2), nil)

	res, err := svc.ImportBudget(ctx, File{Name: "qqp.xlsx", Data: buildXLSX(t, "QQP_Cliente", budgetRows())}, &id)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ImportedItems)
}

func TestImportBudget_Rejects(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ImportBudget(context.Background(), File{Name: "qqp.pdf", Data: []byte("x")}, nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.ImportBudget(context.Background(), File{Name: "qqp.xlsx", Data: buildXLSX(t, "Outra", budgetRows())}, nil)
	require.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "QQP_Cliente")
}

func TestImportBudget_LegacyXLS(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ImportBudget(context.Background(), File{Name: "QQP.XLS", Data: []byte{0xD0, 0xCF, 0x11, 0xE0}}, nil)
	require.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "save the file as .xlsx")
}

func newContractInput() model.NewContract {
	return model.NewContract{
		ProjectName:  "Obra Centro",
		Client:       "Construtora X",
		ContractType: model.ContractService,
		StartDate:    fixedNow,
		CreatedBy:    1,
	}
}

func TestCreateContractWithBudget(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	st.On("CreateContract", ctx, mock.MatchedBy(func(c *model.Contract) bool {
		return c.ContractNumber == fmt.Sprintf("CONT-%d-1234", fixedNow.Unix()) &&
			c.OriginalValue.Equal(dec("1500.5")) && c.Status == model.ContractInProgress
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Contract).ID = 77
	}).Return(nil)
	st.On("InsertForecastValues", ctx, int64(77), mock.Anything).Return(int64(2), nil)

	c, res, err := svc.CreateContractWithBudget(ctx, newContractInput(),
		File{Name: "qqp.xlsx", Data: buildXLSX(t, "QQP_Cliente", budgetRows())})
	require.NoError(t, err)
	assert.Equal(t, int64(77), c.ID)
	assert.Equal(t, 2, res.ImportedItems)
	assert.Equal(t, int64(77), *res.ContractID)
}

func TestCreateContractWithBudget_CompensatesOnItemFailure(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	st.On("CreateContract", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Contract).ID = 77
	}).Return(nil)
	copyErr := eris.New("copy failed")
	st.On("InsertForecastValues", ctx, int64(77), mock.Anything).Return(int64(0), copyErr)
	st.On("DeleteContract", mock.Anything, int64(77)).Return(nil).Once()

	c, _, err := svc.CreateContractWithBudget(ctx, newContractInput(),
		File{Name: "qqp.xlsx", Data: buildXLSX(t, "QQP_Cliente", budgetRows())})
	require.Error(t, err)
	assert.Nil(t, c)
	assert.False(t, apperr.Is(err, apperr.KindValidation), "store failures keep their own kind")
	assert.ErrorIs(t, err, copyErr)
	st.AssertCalled(t, "DeleteContract", mock.Anything, int64(77))
}

func TestCreateContractWithBudget_CompensatesAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc, st := newTestService(t)

	st.On("CreateContract", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Contract).ID = 77
	}).Return(nil)
	st.On("InsertForecastValues", mock.Anything, int64(77), mock.Anything).Run(func(mock.Arguments) {
		cancel()
	}).Return(int64(0), context.Canceled)
	st.On("DeleteContract", mock.MatchedBy(func(c context.Context) bool {
		return c.Err() == nil
	}), int64(77)).Return(nil).Once()

	_, _, err := svc.CreateContractWithBudget(ctx, newContractInput(),
		File{Name: "qqp.xlsx", Data: buildXLSX(t, "QQP_Cliente", budgetRows())})
	require.ErrorIs(t, err, context.Canceled)
	st.AssertNumberOfCalls(t, "DeleteContract", 1)
}

func TestCreateContractWithBudget_NoTotalWritesNothing(t *testing.T) {
	svc, st := newTestService(t)

	rows := budgetRows()
	rows[1][1] = "sem valor"
	_, _, err := svc.CreateContractWithBudget(context.Background(), newContractInput(),
		File{Name: "qqp.xlsx", Data: buildXLSX(t, "QQP_Cliente", rows)})
	require.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "contract total")
	st.AssertNotCalled(t, "CreateContract", mock.Anything, mock.Anything)
}

func TestCreateContractWithBudget_InvalidInput(t *testing.T) {
	svc, _ := newTestService(t)

	in := newContractInput()
	in.ContractType = "obra"
	_, _, err := svc.CreateContractWithBudget(context.Background(), in, File{Name: "qqp.xlsx"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	in = newContractInput()
	in.Client = " "
	_, _, err = svc.CreateContractWithBudget(context.Background(), in, File{Name: "qqp.xlsx"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
