package importer

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/model"
)

func buildZip(t *testing.T, files map[string]string, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestImportZip(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	files := map[string]string{
		"nfs/nf-1234.xml": sampleNFe,
		"nfs/danfe.pdf":   "%PDF-1.4",
		"leia-me.txt":     "ignored",
		"nfs/ruim.xml":    "<infNFe>",
	}
	data := buildZip(t, files, []string{"nfs/nf-1234.xml", "nfs/danfe.pdf", "leia-me.txt", "nfs/ruim.xml"})
	user := int64(3)

	st.On("GetContract", ctx, int64(8)).Return(&model.Contract{ID: 8}, nil)
	st.On("CreateInvoice", ctx, mock.MatchedBy(func(inv *model.Invoice) bool {
		id, ok := inv.Link.ContractID()
		_, hasOrder := inv.Link.OrderID()
		return ok && id == 8 && !hasOrder
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Invoice).ID = 70
	}).Return(nil)
	st.On("CreateAttachment", ctx, mock.MatchedBy(func(a *model.Attachment) bool {
		return a.Type == model.AttachNotaFiscal && a.OriginalFilename == "danfe.pdf" &&
			a.Entity == model.Ref(model.EntityContract, 8) && *a.UploadedBy == user
	})).Return(nil)

	res, err := svc.ImportZip(ctx, 8, File{Name: "lote.ZIP", Data: data}, &user)
	require.NoError(t, err)

	assert.Equal(t, 2, res.ProcessedCount)
	assert.Equal(t, 1, res.FailedCount)
	require.Len(t, res.Invoices, 1)
	assert.Equal(t, BulkInvoice{ID: 70, Number: "1234", TotalValue: dec("400"), File: "nf-1234.xml"}, res.Invoices[0])
	require.Len(t, res.Attachments, 1)
	require.Len(t, res.Errors, 1)
	assert.True(t, strings.HasPrefix(res.Errors[0], "error processing ruim.xml: could not process XML"))
}

func TestImportZip_Rejects(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	_, err := svc.ImportZip(ctx, 1, File{Name: "lote.rar"}, nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	st.On("GetContract", ctx, int64(1)).Return(nil, apperr.NotFound("contract 1 not found")).Once()
	_, err = svc.ImportZip(ctx, 1, File{Name: "lote.zip"}, nil)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	st.On("GetContract", ctx, int64(2)).Return(&model.Contract{ID: 2}, nil).Once()
	_, err = svc.ImportZip(ctx, 2, File{Name: "lote.zip", Data: []byte("garbage")}, nil)
	require.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "invalid ZIP archive")
}

func TestImportFiles(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	contractID := int64(5)

	st.On("ListPurchaseOrders", ctx, model.OrderFilter{ContractID: &contractID, Limit: 1}).
		Return([]model.PurchaseOrder{{ID: 12}}, nil)
	st.On("CreateInvoice", ctx, mock.MatchedBy(func(inv *model.Invoice) bool {
		return inv.Link.Kind() == model.LinkBoth
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Invoice).ID = 1
	}).Return(nil).Once()
	st.On("CreateInvoice", ctx, mock.MatchedBy(func(inv *model.Invoice) bool {
		return inv.Link.Kind() == model.LinkPurchaseOrder
	})).Return(eris.New("connection reset")).Once()

	results, err := svc.ImportFiles(ctx, contractID, []File{
		{Name: "nf.xml", Data: []byte(sampleNFe)},
		{Name: "itens.csv", Data: []byte("descricao,valor_total\nAreia,10\n")},
		{Name: "foto.jpg"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.Equal(t, int64(1), *results[0].InvoiceID)
	assert.False(t, results[1].Success)
	assert.Equal(t, "import failed", *results[1].Error)
	assert.False(t, results[2].Success)
	assert.Contains(t, *results[2].Error, "unsupported file type")
}

func TestImportFiles_NoOrders(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	_, err := svc.ImportFiles(ctx, 5, nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	st.On("ListPurchaseOrders", ctx, mock.Anything).Return([]model.PurchaseOrder{}, nil)
	_, err = svc.ImportFiles(ctx, 5, []File{{Name: "nf.xml"}})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestValidateFile(t *testing.T) {
	t.Parallel()

	book := buildXLSX(t, "Plan1", [][]cellValue{{"a"}})
	info, err := ValidateFile("orcamento.xlsx", bytes.NewReader(book))
	require.NoError(t, err)
	assert.True(t, info.Valid)
	assert.Equal(t, "excel", info.Type)
	assert.Equal(t, []string{"Plan1"}, info.Sheets)
	assert.Equal(t, int64(len(book)), info.Size)

	info, err = ValidateFile("nf.xml", strings.NewReader("texto"))
	require.NoError(t, err)
	assert.False(t, info.Valid)

	info, err = ValidateFile("antigo.xls", strings.NewReader("biff"))
	require.NoError(t, err)
	assert.Equal(t, "excel", info.Type)
	assert.False(t, info.Valid)

	info, err = ValidateFile("foto.png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.False(t, info.Valid)
	assert.Empty(t, info.Type)
}
