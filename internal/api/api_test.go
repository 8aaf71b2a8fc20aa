package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/attach"
	"github.com/sells-group/contract-costs/internal/auth"
	"github.com/sells-group/contract-costs/internal/classify"
	"github.com/sells-group/contract-costs/internal/config"
	"github.com/sells-group/contract-costs/internal/importer"
	"github.com/sells-group/contract-costs/internal/model"
	"github.com/sells-group/contract-costs/internal/store/mocks"
	"github.com/sells-group/contract-costs/internal/webhook"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type fixture struct {
	t       *testing.T
	store   *mocks.MockStore
	tokens  *auth.Tokens
	server  *Server
	handler http.Handler
}

func newFixture(t *testing.T, cfg config.ServerConfig, hookURL string) *fixture {
	t.Helper()
	st := mocks.NewMockStore(t)
	tokens, err := auth.NewTokens(config.AuthConfig{SecretKey: "test-secret", TokenTTLMinutes: 10})
	require.NoError(t, err)

	cls := classify.NewService(st)
	files := attach.NewService(st, t.TempDir())
	srv := NewServer(cfg, Services{
		Store:    st,
		Auth:     auth.NewService(st, tokens),
		Importer: importer.NewService(st, cls, files, config.ImportConfig{TempDir: t.TempDir()}),
		Classify: cls,
		Attach:   files,
		Webhook:  webhook.NewTrigger(st, config.WebhookConfig{BaseURL: hookURL, TimeoutSecs: 1}),
	})
	return &fixture{t: t, store: st, tokens: tokens, server: srv, handler: srv.Handler()}
}

func user(id int64, role model.Role) *model.User {
	return &model.User{ID: id, Username: string(role), Role: role, Active: true}
}

// as signs the next requests in as u.
func (f *fixture) as(u *model.User) string {
	f.t.Helper()
	f.store.On("GetUser", mock.Anything, u.ID).Return(u, nil).Maybe()
	token, _, err := f.tokens.Issue(u.ID, u.Role)
	require.NoError(f.t, err)
	return token
}

func (f *fixture) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	f.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) json(method, path, token, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return f.do(method, path, token, r, "application/json")
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestHealth(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	f.store.On("Ping", mock.Anything).Return(nil).Once()
	rec := f.json(http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)

	f.store.On("Ping", mock.Anything).Return(errors.New("connection refused")).Once()
	rec = f.json(http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unhealthy"`)
}

func TestLogin(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	hash, err := auth.HashPassword("segredo1")
	require.NoError(t, err)
	u := &model.User{ID: 3, Username: "ana", PasswordHash: hash, Role: model.RoleDiretoria, Active: true}
	f.store.On("GetUserByLogin", mock.Anything, "ana").Return(u, nil)

	rec := f.json(http.MethodPost, "/api/v1/auth/login", "", `{"username":"ana","password":"segredo1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res auth.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "bearer", res.TokenType)
	claims, err := f.tokens.Parse(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, model.RoleDiretoria, claims.Role)

	rec = f.do(http.MethodPost, "/api/v1/auth/login", "",
		strings.NewReader("username=ana&password=errada1"), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "incorrect username or password", errorOf(t, rec))
}

func TestLogin_RateLimited(t *testing.T) {
	f := newFixture(t, config.ServerConfig{LoginRatePerMin: 2}, "")
	for range 2 {
		rec := f.json(http.MethodPost, "/api/v1/auth/login", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	rec := f.json(http.MethodPost, "/api/v1/auth/login", "", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestAuthentication(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")

	rec := f.json(http.MethodGet, "/api/v1/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.json(http.MethodGet, "/api/v1/auth/me", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := f.as(user(9, model.RoleCliente))
	rec = f.json(http.MethodGet, "/api/v1/auth/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"cliente"`)
}

func TestRoleGates(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	cliente := f.as(user(9, model.RoleCliente))
	comercial := f.as(user(10, model.RoleComercial))

	tests := []struct {
		name   string
		method string
		path   string
		token  string
	}{
		{"create contract as cliente", http.MethodPost, "/api/v1/contracts/", cliente},
		{"register as comercial", http.MethodPost, "/api/v1/auth/register", comercial},
		{"approve supplier as comercial", http.MethodPatch, "/api/v1/purchases/suppliers/1/approve", comercial},
		{"executive dashboard as comercial", http.MethodGet, "/api/v1/dashboards/executive", comercial},
		{"delete nf as comercial", http.MethodDelete, "/api/v1/nf/4", comercial},
		{"audit as cliente", http.MethodGet, "/api/v1/audit?entity_type=contract&entity_id=1", cliente},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.json(tt.method, tt.path, tt.token, "")
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, "insufficient permissions", errorOf(t, rec))
		})
	}
}

func TestNotFoundRoute(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	rec := f.json(http.MethodGet, "/api/v1/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", errorOf(t, rec))
}

func TestListContracts(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	token := f.as(user(1, model.RoleDiretoria))

	f.store.On("ListContracts", mock.Anything, model.ContractFilter{
		Client: "acme", Status: model.ContractInProgress, Limit: 100, Offset: 20,
	}).Return([]model.Contract{
		{ID: 1, ContractNumber: "CT-1", OriginalValue: decimal.NewFromInt(1000)},
		{ID: 2, ContractNumber: "CT-2", OriginalValue: decimal.NewFromInt(500)},
	}, nil)
	f.store.On("RealizedByContract", mock.Anything, []int64{1, 2}).
		Return(map[int64]decimal.Decimal{1: decimal.NewFromInt(250)}, nil)

	rec := f.json(http.MethodGet, "/api/v1/contracts/?client=acme&status=in_progress&limit=500&skip=20", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "CT-1", out[0]["contract_number"])
	assert.InDelta(t, 250.0, out[0]["spent_value"], 0.001)
	assert.InDelta(t, 25.0, out[0]["progress_percent"], 0.001)
	assert.InDelta(t, 0.0, out[1]["spent_value"], 0.001)
}

func TestListContracts_BadQuery(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	token := f.as(user(1, model.RoleDiretoria))

	rec := f.json(http.MethodGet, "/api/v1/contracts/?status=archived", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.json(http.MethodGet, "/api/v1/contracts/?limit=ten", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `invalid limit "ten"`, errorOf(t, rec))
}

func TestGetContract_NotFound(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	token := f.as(user(1, model.RoleDiretoria))
	f.store.On("GetContract", mock.Anything, int64(42)).Return(nil, apperr.NotFound("contract %d not found", 42))

	rec := f.json(http.MethodGet, "/api/v1/contracts/42", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "contract 42 not found", errorOf(t, rec))

	rec = f.json(http.MethodGet, "/api/v1/contracts/abc", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInternalErrorsAreHidden(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	token := f.as(user(1, model.RoleDiretoria))
	f.store.On("ListSuppliers", mock.Anything, false, 10, 0).
		Return(nil, errors.New("postgres: connection reset by peer"))

	rec := f.json(http.MethodGet, "/api/v1/purchases/suppliers", token, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", errorOf(t, rec))
}

func TestUpdateContract_Audited(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	u := user(4, model.RoleComercial)
	token := f.as(u)

	before := &model.Contract{ID: 5, Status: model.ContractInProgress}
	after := &model.Contract{ID: 5, Status: model.ContractPaused}
	paused := model.ContractPaused
	f.store.On("GetContract", mock.Anything, int64(5)).Return(before, nil)
	f.store.On("UpdateContract", mock.Anything, int64(5), model.ContractUpdate{Status: &paused}).Return(after, nil)
	f.store.On("AppendAudit", mock.Anything, mock.MatchedBy(func(e *model.AuditLog) bool {
		return e.Action == model.ActionUpdate &&
			e.Entity == model.Ref(model.EntityContract, 5) &&
			e.UserID != nil && *e.UserID == u.ID &&
			bytes.Contains(e.OldValues, []byte(`"in_progress"`)) &&
			bytes.Contains(e.NewValues, []byte(`"paused"`))
	})).Return(nil)

	rec := f.json(http.MethodPut, "/api/v1/contracts/5", token, `{"status":"paused"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"paused"`)

	rec = f.json(http.MethodPut, "/api/v1/contracts/5", token, `{"status":"gone"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.json(http.MethodPut, "/api/v1/contracts/5", token, `{"colour":"red"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderStatus_RejectsIllegalTransition(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	token := f.as(user(2, model.RoleSuprimentos))
	f.store.On("GetPurchaseOrder", mock.Anything, int64(8)).
		Return(&model.PurchaseOrder{ID: 8, Status: model.OrderDelivered}, nil)

	rec := f.json(http.MethodPatch, "/api/v1/purchases/orders/8/status", token, `{"status":"pending"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "cannot move order from delivered to pending", errorOf(t, rec))
	f.store.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSelectQuotation_AuditFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	token := f.as(user(2, model.RoleSuprimentos))
	f.store.On("SelectQuotation", mock.Anything, int64(12)).
		Return(&model.Quotation{ID: 12, PurchaseOrderID: 8, IsSelected: true}, nil)
	f.store.On("AppendAudit", mock.Anything, mock.Anything).Return(errors.New("audit table locked"))

	rec := f.json(http.MethodPost, "/api/v1/purchases/quotations/12/select", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_selected":true`)
}

func TestCreateInvoice_Validation(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	token := f.as(user(2, model.RoleSuprimentos))

	rec := f.json(http.MethodPost, "/api/v1/purchases/invoices", token,
		`{"invoice_number":"","issue_date":"2024-01-02T00:00:00Z","total_value":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.json(http.MethodPost, "/api/v1/purchases/invoices", token,
		`{"contract_id":1,"invoice_number":"NF-1","issue_date":"2024-01-02T00:00:00Z","total_value":10,
		"items":[{"description":"areia","quantity":2,"unit_value":3,"total_value":7}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorOf(t, rec), "item 1")

	f.store.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(inv *model.Invoice) bool {
		return inv.Link.Kind() == model.LinkContract && inv.InvoiceNumber == "NF-1"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Invoice).ID = 30
	}).Return(nil)
	f.store.On("AppendAudit", mock.Anything, mock.Anything).Return(nil)

	rec = f.json(http.MethodPost, "/api/v1/purchases/invoices", token,
		`{"contract_id":1,"invoice_number":"NF-1","issue_date":"2024-01-02T00:00:00Z","total_value":6,
		"items":[{"description":"areia","quantity":2,"unit_value":3,"total_value":6}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"id":30`)
}

func TestRejectNF_RequiresReason(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	token := f.as(user(2, model.RoleSuprimentos))

	rec := f.json(http.MethodPatch, "/api/v1/nf/3/reject", token, `{"reason":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.store.On("RejectNotaFiscal", mock.Anything, int64(3), "duplicada").
		Return(&model.NotaFiscal{ID: 3, Status: model.NFError}, nil)
	f.store.On("AppendAudit", mock.Anything, mock.Anything).Return(nil)
	rec = f.json(http.MethodPatch, "/api/v1/nf/3/reject", token, `{"reason":"duplicada"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"error"`)
}

func TestValidateNF_AlreadyValidated(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	token := f.as(user(2, model.RoleSuprimentos))
	f.store.On("GetNotaFiscal", mock.Anything, int64(3)).
		Return(&model.NotaFiscal{ID: 3, Status: model.NFValidated}, nil)

	rec := f.json(http.MethodPatch, "/api/v1/nf/3/validate", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.store.AssertNotCalled(t, "ValidateNotaFiscal", mock.Anything, mock.Anything)
}

func TestRealizedValue(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	token := f.as(user(1, model.RoleCliente))
	f.store.On("GetContract", mock.Anything, int64(7)).
		Return(&model.Contract{ID: 7, ContractNumber: "CT-7", OriginalValue: decimal.NewFromInt(2000)}, nil)
	f.store.On("RealizedValue", mock.Anything, int64(7)).Return(decimal.NewFromInt(500), nil)

	rec := f.json(http.MethodGet, "/api/v1/nf/contract/7/realized-value", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.InDelta(t, 1500.0, out["balance"], 0.001)
	assert.InDelta(t, 25.0, out["percent_realized"], 0.001)
}

func TestProcessFolder(t *testing.T) {
	var calls int
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if strings.HasSuffix(r.URL.Path, "/quebrada") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer hook.Close()

	f := newFixture(t, config.ServerConfig{}, hook.URL)
	u := user(2, model.RoleSuprimentos)
	token := f.as(u)

	f.store.On("StartProcessingLog", mock.Anything, "junho", &u.ID).Return(&model.ProcessingLog{ID: 1}, nil)
	f.store.On("CompleteProcessingLog", mock.Anything, int64(1), "webhook sent. status: 202").Return(nil)
	rec := f.json(http.MethodPost, "/api/v1/nf/process-folder", token, `{"nome_pasta":"junho"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"processing_log_id":1`)

	f.store.On("StartProcessingLog", mock.Anything, "quebrada", &u.ID).Return(&model.ProcessingLog{ID: 2}, nil)
	f.store.On("FailProcessingLog", mock.Anything, int64(2), mock.Anything).Return(nil)
	rec = f.json(http.MethodPost, "/api/v1/nf/process-folder", token, `{"nome_pasta":"quebrada"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = f.json(http.MethodPost, "/api/v1/nf/process-folder", token, `{"nome_pasta":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 2, calls)
}

func TestCreateRule(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	token := f.as(user(2, model.RoleSuprimentos))

	f.store.On("GetCostCenterByCode", mock.Anything, "pintura").
		Return(nil, apperr.NotFound("cost center %q not found", "pintura")).Once()
	rec := f.json(http.MethodPost, "/api/v1/classification/rules", token,
		`{"name":"tintas","cost_center_code":"pintura","keywords":["Tinta"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `unknown cost center "pintura"`, errorOf(t, rec))

	f.store.On("GetCostCenterByCode", mock.Anything, "materia_prima").
		Return(&model.CostCenter{ID: 1, Code: "materia_prima"}, nil)
	f.store.On("CreateClassificationRule", mock.Anything, mock.MatchedBy(func(r *model.ClassificationRule) bool {
		return r.Active && r.Priority == 5 && assert.ObjectsAreEqual([]string{"vergalhao", "aco"}, r.Keywords)
	})).Return(nil)
	rec = f.json(http.MethodPost, "/api/v1/classification/rules", token,
		`{"name":"aço","cost_center_code":"materia_prima","keywords":["Vergalhão"," AÇO ",""],"priority":5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestBatchClassify(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	token := f.as(user(2, model.RoleSuprimentos))
	f.store.On("ListClassificationRules", mock.Anything, true).Return(nil, nil)
	f.store.On("GetCostCenterByCode", mock.Anything, "materia_prima").
		Return(&model.CostCenter{ID: 1, Code: "materia_prima"}, nil)

	rec := f.json(http.MethodPost, "/api/v1/classification/classify", token,
		`{"items":[{"description":"Cimento CP-II 50kg"},{"description":"Caneta azul"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out []classify.Suggestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "materia_prima", out[0].Code)
	assert.False(t, out[0].Applied)
	assert.Empty(t, out[1].Code)

	rec = f.json(http.MethodPost, "/api/v1/classification/classify", token, `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticalReportRestricted(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	token := f.as(user(4, model.RoleComercial))

	rec := f.json(http.MethodPost, "/api/v1/reports/generate", token, `{"report_type":"analitico","format":"pdf","filters":{}}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.json(http.MethodGet, "/api/v1/reports/analytical/preview", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUploadAttachment(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	u := user(2, model.RoleSuprimentos)
	token := f.as(u)
	f.store.On("CreateAttachment", mock.Anything, mock.MatchedBy(func(a *model.Attachment) bool {
		return a.Entity == model.Ref(model.EntityPurchaseOrder, 8) &&
			a.Type == model.AttachDeliveryReceipt &&
			a.OriginalFilename == "canhoto.pdf" &&
			a.UploadedBy != nil && *a.UploadedBy == u.ID
	})).Return(nil)

	body, ctype := multipartBody(t, map[string]string{
		"entity_type":     "purchase_order",
		"entity_id":       "8",
		"attachment_type": "delivery_receipt",
	}, "file", "canhoto.pdf", []byte("%PDF-1.4"))
	rec := f.do(http.MethodPost, "/api/v1/attachments", token, body, ctype)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body, ctype = multipartBody(t, map[string]string{"entity_type": "planet", "entity_id": "8"},
		"file", "x.pdf", []byte("x"))
	rec = f.do(http.MethodPost, "/api/v1/attachments", token, body, ctype)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_TooLarge(t *testing.T) {
	f := newFixture(t, config.ServerConfig{MaxUploadMB: 1}, "")
	token := f.as(user(2, model.RoleSuprimentos))

	body, ctype := multipartBody(t, nil, "file", "big.xlsx", bytes.Repeat([]byte("a"), 2<<20))
	rec := f.do(http.MethodPost, "/api/v1/import/validate-file", token, body, ctype)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBucketSuggestions(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	token := f.as(user(1, model.RoleComercial))
	f.store.On("ListCostCenters", mock.Anything, true).Return([]model.CostCenter{{ID: 1, Code: "materia_prima"}}, nil)

	rec := f.json(http.MethodGet, "/api/v1/import/cost-centers/suggestions?description=cimento", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out bucketSuggestions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotNil(t, out.Suggested)
	assert.NotEmpty(t, out.Buckets)
	assert.Len(t, out.CostCenters, 1)
}

func multipartBody(t *testing.T, fields map[string]string, fileField, name string, data []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile(fileField, name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestDashboardFilters(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?from=2024-01-01&to=2024-03-31&contract_ids=3,%204", nil)
	f, err := dashboardFilters(req)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, f.ContractIDs)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), *f.To)

	for _, q := range []string{"from=2024-05-01&to=2024-01-01", "contract_ids=1,x", "from=yesterday"} {
		_, err := dashboardFilters(httptest.NewRequest(http.MethodGet, "/?"+q, nil))
		assert.True(t, apperr.Is(err, apperr.KindValidation), q)
	}
}

func TestWindow(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, window(all, 2, 2))
	assert.Equal(t, []int{5}, window(all, 10, 4))
	assert.Equal(t, []int{}, window(all, 10, 9))
}

func TestAuditContext(t *testing.T) {
	f := newFixture(t, config.ServerConfig{}, "")
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req.Header.Set("User-Agent", "costs-test")
	req = req.WithContext(auth.NewContext(context.Background(), user(6, model.RoleAdmin)))

	f.store.On("AppendAudit", mock.Anything, mock.MatchedBy(func(e *model.AuditLog) bool {
		return *e.UserID == 6 && *e.UserAgent == "costs-test" && e.IPAddress != nil &&
			e.OldValues == nil && e.NewValues == nil && e.Description == nil
	})).Return(nil)
	f.server.audit(req, model.ActionDelete, model.Ref(model.EntityInvoice, 1), nil, nil, "")
}
