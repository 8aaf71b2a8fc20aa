// Package mocks provides test doubles for the store.
package mocks

import (
	context "context"
	time "time"

	decimal "github.com/shopspring/decimal"
	mock "github.com/stretchr/testify/mock"

	model "github.com/sells-group/contract-costs/internal/model"
)

// MockStore is a mock type for the Store interface.
type MockStore struct {
	mock.Mock
}

// CreateContract provides a mock function with given fields: ctx, c
func (_m *MockStore) CreateContract(ctx context.Context, c *model.Contract) error {
	ret := _m.Called(ctx, c)

	if len(ret) == 0 {
		panic("no return value specified for CreateContract")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *model.Contract) error); ok {
		r0 = rf(ctx, c)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// GetContract provides a mock function with given fields: ctx, id
func (_m *MockStore) GetContract(ctx context.Context, id int64) (*model.Contract, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetContract")
	}

	var r0 *model.Contract
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*model.Contract, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) *model.Contract); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.Contract)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListContracts provides a mock function with given fields: ctx, filter
func (_m *MockStore) ListContracts(ctx context.Context, filter model.ContractFilter) ([]model.Contract, error) {
	ret := _m.Called(ctx, filter)

	if len(ret) == 0 {
		panic("no return value specified for ListContracts")
	}

	var r0 []model.Contract
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.ContractFilter) ([]model.Contract, error)); ok {
		return rf(ctx, filter)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.ContractFilter) []model.Contract); ok {
		r0 = rf(ctx, filter)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.Contract)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.ContractFilter) error); ok {
		r1 = rf(ctx, filter)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// UpdateContract provides a mock function with given fields: ctx, id, u
func (_m *MockStore) UpdateContract(ctx context.Context, id int64, u model.ContractUpdate) (*model.Contract, error) {
	ret := _m.Called(ctx, id, u)

	if len(ret) == 0 {
		panic("no return value specified for UpdateContract")
	}

	var r0 *model.Contract
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, model.ContractUpdate) (*model.Contract, error)); ok {
		return rf(ctx, id, u)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64, model.ContractUpdate) *model.Contract); ok {
		r0 = rf(ctx, id, u)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.Contract)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64, model.ContractUpdate) error); ok {
		r1 = rf(ctx, id, u)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// DeleteContract provides a mock function with given fields: ctx, id
func (_m *MockStore) DeleteContract(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for DeleteContract")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) error); ok {
		r0 = rf(ctx, id)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ListBudgetItems provides a mock function with given fields: ctx, contractID
func (_m *MockStore) ListBudgetItems(ctx context.Context, contractID int64) ([]model.BudgetItem, error) {
	ret := _m.Called(ctx, contractID)

	if len(ret) == 0 {
		panic("no return value specified for ListBudgetItems")
	}

	var r0 []model.BudgetItem
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) ([]model.BudgetItem, error)); ok {
		return rf(ctx, contractID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) []model.BudgetItem); ok {
		r0 = rf(ctx, contractID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.BudgetItem)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, contractID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// InsertForecastValues provides a mock function with given fields: ctx, contractID, values
func (_m *MockStore) InsertForecastValues(ctx context.Context, contractID int64, values []model.ForecastValue) (int64, error) {
	ret := _m.Called(ctx, contractID, values)

	if len(ret) == 0 {
		panic("no return value specified for InsertForecastValues")
	}

	var r0 int64
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, []model.ForecastValue) (int64, error)); ok {
		return rf(ctx, contractID, values)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64, []model.ForecastValue) int64); ok {
		r0 = rf(ctx, contractID, values)
	} else {
		r0 = ret.Get(0).(int64)
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64, []model.ForecastValue) error); ok {
		r1 = rf(ctx, contractID, values)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListForecastValues provides a mock function with given fields: ctx, contractID
func (_m *MockStore) ListForecastValues(ctx context.Context, contractID int64) ([]model.ForecastValue, error) {
	ret := _m.Called(ctx, contractID)

	if len(ret) == 0 {
		panic("no return value specified for ListForecastValues")
	}

	var r0 []model.ForecastValue
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) ([]model.ForecastValue, error)); ok {
		return rf(ctx, contractID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) []model.ForecastValue); ok {
		r0 = rf(ctx, contractID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.ForecastValue)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, contractID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// RealizedValue provides a mock function with given fields: ctx, contractID
func (_m *MockStore) RealizedValue(ctx context.Context, contractID int64) (decimal.Decimal, error) {
	ret := _m.Called(ctx, contractID)

	if len(ret) == 0 {
		panic("no return value specified for RealizedValue")
	}

	var r0 decimal.Decimal
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (decimal.Decimal, error)); ok {
		return rf(ctx, contractID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) decimal.Decimal); ok {
		r0 = rf(ctx, contractID)
	} else {
		r0 = ret.Get(0).(decimal.Decimal)
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, contractID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// RealizedByContract provides a mock function with given fields: ctx, contractIDs
func (_m *MockStore) RealizedByContract(ctx context.Context, contractIDs []int64) (map[int64]decimal.Decimal, error) {
	ret := _m.Called(ctx, contractIDs)

	if len(ret) == 0 {
		panic("no return value specified for RealizedByContract")
	}

	var r0 map[int64]decimal.Decimal
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, []int64) (map[int64]decimal.Decimal, error)); ok {
		return rf(ctx, contractIDs)
	}
	if rf, ok := ret.Get(0).(func(context.Context, []int64) map[int64]decimal.Decimal); ok {
		r0 = rf(ctx, contractIDs)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(map[int64]decimal.Decimal)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, []int64) error); ok {
		r1 = rf(ctx, contractIDs)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ContractFigures provides a mock function with given fields: ctx, contractID
func (_m *MockStore) ContractFigures(ctx context.Context, contractID int64) (*model.ContractFigures, error) {
	ret := _m.Called(ctx, contractID)

	if len(ret) == 0 {
		panic("no return value specified for ContractFigures")
	}

	var r0 *model.ContractFigures
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*model.ContractFigures, error)); ok {
		return rf(ctx, contractID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) *model.ContractFigures); ok {
		r0 = rf(ctx, contractID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.ContractFigures)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, contractID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// AllContractFigures provides a mock function with given fields: ctx
func (_m *MockStore) AllContractFigures(ctx context.Context) ([]model.ContractFigures, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for AllContractFigures")
	}

	var r0 []model.ContractFigures
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]model.ContractFigures, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) []model.ContractFigures); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.ContractFigures)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// CreateSupplier provides a mock function with given fields: ctx, s
func (_m *MockStore) CreateSupplier(ctx context.Context, s *model.Supplier) error {
	ret := _m.Called(ctx, s)

	if len(ret) == 0 {
		panic("no return value specified for CreateSupplier")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *model.Supplier) error); ok {
		r0 = rf(ctx, s)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// GetSupplier provides a mock function with given fields: ctx, id
func (_m *MockStore) GetSupplier(ctx context.Context, id int64) (*model.Supplier, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetSupplier")
	}

	var r0 *model.Supplier
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*model.Supplier, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) *model.Supplier); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.Supplier)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListSuppliers provides a mock function with given fields: ctx, approvedOnly, limit, offset
func (_m *MockStore) ListSuppliers(ctx context.Context, approvedOnly bool, limit int, offset int) ([]model.Supplier, error) {
	ret := _m.Called(ctx, approvedOnly, limit, offset)

	if len(ret) == 0 {
		panic("no return value specified for ListSuppliers")
	}

	var r0 []model.Supplier
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, bool, int, int) ([]model.Supplier, error)); ok {
		return rf(ctx, approvedOnly, limit, offset)
	}
	if rf, ok := ret.Get(0).(func(context.Context, bool, int, int) []model.Supplier); ok {
		r0 = rf(ctx, approvedOnly, limit, offset)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.Supplier)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, bool, int, int) error); ok {
		r1 = rf(ctx, approvedOnly, limit, offset)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ApproveSupplier provides a mock function with given fields: ctx, id
func (_m *MockStore) ApproveSupplier(ctx context.Context, id int64) (*model.Supplier, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for ApproveSupplier")
	}

	var r0 *model.Supplier
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*model.Supplier, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) *model.Supplier); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.Supplier)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// CreatePurchaseOrder provides a mock function with given fields: ctx, o
func (_m *MockStore) CreatePurchaseOrder(ctx context.Context, o model.NewPurchaseOrder) (*model.PurchaseOrder, error) {
	ret := _m.Called(ctx, o)

	if len(ret) == 0 {
		panic("no return value specified for CreatePurchaseOrder")
	}

	var r0 *model.PurchaseOrder
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.NewPurchaseOrder) (*model.PurchaseOrder, error)); ok {
		return rf(ctx, o)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.NewPurchaseOrder) *model.PurchaseOrder); ok {
		r0 = rf(ctx, o)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.PurchaseOrder)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.NewPurchaseOrder) error); ok {
		r1 = rf(ctx, o)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetPurchaseOrder provides a mock function with given fields: ctx, id
func (_m *MockStore) GetPurchaseOrder(ctx context.Context, id int64) (*model.PurchaseOrder, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetPurchaseOrder")
	}

	var r0 *model.PurchaseOrder
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*model.PurchaseOrder, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) *model.PurchaseOrder); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.PurchaseOrder)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListPurchaseOrders provides a mock function with given fields: ctx, filter
func (_m *MockStore) ListPurchaseOrders(ctx context.Context, filter model.OrderFilter) ([]model.PurchaseOrder, error) {
	ret := _m.Called(ctx, filter)

	if len(ret) == 0 {
		panic("no return value specified for ListPurchaseOrders")
	}

	var r0 []model.PurchaseOrder
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.OrderFilter) ([]model.PurchaseOrder, error)); ok {
		return rf(ctx, filter)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.OrderFilter) []model.PurchaseOrder); ok {
		r0 = rf(ctx, filter)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.PurchaseOrder)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.OrderFilter) error); ok {
		r1 = rf(ctx, filter)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// UpdateOrderStatus provides a mock function with given fields: ctx, id, status
func (_m *MockStore) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.PurchaseOrder, error) {
	ret := _m.Called(ctx, id, status)

	if len(ret) == 0 {
		panic("no return value specified for UpdateOrderStatus")
	}

	var r0 *model.PurchaseOrder
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, model.OrderStatus) (*model.PurchaseOrder, error)); ok {
		return rf(ctx, id, status)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64, model.OrderStatus) *model.PurchaseOrder); ok {
		r0 = rf(ctx, id, status)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.PurchaseOrder)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64, model.OrderStatus) error); ok {
		r1 = rf(ctx, id, status)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// AddQuotation provides a mock function with given fields: ctx, q
func (_m *MockStore) AddQuotation(ctx context.Context, q *model.Quotation) error {
	ret := _m.Called(ctx, q)

	if len(ret) == 0 {
		panic("no return value specified for AddQuotation")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *model.Quotation) error); ok {
		r0 = rf(ctx, q)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// SelectQuotation provides a mock function with given fields: ctx, quotationID
func (_m *MockStore) SelectQuotation(ctx context.Context, quotationID int64) (*model.Quotation, error) {
	ret := _m.Called(ctx, quotationID)

	if len(ret) == 0 {
		panic("no return value specified for SelectQuotation")
	}

	var r0 *model.Quotation
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*model.Quotation, error)); ok {
		return rf(ctx, quotationID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) *model.Quotation); ok {
		r0 = rf(ctx, quotationID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.Quotation)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, quotationID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// CreateInvoice provides a mock function with given fields: ctx, inv
func (_m *MockStore) CreateInvoice(ctx context.Context, inv *model.Invoice) error {
	ret := _m.Called(ctx, inv)

	if len(ret) == 0 {
		panic("no return value specified for CreateInvoice")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *model.Invoice) error); ok {
		r0 = rf(ctx, inv)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// GetInvoice provides a mock function with given fields: ctx, id
func (_m *MockStore) GetInvoice(ctx context.Context, id int64) (*model.Invoice, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetInvoice")
	}

	var r0 *model.Invoice
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*model.Invoice, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) *model.Invoice); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.Invoice)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListInvoices provides a mock function with given fields: ctx, filter
func (_m *MockStore) ListInvoices(ctx context.Context, filter model.InvoiceFilter) ([]model.Invoice, error) {
	ret := _m.Called(ctx, filter)

	if len(ret) == 0 {
		panic("no return value specified for ListInvoices")
	}

	var r0 []model.Invoice
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.InvoiceFilter) ([]model.Invoice, error)); ok {
		return rf(ctx, filter)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.InvoiceFilter) []model.Invoice); ok {
		r0 = rf(ctx, filter)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.Invoice)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.InvoiceFilter) error); ok {
		r1 = rf(ctx, filter)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// InvoiceSummary provides a mock function with given fields: ctx, contractID
func (_m *MockStore) InvoiceSummary(ctx context.Context, contractID int64) (*model.InvoiceSummary, error) {
	ret := _m.Called(ctx, contractID)

	if len(ret) == 0 {
		panic("no return value specified for InvoiceSummary")
	}

	var r0 *model.InvoiceSummary
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*model.InvoiceSummary, error)); ok {
		return rf(ctx, contractID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) *model.InvoiceSummary); ok {
		r0 = rf(ctx, contractID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.InvoiceSummary)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, contractID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// PayInvoice provides a mock function with given fields: ctx, id, paidAt
func (_m *MockStore) PayInvoice(ctx context.Context, id int64, paidAt time.Time) (*model.Invoice, error) {
	ret := _m.Called(ctx, id, paidAt)

	if len(ret) == 0 {
		panic("no return value specified for PayInvoice")
	}

	var r0 *model.Invoice
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, time.Time) (*model.Invoice, error)); ok {
		return rf(ctx, id, paidAt)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64, time.Time) *model.Invoice); ok {
		r0 = rf(ctx, id, paidAt)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.Invoice)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64, time.Time) error); ok {
		r1 = rf(ctx, id, paidAt)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// DeleteInvoice provides a mock function with given fields: ctx, id
func (_m *MockStore) DeleteInvoice(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for DeleteInvoice")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) error); ok {
		r0 = rf(ctx, id)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// CreateNotaFiscal provides a mock function with given fields: ctx, nf
func (_m *MockStore) CreateNotaFiscal(ctx context.Context, nf *model.NotaFiscal) error {
	ret := _m.Called(ctx, nf)

	if len(ret) == 0 {
		panic("no return value specified for CreateNotaFiscal")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *model.NotaFiscal) error); ok {
		r0 = rf(ctx, nf)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// GetNotaFiscal provides a mock function with given fields: ctx, id
func (_m *MockStore) GetNotaFiscal(ctx context.Context, id int64) (*model.NotaFiscal, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetNotaFiscal")
	}

	var r0 *model.NotaFiscal
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*model.NotaFiscal, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) *model.NotaFiscal); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.NotaFiscal)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListNotasFiscais provides a mock function with given fields: ctx, filter
func (_m *MockStore) ListNotasFiscais(ctx context.Context, filter model.NFFilter) ([]model.NotaFiscal, error) {
	ret := _m.Called(ctx, filter)

	if len(ret) == 0 {
		panic("no return value specified for ListNotasFiscais")
	}

	var r0 []model.NotaFiscal
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.NFFilter) ([]model.NotaFiscal, error)); ok {
		return rf(ctx, filter)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.NFFilter) []model.NotaFiscal); ok {
		r0 = rf(ctx, filter)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.NotaFiscal)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.NFFilter) error); ok {
		r1 = rf(ctx, filter)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// UpdateNotaFiscal provides a mock function with given fields: ctx, id, u
func (_m *MockStore) UpdateNotaFiscal(ctx context.Context, id int64, u model.NFUpdate) (*model.NotaFiscal, error) {
	ret := _m.Called(ctx, id, u)

	if len(ret) == 0 {
		panic("no return value specified for UpdateNotaFiscal")
	}

	var r0 *model.NotaFiscal
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, model.NFUpdate) (*model.NotaFiscal, error)); ok {
		return rf(ctx, id, u)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64, model.NFUpdate) *model.NotaFiscal); ok {
		r0 = rf(ctx, id, u)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.NotaFiscal)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64, model.NFUpdate) error); ok {
		r1 = rf(ctx, id, u)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ValidateNotaFiscal provides a mock function with given fields: ctx, id
func (_m *MockStore) ValidateNotaFiscal(ctx context.Context, id int64) (*model.NotaFiscal, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for ValidateNotaFiscal")
	}

	var r0 *model.NotaFiscal
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*model.NotaFiscal, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) *model.NotaFiscal); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.NotaFiscal)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// RejectNotaFiscal provides a mock function with given fields: ctx, id, reason
func (_m *MockStore) RejectNotaFiscal(ctx context.Context, id int64, reason string) (*model.NotaFiscal, error) {
	ret := _m.Called(ctx, id, reason)

	if len(ret) == 0 {
		panic("no return value specified for RejectNotaFiscal")
	}

	var r0 *model.NotaFiscal
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, string) (*model.NotaFiscal, error)); ok {
		return rf(ctx, id, reason)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64, string) *model.NotaFiscal); ok {
		r0 = rf(ctx, id, reason)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.NotaFiscal)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64, string) error); ok {
		r1 = rf(ctx, id, reason)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// DeleteNotaFiscal provides a mock function with given fields: ctx, id
func (_m *MockStore) DeleteNotaFiscal(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for DeleteNotaFiscal")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) error); ok {
		r0 = rf(ctx, id)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// GetNFItem provides a mock function with given fields: ctx, id
func (_m *MockStore) GetNFItem(ctx context.Context, id int64) (*model.NotaFiscalItem, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetNFItem")
	}

	var r0 *model.NotaFiscalItem
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*model.NotaFiscalItem, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) *model.NotaFiscalItem); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.NotaFiscalItem)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// UpdateNFItem provides a mock function with given fields: ctx, id, u
func (_m *MockStore) UpdateNFItem(ctx context.Context, id int64, u model.NFItemUpdate) (*model.NotaFiscalItem, error) {
	ret := _m.Called(ctx, id, u)

	if len(ret) == 0 {
		panic("no return value specified for UpdateNFItem")
	}

	var r0 *model.NotaFiscalItem
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, model.NFItemUpdate) (*model.NotaFiscalItem, error)); ok {
		return rf(ctx, id, u)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64, model.NFItemUpdate) *model.NotaFiscalItem); ok {
		r0 = rf(ctx, id, u)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.NotaFiscalItem)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64, model.NFItemUpdate) error); ok {
		r1 = rf(ctx, id, u)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// IntegrateNFItem provides a mock function with given fields: ctx, id, budgetItemID
func (_m *MockStore) IntegrateNFItem(ctx context.Context, id int64, budgetItemID int64) (*model.NotaFiscalItem, error) {
	ret := _m.Called(ctx, id, budgetItemID)

	if len(ret) == 0 {
		panic("no return value specified for IntegrateNFItem")
	}

	var r0 *model.NotaFiscalItem
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, int64) (*model.NotaFiscalItem, error)); ok {
		return rf(ctx, id, budgetItemID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64, int64) *model.NotaFiscalItem); ok {
		r0 = rf(ctx, id, budgetItemID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.NotaFiscalItem)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64, int64) error); ok {
		r1 = rf(ctx, id, budgetItemID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// SetNFItemClassification provides a mock function with given fields: ctx, id, c
func (_m *MockStore) SetNFItemClassification(ctx context.Context, id int64, c model.Classification) error {
	ret := _m.Called(ctx, id, c)

	if len(ret) == 0 {
		panic("no return value specified for SetNFItemClassification")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, model.Classification) error); ok {
		r0 = rf(ctx, id, c)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ClassificationStats provides a mock function with given fields: ctx, since
func (_m *MockStore) ClassificationStats(ctx context.Context, since time.Time) (*model.ClassificationStats, error) {
	ret := _m.Called(ctx, since)

	if len(ret) == 0 {
		panic("no return value specified for ClassificationStats")
	}

	var r0 *model.ClassificationStats
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, time.Time) (*model.ClassificationStats, error)); ok {
		return rf(ctx, since)
	}
	if rf, ok := ret.Get(0).(func(context.Context, time.Time) *model.ClassificationStats); ok {
		r0 = rf(ctx, since)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.ClassificationStats)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, time.Time) error); ok {
		r1 = rf(ctx, since)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// CreateCostCenter provides a mock function with given fields: ctx, cc
func (_m *MockStore) CreateCostCenter(ctx context.Context, cc *model.CostCenter) error {
	ret := _m.Called(ctx, cc)

	if len(ret) == 0 {
		panic("no return value specified for CreateCostCenter")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *model.CostCenter) error); ok {
		r0 = rf(ctx, cc)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// GetCostCenter provides a mock function with given fields: ctx, id
func (_m *MockStore) GetCostCenter(ctx context.Context, id int64) (*model.CostCenter, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetCostCenter")
	}

	var r0 *model.CostCenter
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*model.CostCenter, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) *model.CostCenter); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.CostCenter)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetCostCenterByCode provides a mock function with given fields: ctx, code
func (_m *MockStore) GetCostCenterByCode(ctx context.Context, code string) (*model.CostCenter, error) {
	ret := _m.Called(ctx, code)

	if len(ret) == 0 {
		panic("no return value specified for GetCostCenterByCode")
	}

	var r0 *model.CostCenter
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.CostCenter, error)); ok {
		return rf(ctx, code)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *model.CostCenter); ok {
		r0 = rf(ctx, code)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.CostCenter)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, code)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListCostCenters provides a mock function with given fields: ctx, activeOnly
func (_m *MockStore) ListCostCenters(ctx context.Context, activeOnly bool) ([]model.CostCenter, error) {
	ret := _m.Called(ctx, activeOnly)

	if len(ret) == 0 {
		panic("no return value specified for ListCostCenters")
	}

	var r0 []model.CostCenter
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, bool) ([]model.CostCenter, error)); ok {
		return rf(ctx, activeOnly)
	}
	if rf, ok := ret.Get(0).(func(context.Context, bool) []model.CostCenter); ok {
		r0 = rf(ctx, activeOnly)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.CostCenter)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, bool) error); ok {
		r1 = rf(ctx, activeOnly)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// UpdateCostCenter provides a mock function with given fields: ctx, id, u
func (_m *MockStore) UpdateCostCenter(ctx context.Context, id int64, u model.CostCenterUpdate) (*model.CostCenter, error) {
	ret := _m.Called(ctx, id, u)

	if len(ret) == 0 {
		panic("no return value specified for UpdateCostCenter")
	}

	var r0 *model.CostCenter
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, model.CostCenterUpdate) (*model.CostCenter, error)); ok {
		return rf(ctx, id, u)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64, model.CostCenterUpdate) *model.CostCenter); ok {
		r0 = rf(ctx, id, u)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.CostCenter)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64, model.CostCenterUpdate) error); ok {
		r1 = rf(ctx, id, u)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// UpsertCostCenters provides a mock function with given fields: ctx, centers
func (_m *MockStore) UpsertCostCenters(ctx context.Context, centers []model.CostCenter) (int64, error) {
	ret := _m.Called(ctx, centers)

	if len(ret) == 0 {
		panic("no return value specified for UpsertCostCenters")
	}

	var r0 int64
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, []model.CostCenter) (int64, error)); ok {
		return rf(ctx, centers)
	}
	if rf, ok := ret.Get(0).(func(context.Context, []model.CostCenter) int64); ok {
		r0 = rf(ctx, centers)
	} else {
		r0 = ret.Get(0).(int64)
	}

	if rf, ok := ret.Get(1).(func(context.Context, []model.CostCenter) error); ok {
		r1 = rf(ctx, centers)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListClassificationRules provides a mock function with given fields: ctx, activeOnly
func (_m *MockStore) ListClassificationRules(ctx context.Context, activeOnly bool) ([]model.ClassificationRule, error) {
	ret := _m.Called(ctx, activeOnly)

	if len(ret) == 0 {
		panic("no return value specified for ListClassificationRules")
	}

	var r0 []model.ClassificationRule
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, bool) ([]model.ClassificationRule, error)); ok {
		return rf(ctx, activeOnly)
	}
	if rf, ok := ret.Get(0).(func(context.Context, bool) []model.ClassificationRule); ok {
		r0 = rf(ctx, activeOnly)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.ClassificationRule)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, bool) error); ok {
		r1 = rf(ctx, activeOnly)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// CreateClassificationRule provides a mock function with given fields: ctx, r
func (_m *MockStore) CreateClassificationRule(ctx context.Context, r *model.ClassificationRule) error {
	ret := _m.Called(ctx, r)

	if len(ret) == 0 {
		panic("no return value specified for CreateClassificationRule")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *model.ClassificationRule) error); ok {
		r0 = rf(ctx, r)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// UpdateClassificationRule provides a mock function with given fields: ctx, r
func (_m *MockStore) UpdateClassificationRule(ctx context.Context, r *model.ClassificationRule) error {
	ret := _m.Called(ctx, r)

	if len(ret) == 0 {
		panic("no return value specified for UpdateClassificationRule")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *model.ClassificationRule) error); ok {
		r0 = rf(ctx, r)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// DeleteClassificationRule provides a mock function with given fields: ctx, id
func (_m *MockStore) DeleteClassificationRule(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for DeleteClassificationRule")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) error); ok {
		r0 = rf(ctx, id)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// UpsertClassificationRules provides a mock function with given fields: ctx, rules
func (_m *MockStore) UpsertClassificationRules(ctx context.Context, rules []model.ClassificationRule) (int64, error) {
	ret := _m.Called(ctx, rules)

	if len(ret) == 0 {
		panic("no return value specified for UpsertClassificationRules")
	}

	var r0 int64
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, []model.ClassificationRule) (int64, error)); ok {
		return rf(ctx, rules)
	}
	if rf, ok := ret.Get(0).(func(context.Context, []model.ClassificationRule) int64); ok {
		r0 = rf(ctx, rules)
	} else {
		r0 = ret.Get(0).(int64)
	}

	if rf, ok := ret.Get(1).(func(context.Context, []model.ClassificationRule) error); ok {
		r1 = rf(ctx, rules)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// StartProcessingLog provides a mock function with given fields: ctx, folder, requestedBy
func (_m *MockStore) StartProcessingLog(ctx context.Context, folder string, requestedBy *int64) (*model.ProcessingLog, error) {
	ret := _m.Called(ctx, folder, requestedBy)

	if len(ret) == 0 {
		panic("no return value specified for StartProcessingLog")
	}

	var r0 *model.ProcessingLog
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, *int64) (*model.ProcessingLog, error)); ok {
		return rf(ctx, folder, requestedBy)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, *int64) *model.ProcessingLog); ok {
		r0 = rf(ctx, folder, requestedBy)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.ProcessingLog)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, *int64) error); ok {
		r1 = rf(ctx, folder, requestedBy)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// CompleteProcessingLog provides a mock function with given fields: ctx, id, message
func (_m *MockStore) CompleteProcessingLog(ctx context.Context, id int64, message string) error {
	ret := _m.Called(ctx, id, message)

	if len(ret) == 0 {
		panic("no return value specified for CompleteProcessingLog")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, string) error); ok {
		r0 = rf(ctx, id, message)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// FailProcessingLog provides a mock function with given fields: ctx, id, detail
func (_m *MockStore) FailProcessingLog(ctx context.Context, id int64, detail string) error {
	ret := _m.Called(ctx, id, detail)

	if len(ret) == 0 {
		panic("no return value specified for FailProcessingLog")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, string) error); ok {
		r0 = rf(ctx, id, detail)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ListProcessingLogs provides a mock function with given fields: ctx, folder, limit, offset
func (_m *MockStore) ListProcessingLogs(ctx context.Context, folder string, limit int, offset int) ([]model.ProcessingLog, error) {
	ret := _m.Called(ctx, folder, limit, offset)

	if len(ret) == 0 {
		panic("no return value specified for ListProcessingLogs")
	}

	var r0 []model.ProcessingLog
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, int, int) ([]model.ProcessingLog, error)); ok {
		return rf(ctx, folder, limit, offset)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, int, int) []model.ProcessingLog); ok {
		r0 = rf(ctx, folder, limit, offset)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.ProcessingLog)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, int, int) error); ok {
		r1 = rf(ctx, folder, limit, offset)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// CreateUser provides a mock function with given fields: ctx, u
func (_m *MockStore) CreateUser(ctx context.Context, u *model.User) error {
	ret := _m.Called(ctx, u)

	if len(ret) == 0 {
		panic("no return value specified for CreateUser")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *model.User) error); ok {
		r0 = rf(ctx, u)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// GetUser provides a mock function with given fields: ctx, id
func (_m *MockStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetUser")
	}

	var r0 *model.User
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (*model.User, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) *model.User); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.User)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetUserByLogin provides a mock function with given fields: ctx, login
func (_m *MockStore) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	ret := _m.Called(ctx, login)

	if len(ret) == 0 {
		panic("no return value specified for GetUserByLogin")
	}

	var r0 *model.User
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.User, error)); ok {
		return rf(ctx, login)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *model.User); ok {
		r0 = rf(ctx, login)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.User)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, login)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// AppendAudit provides a mock function with given fields: ctx, entry
func (_m *MockStore) AppendAudit(ctx context.Context, entry *model.AuditLog) error {
	ret := _m.Called(ctx, entry)

	if len(ret) == 0 {
		panic("no return value specified for AppendAudit")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *model.AuditLog) error); ok {
		r0 = rf(ctx, entry)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ListAudit provides a mock function with given fields: ctx, ref, limit
func (_m *MockStore) ListAudit(ctx context.Context, ref model.EntityRef, limit int) ([]model.AuditLog, error) {
	ret := _m.Called(ctx, ref, limit)

	if len(ret) == 0 {
		panic("no return value specified for ListAudit")
	}

	var r0 []model.AuditLog
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.EntityRef, int) ([]model.AuditLog, error)); ok {
		return rf(ctx, ref, limit)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.EntityRef, int) []model.AuditLog); ok {
		r0 = rf(ctx, ref, limit)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.AuditLog)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.EntityRef, int) error); ok {
		r1 = rf(ctx, ref, limit)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// CreateAttachment provides a mock function with given fields: ctx, a
func (_m *MockStore) CreateAttachment(ctx context.Context, a *model.Attachment) error {
	ret := _m.Called(ctx, a)

	if len(ret) == 0 {
		panic("no return value specified for CreateAttachment")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *model.Attachment) error); ok {
		r0 = rf(ctx, a)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ListAttachments provides a mock function with given fields: ctx, ref
func (_m *MockStore) ListAttachments(ctx context.Context, ref model.EntityRef) ([]model.Attachment, error) {
	ret := _m.Called(ctx, ref)

	if len(ret) == 0 {
		panic("no return value specified for ListAttachments")
	}

	var r0 []model.Attachment
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.EntityRef) ([]model.Attachment, error)); ok {
		return rf(ctx, ref)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.EntityRef) []model.Attachment); ok {
		r0 = rf(ctx, ref)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.Attachment)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.EntityRef) error); ok {
		r1 = rf(ctx, ref)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Ping provides a mock function with given fields: ctx
func (_m *MockStore) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Ping")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Close provides a mock function with given fields:
func (_m *MockStore) Close() error {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Close")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewMockStore creates a new instance of MockStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	m := &MockStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
