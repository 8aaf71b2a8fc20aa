package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/db"
	"github.com/sells-group/contract-costs/internal/model"
)

const supplierColumns = `id, name, tax_id, email, phone, address, approved, created_at, updated_at`

func scanSupplier(row rowScanner) (model.Supplier, error) {
	var sp model.Supplier
	err := row.Scan(&sp.ID, &sp.Name, &sp.TaxID, &sp.Email, &sp.Phone, &sp.Address,
		&sp.Approved, &sp.CreatedAt, &sp.UpdatedAt)
	return sp, err
}

func (s *PostgresStore) CreateSupplier(ctx context.Context, sp *model.Supplier) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO suppliers (name, tax_id, email, phone, address, approved)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		sp.Name, sp.TaxID, sp.Email, sp.Phone, sp.Address, sp.Approved,
	).Scan(&sp.ID, &sp.CreatedAt)
	if err != nil {
		return writeErr(err, "insert supplier")
	}
	return nil
}

func (s *PostgresStore) GetSupplier(ctx context.Context, id int64) (*model.Supplier, error) {
	sp, err := scanSupplier(s.pool.QueryRow(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "supplier", id)
	}
	return &sp, nil
}

func (s *PostgresStore) ListSuppliers(ctx context.Context, approvedOnly bool, limit, offset int) ([]model.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers`
	if approvedOnly {
		query += ` WHERE approved`
	}
	query += ` ORDER BY name, id`
	query, args := pager(query, nil, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list suppliers")
	}
	return collect(rows, "supplier", scanSupplier)
}

func (s *PostgresStore) ApproveSupplier(ctx context.Context, id int64) (*model.Supplier, error) {
	sp, err := scanSupplier(s.pool.QueryRow(ctx,
		`UPDATE suppliers SET approved = true, updated_at = now() WHERE id = $1 RETURNING `+supplierColumns, id))
	if err != nil {
		return nil, notFoundOr(err, "supplier", id)
	}
	return &sp, nil
}

const orderColumns = `id, contract_id, supplier_id, order_number, total_value, issue_date,
	expected_delivery_date, actual_delivery_date, status, notes, selection_justification,
	created_by, created_at`

func scanOrder(row rowScanner) (model.PurchaseOrder, error) {
	var o model.PurchaseOrder
	err := row.Scan(&o.ID, &o.ContractID, &o.SupplierID, &o.OrderNumber, &o.TotalValue, &o.IssueDate,
		&o.ExpectedDeliveryDate, &o.ActualDeliveryDate, &o.Status, &o.Notes, &o.SelectionJustification,
		&o.CreatedBy, &o.CreatedAt)
	return o, err
}

const quotationColumns = `id, purchase_order_id, supplier_id, total_value, delivery_days,
	payment_terms, notes, is_selected, quoted_at, created_at`

func scanQuotation(row rowScanner) (model.Quotation, error) {
	var q model.Quotation
	err := row.Scan(&q.ID, &q.PurchaseOrderID, &q.SupplierID, &q.TotalValue, &q.DeliveryDays,
		&q.PaymentTerms, &q.Notes, &q.IsSelected, &q.QuotedAt, &q.CreatedAt)
	return q, err
}

var orderItemCopyColumns = []string{
	"purchase_order_id", "budget_item_id", "description", "cost_center_label", "unit",
	"quantity", "weight", "unit_value", "total_value", "normal_hours", "overtime_hours", "wage",
}

var quotationCopyColumns = []string{
	"purchase_order_id", "supplier_id", "total_value", "delivery_days",
	"payment_terms", "notes", "is_selected", "quoted_at",
}

// CreatePurchaseOrder inserts an order with its items and quotations in one
// transaction. The contract must exist and the supplier must be approved.
// The order total is the sum of the item totals.
func (s *PostgresStore) CreatePurchaseOrder(ctx context.Context, in model.NewPurchaseOrder) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM contracts WHERE id = $1)`,
			in.ContractID).Scan(&exists); err != nil {
			return eris.Wrap(err, "postgres: check contract")
		}
		if !exists {
			return apperr.NotFound("contract %d not found", in.ContractID)
		}

		var approved bool
		err := tx.QueryRow(ctx, `SELECT approved FROM suppliers WHERE id = $1`, in.SupplierID).Scan(&approved)
		if errors.Is(err, pgx.ErrNoRows) || (err == nil && !approved) {
			return apperr.NotFound("supplier %d not found or not approved", in.SupplierID)
		}
		if err != nil {
			return eris.Wrap(err, "postgres: check supplier")
		}

		order, err = scanOrder(tx.QueryRow(ctx,
			`INSERT INTO purchase_orders (contract_id, supplier_id, order_number, total_value, issue_date,
				expected_delivery_date, status, notes, selection_justification, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING `+orderColumns,
			in.ContractID, in.SupplierID, in.OrderNumber, in.Total(), in.IssueDate,
			in.ExpectedDeliveryDate, model.OrderPending, in.Notes, in.SelectionJustification, in.CreatedBy))
		if err != nil {
			return writeErr(err, "insert purchase order")
		}

		itemRows := make([][]any, 0, len(in.Items))
		for _, it := range in.Items {
			itemRows = append(itemRows, []any{
				order.ID, it.BudgetItemID, it.Description, it.CostCenterLabel, it.Unit,
				it.Quantity, it.Weight, it.UnitValue, it.TotalValue, it.NormalHours, it.OvertimeHours, it.Wage,
			})
		}
		if _, err := db.CopyFrom(ctx, tx, "purchase_order_items", orderItemCopyColumns, itemRows); err != nil {
			return writeErr(err, "insert purchase order items")
		}

		quoteRows := make([][]any, 0, len(in.Quotations))
		for _, q := range in.Quotations {
			quotedAt := q.QuotedAt
			if quotedAt.IsZero() {
				quotedAt = time.Now().UTC()
			}
			quoteRows = append(quoteRows, []any{
				order.ID, q.SupplierID, q.TotalValue, q.DeliveryDays, q.PaymentTerms, q.Notes, false, quotedAt,
			})
		}
		if _, err := db.CopyFrom(ctx, tx, "quotations", quotationCopyColumns, quoteRows); err != nil {
			return writeErr(err, "insert quotations")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetPurchaseOrder loads an order with its supplier, items and quotations.
func (s *PostgresStore) GetPurchaseOrder(ctx context.Context, id int64) (*model.PurchaseOrder, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "purchase order", id)
	}

	sp, err := s.GetSupplier(ctx, o.SupplierID)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}
	o.Supplier = sp

	rows, err := s.pool.Query(ctx,
		`SELECT id, purchase_order_id, budget_item_id, description, cost_center_label, unit, quantity,
			weight, unit_value, total_value, normal_hours, overtime_hours, wage
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list items of order %d", id)
	}
	o.Items, err = collect(rows, "purchase order item", func(r rowScanner) (model.PurchaseOrderItem, error) {
		var it model.PurchaseOrderItem
		err := r.Scan(&it.ID, &it.PurchaseOrderID, &it.BudgetItemID, &it.Description, &it.CostCenterLabel,
			&it.Unit, &it.Quantity, &it.Weight, &it.UnitValue, &it.TotalValue, &it.NormalHours,
			&it.OvertimeHours, &it.Wage)
		return it, err
	})
	if err != nil {
		return nil, err
	}

	rows, err = s.pool.Query(ctx,
		`SELECT `+quotationColumns+` FROM quotations WHERE purchase_order_id = $1 ORDER BY total_value, id`, id)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list quotations of order %d", id)
	}
	o.Quotations, err = collect(rows, "quotation", scanQuotation)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *PostgresStore) ListPurchaseOrders(ctx context.Context, filter model.OrderFilter) ([]model.PurchaseOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE true`
	args := []any{}

	if filter.ContractID != nil {
		args = append(args, *filter.ContractID)
		query += fmt.Sprintf(` AND contract_id = $%d`, len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY issue_date DESC, id DESC`
	query, args = pager(query, args, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list purchase orders")
	}
	return collect(rows, "purchase order", scanOrder)
}

// UpdateOrderStatus moves an order along pending → approved → delivered, or
// to cancelled from any non-terminal state. Delivery stamps actual_delivery_date.
func (s *PostgresStore) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.PurchaseOrder, error) {
	if !status.Valid() {
		return nil, apperr.Validation("invalid order status %q", status)
	}

	var order model.PurchaseOrder
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var current model.OrderStatus
		if err := tx.QueryRow(ctx,
			`SELECT status FROM purchase_orders WHERE id = $1 FOR UPDATE`, id).Scan(&current); err != nil {
			return notFoundOr(err, "purchase order", id)
		}
		if !current.CanTransition(status) {
			return apperr.Validation("cannot move order %d from %s to %s", id, current, status)
		}

		var err error
		order, err = scanOrder(tx.QueryRow(ctx,
			`UPDATE purchase_orders SET status = $1,
				actual_delivery_date = CASE WHEN $1 = 'delivered' THEN now() ELSE actual_delivery_date END
			WHERE id = $2 RETURNING `+orderColumns, status, id))
		return eris.Wrapf(err, "postgres: update status of order %d", id)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *PostgresStore) AddQuotation(ctx context.Context, q *model.Quotation) error {
	if q.QuotedAt.IsZero() {
		q.QuotedAt = time.Now().UTC()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO quotations (purchase_order_id, supplier_id, total_value, delivery_days,
			payment_terms, notes, quoted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`,
		q.PurchaseOrderID, q.SupplierID, q.TotalValue, q.DeliveryDays, q.PaymentTerms, q.Notes, q.QuotedAt,
	).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return writeErr(err, "insert quotation")
	}
	q.IsSelected = false
	return nil
}

// SelectQuotation marks one quotation selected, clears its siblings and
// copies its supplier and total onto the order, all in one transaction.
func (s *PostgresStore) SelectQuotation(ctx context.Context, quotationID int64) (*model.Quotation, error) {
	var selected model.Quotation
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var orderID, supplierID int64
		var total decimal.Decimal
		if err := tx.QueryRow(ctx,
			`SELECT purchase_order_id, supplier_id, total_value FROM quotations WHERE id = $1 FOR UPDATE`,
			quotationID).Scan(&orderID, &supplierID, &total); err != nil {
			return notFoundOr(err, "quotation", quotationID)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE quotations SET is_selected = false WHERE purchase_order_id = $1 AND is_selected`,
			orderID); err != nil {
			return eris.Wrapf(err, "postgres: clear selection of order %d", orderID)
		}

		var err error
		selected, err = scanQuotation(tx.QueryRow(ctx,
			`UPDATE quotations SET is_selected = true WHERE id = $1 RETURNING `+quotationColumns, quotationID))
		if err != nil {
			return writeErr(err, "select quotation")
		}

		if _, err := tx.Exec(ctx,
			`UPDATE purchase_orders SET supplier_id = $1, total_value = $2 WHERE id = $3`,
			supplierID, total, orderID); err != nil {
			return eris.Wrapf(err, "postgres: apply quotation to order %d", orderID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &selected, nil
}
