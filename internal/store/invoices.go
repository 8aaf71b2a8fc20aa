package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/db"
	"github.com/sells-group/contract-costs/internal/model"
)

const invoiceColumns = `i.id, i.contract_id, i.purchase_order_id, i.invoice_number, i.supplier_name,
	i.total_value, i.issue_date, i.due_date, i.payment_date, i.source_file, i.notes, i.created_at,
	(SELECT COUNT(*) FROM invoice_items ii WHERE ii.invoice_id = i.id)`

func scanInvoice(row rowScanner) (model.Invoice, error) {
	var inv model.Invoice
	var contractID, orderID *int64
	var items int64
	err := row.Scan(&inv.ID, &contractID, &orderID, &inv.InvoiceNumber, &inv.SupplierName,
		&inv.TotalValue, &inv.IssueDate, &inv.DueDate, &inv.PaymentDate, &inv.SourceFile, &inv.Notes,
		&inv.CreatedAt, &items)
	inv.Link = model.InvoiceLinkFromRefs(contractID, orderID)
	inv.ItemsCount = int(items)
	return inv, err
}

var invoiceItemCopyColumns = []string{
	"invoice_id", "description", "cost_center_label", "unit", "quantity", "weight", "unit_value",
	"total_value", "divergent_weight", "divergent_value", "divergence_justification",
}

// CreateInvoice inserts an invoice and its items in one transaction. The
// linked contract or order must exist.
func (s *PostgresStore) CreateInvoice(ctx context.Context, inv *model.Invoice) error {
	if inv.Link.Kind() == model.LinkNone {
		return apperr.Validation("invoice must reference a contract or a purchase order")
	}
	contractID, orderID := inv.Link.Refs()

	return s.withTx(ctx, func(tx pgx.Tx) error {
		if orderID != nil {
			if err := requireRow(ctx, tx, "purchase_orders", "purchase order", *orderID); err != nil {
				return err
			}
		}
		if contractID != nil {
			if err := requireRow(ctx, tx, "contracts", "contract", *contractID); err != nil {
				return err
			}
		}

		err := tx.QueryRow(ctx,
			`INSERT INTO invoices (contract_id, purchase_order_id, invoice_number, supplier_name, total_value,
				issue_date, due_date, payment_date, source_file, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at`,
			contractID, orderID, inv.InvoiceNumber, inv.SupplierName, inv.TotalValue,
			inv.IssueDate, inv.DueDate, inv.PaymentDate, inv.SourceFile, inv.Notes,
		).Scan(&inv.ID, &inv.CreatedAt)
		if err != nil {
			return writeErr(err, "insert invoice")
		}

		rows := make([][]any, 0, len(inv.Items))
		for i := range inv.Items {
			it := &inv.Items[i]
			it.InvoiceID = inv.ID
			rows = append(rows, []any{
				inv.ID, it.Description, it.CostCenterLabel, it.Unit, it.Quantity, it.Weight, it.UnitValue,
				it.TotalValue, it.DivergentWeight, it.DivergentValue, it.DivergenceJustification,
			})
		}
		if _, err := db.CopyFrom(ctx, tx, "invoice_items", invoiceItemCopyColumns, rows); err != nil {
			return writeErr(err, "insert invoice items")
		}
		inv.ItemsCount = len(inv.Items)
		return nil
	})
}

// requireRow returns NotFound when table has no row with id.
func requireRow(ctx context.Context, q db.Querier, table, what string, id int64) error {
	var exists bool
	err := q.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, pgx.Identifier{table}.Sanitize()),
		id).Scan(&exists)
	if err != nil {
		return eris.Wrapf(err, "postgres: check %s %d", what, id)
	}
	if !exists {
		return apperr.NotFound("%s %d not found", what, id)
	}
	return nil
}

// GetInvoice loads an invoice with its items.
func (s *PostgresStore) GetInvoice(ctx context.Context, id int64) (*model.Invoice, error) {
	inv, err := scanInvoice(s.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i WHERE i.id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "invoice", id)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, invoice_id, description, cost_center_label, unit, quantity, weight, unit_value,
			total_value, divergent_weight, divergent_value, divergence_justification
		FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list items of invoice %d", id)
	}
	inv.Items, err = collect(rows, "invoice item", func(r rowScanner) (model.InvoiceItem, error) {
		var it model.InvoiceItem
		err := r.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.CostCenterLabel, &it.Unit, &it.Quantity,
			&it.Weight, &it.UnitValue, &it.TotalValue, &it.DivergentWeight, &it.DivergentValue,
			&it.DivergenceJustification)
		return it, err
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvoices returns invoices newest first. A contract filter matches
// invoices linked directly or through one of the contract's orders.
func (s *PostgresStore) ListInvoices(ctx context.Context, filter model.InvoiceFilter) ([]model.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices i WHERE true`
	args := []any{}

	if filter.ContractID != nil {
		args = append(args, *filter.ContractID)
		query += fmt.Sprintf(` AND (i.contract_id = $%d OR i.purchase_order_id IN
			(SELECT id FROM purchase_orders WHERE contract_id = $%d))`, len(args), len(args))
	}
	query += ` ORDER BY i.issue_date DESC, i.id DESC`
	query, args = pager(query, args, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list invoices")
	}
	return collect(rows, "invoice", scanInvoice)
}

// InvoiceSummary counts and sums a contract's invoices and returns the five
// most recent.
func (s *PostgresStore) InvoiceSummary(ctx context.Context, contractID int64) (*model.InvoiceSummary, error) {
	var sum model.InvoiceSummary
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_value), 0) FROM invoices
		WHERE contract_id = $1 OR purchase_order_id IN (SELECT id FROM purchase_orders WHERE contract_id = $1)`,
		contractID).Scan(&count, &sum.TotalValue)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: invoice summary for contract %d", contractID)
	}
	sum.TotalInvoices = int(count)

	sum.Recent, err = s.ListInvoices(ctx, model.InvoiceFilter{ContractID: &contractID, Limit: 5})
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

func (s *PostgresStore) PayInvoice(ctx context.Context, id int64, paidAt time.Time) (*model.Invoice, error) {
	inv, err := scanInvoice(s.pool.QueryRow(ctx,
		`UPDATE invoices i SET payment_date = $1 WHERE i.id = $2 RETURNING `+invoiceColumns, paidAt, id))
	if err != nil {
		return nil, notFoundOr(err, "invoice", id)
	}
	return &inv, nil
}

func (s *PostgresStore) DeleteInvoice(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, id); err != nil {
			return eris.Wrapf(err, "postgres: delete items of invoice %d", id)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
		if err != nil {
			return eris.Wrapf(err, "postgres: delete invoice %d", id)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("invoice %d not found", id)
		}
		return nil
	})
}
