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

const nfColumns = `id, number, series, access_key, supplier_tax_id, supplier_name, total_value,
	goods_value, tax_value, freight_value, issue_date, entry_date, source_folder, source_subfolder,
	status, notes, contract_id, purchase_order_id, ingested_at, created_at, updated_at`

func scanNotaFiscal(row rowScanner) (model.NotaFiscal, error) {
	var nf model.NotaFiscal
	err := row.Scan(&nf.ID, &nf.Number, &nf.Series, &nf.AccessKey, &nf.SupplierTaxID, &nf.SupplierName,
		&nf.TotalValue, &nf.GoodsValue, &nf.TaxValue, &nf.FreightValue, &nf.IssueDate, &nf.EntryDate,
		&nf.SourceFolder, &nf.SourceSubfolder, &nf.Status, &nf.Notes, &nf.ContractID,
		&nf.PurchaseOrderID, &nf.IngestedAt, &nf.CreatedAt, &nf.UpdatedAt)
	return nf, err
}

const nfItemColumns = `id, nota_fiscal_id, sequence, product_code, description, ncm, quantity, unit,
	unit_value, total_value, net_weight, gross_weight, cost_center_id, budget_item_id,
	classification_score, classification_source, integration_status, integrated_at, updated_at`

func scanNFItem(row rowScanner) (model.NotaFiscalItem, error) {
	var it model.NotaFiscalItem
	var seq int32
	err := row.Scan(&it.ID, &it.NotaFiscalID, &seq, &it.ProductCode, &it.Description, &it.NCM,
		&it.Quantity, &it.Unit, &it.UnitValue, &it.TotalValue, &it.NetWeight, &it.GrossWeight,
		&it.CostCenterID, &it.BudgetItemID, &it.ClassificationScore, &it.ClassificationSource,
		&it.IntegrationStatus, &it.IntegratedAt, &it.UpdatedAt)
	it.Sequence = int(seq)
	return it, err
}

var nfItemCopyColumns = []string{
	"nota_fiscal_id", "sequence", "product_code", "description", "ncm", "quantity", "unit",
	"unit_value", "total_value", "net_weight", "gross_weight", "cost_center_id", "budget_item_id",
	"classification_score", "classification_source", "integration_status",
}

// CreateNotaFiscal inserts a nota fiscal and its items atomically. A
// duplicate access key is a Conflict.
func (s *PostgresStore) CreateNotaFiscal(ctx context.Context, nf *model.NotaFiscal) error {
	if nf.AccessKey != nil && len(*nf.AccessKey) > model.AccessKeyLen {
		return apperr.Validation("access key longer than %d characters", model.AccessKeyLen)
	}
	if nf.Status == "" {
		nf.Status = model.NFProcessed
	}

	return s.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO notas_fiscais (number, series, access_key, supplier_tax_id, supplier_name,
				total_value, goods_value, tax_value, freight_value, issue_date, entry_date, source_folder,
				source_subfolder, status, notes, contract_id, purchase_order_id, ingested_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, now())
			RETURNING id, ingested_at, created_at`,
			nf.Number, nf.Series, nf.AccessKey, nf.SupplierTaxID, nf.SupplierName,
			nf.TotalValue, nf.GoodsValue, nf.TaxValue, nf.FreightValue, nf.IssueDate, nf.EntryDate,
			nf.SourceFolder, nf.SourceSubfolder, nf.Status, nf.Notes, nf.ContractID, nf.PurchaseOrderID,
		).Scan(&nf.ID, &nf.IngestedAt, &nf.CreatedAt)
		if err != nil {
			return writeErr(err, "insert nota fiscal")
		}

		rows := make([][]any, 0, len(nf.Items))
		for i := range nf.Items {
			it := &nf.Items[i]
			it.NotaFiscalID = nf.ID
			if it.IntegrationStatus == "" {
				it.IntegrationStatus = model.IntegrationPending
			}
			rows = append(rows, []any{
				nf.ID, int32(it.Sequence), it.ProductCode, it.Description, it.NCM, it.Quantity, it.Unit,
				it.UnitValue, it.TotalValue, it.NetWeight, it.GrossWeight, it.CostCenterID, it.BudgetItemID,
				it.ClassificationScore, it.ClassificationSource, it.IntegrationStatus,
			})
		}
		if _, err := db.CopyFrom(ctx, tx, "nota_fiscal_items", nfItemCopyColumns, rows); err != nil {
			return writeErr(err, "insert nota fiscal items")
		}
		return nil
	})
}

// GetNotaFiscal loads a nota fiscal with its items.
func (s *PostgresStore) GetNotaFiscal(ctx context.Context, id int64) (*model.NotaFiscal, error) {
	nf, err := scanNotaFiscal(s.pool.QueryRow(ctx,
		`SELECT `+nfColumns+` FROM notas_fiscais WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "nota fiscal", id)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+nfItemColumns+` FROM nota_fiscal_items WHERE nota_fiscal_id = $1 ORDER BY sequence, id`, id)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list items of nota fiscal %d", id)
	}
	nf.Items, err = collect(rows, "nota fiscal item", scanNFItem)
	if err != nil {
		return nil, err
	}
	return &nf, nil
}

func (s *PostgresStore) ListNotasFiscais(ctx context.Context, filter model.NFFilter) ([]model.NotaFiscal, error) {
	query := `SELECT ` + nfColumns + ` FROM notas_fiscais WHERE true`
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.Supplier != "" {
		args = append(args, "%"+filter.Supplier+"%")
		query += fmt.Sprintf(` AND supplier_name ILIKE $%d`, len(args))
	}
	if filter.ContractID != nil {
		args = append(args, *filter.ContractID)
		query += fmt.Sprintf(` AND contract_id = $%d`, len(args))
	}
	if filter.Folder != "" {
		args = append(args, filter.Folder)
		query += fmt.Sprintf(` AND source_folder = $%d`, len(args))
	}
	query += ` ORDER BY issue_date DESC, id DESC`
	query, args = pager(query, args, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list notas fiscais")
	}
	return collect(rows, "nota fiscal", scanNotaFiscal)
}

func (s *PostgresStore) UpdateNotaFiscal(ctx context.Context, id int64, u model.NFUpdate) (*model.NotaFiscal, error) {
	var b updateBuilder
	if u.Notes != nil {
		b.set("notes", *u.Notes)
	}
	if u.EntryDate != nil {
		b.set("entry_date", *u.EntryDate)
	}
	if u.ContractID != nil {
		b.set("contract_id", *u.ContractID)
	}
	if u.PurchaseOrderID != nil {
		b.set("purchase_order_id", *u.PurchaseOrderID)
	}
	if u.SourceSubfolder != nil {
		b.set("source_subfolder", *u.SourceSubfolder)
	}
	if len(b.sets) == 0 {
		return s.GetNotaFiscal(ctx, id)
	}
	query := fmt.Sprintf(`UPDATE notas_fiscais SET %s, updated_at = now() WHERE id = %s RETURNING `+nfColumns,
		joinSets(b.sets), b.where(id))

	nf, err := scanNotaFiscal(s.pool.QueryRow(ctx, query, b.args...))
	if err != nil {
		return nil, notFoundOr(err, "nota fiscal", id)
	}
	return &nf, nil
}

// ValidateNotaFiscal marks a nota fiscal validated, which makes it count
// toward the contract's realized value, and integrates the items that
// already point at a budget item.
func (s *PostgresStore) ValidateNotaFiscal(ctx context.Context, id int64) (*model.NotaFiscal, error) {
	var nf model.NotaFiscal
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		nf, err = scanNotaFiscal(tx.QueryRow(ctx,
			`UPDATE notas_fiscais SET status = 'validated', updated_at = now() WHERE id = $1 RETURNING `+nfColumns, id))
		if err != nil {
			return notFoundOr(err, "nota fiscal", id)
		}
		_, err = tx.Exec(ctx,
			`UPDATE nota_fiscal_items SET integration_status = 'integrated', integrated_at = now(), updated_at = now()
			WHERE nota_fiscal_id = $1 AND budget_item_id IS NOT NULL AND integration_status = 'pending'`, id)
		return eris.Wrapf(err, "postgres: integrate items of nota fiscal %d", id)
	})
	if err != nil {
		return nil, err
	}
	return &nf, nil
}

func (s *PostgresStore) RejectNotaFiscal(ctx context.Context, id int64, reason string) (*model.NotaFiscal, error) {
	nf, err := scanNotaFiscal(s.pool.QueryRow(ctx,
		`UPDATE notas_fiscais SET status = 'error', notes = $1, updated_at = now() WHERE id = $2 RETURNING `+nfColumns,
		reason, id))
	if err != nil {
		return nil, notFoundOr(err, "nota fiscal", id)
	}
	return &nf, nil
}

func (s *PostgresStore) DeleteNotaFiscal(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM notas_fiscais WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete nota fiscal %d", id)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("nota fiscal %d not found", id)
	}
	return nil
}

func (s *PostgresStore) GetNFItem(ctx context.Context, id int64) (*model.NotaFiscalItem, error) {
	it, err := scanNFItem(s.pool.QueryRow(ctx,
		`SELECT `+nfItemColumns+` FROM nota_fiscal_items WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "nota fiscal item", id)
	}
	return &it, nil
}

func (s *PostgresStore) UpdateNFItem(ctx context.Context, id int64, u model.NFItemUpdate) (*model.NotaFiscalItem, error) {
	var b updateBuilder
	if u.CostCenterID != nil {
		b.set("cost_center_id", *u.CostCenterID)
	}
	if u.BudgetItemID != nil {
		b.set("budget_item_id", *u.BudgetItemID)
	}
	if u.IntegrationStatus != nil {
		b.set("integration_status", *u.IntegrationStatus)
	}
	if u.NetWeight != nil {
		b.set("net_weight", *u.NetWeight)
	}
	if u.GrossWeight != nil {
		b.set("gross_weight", *u.GrossWeight)
	}
	if len(b.sets) == 0 {
		return s.GetNFItem(ctx, id)
	}
	query := fmt.Sprintf(`UPDATE nota_fiscal_items SET %s, updated_at = now() WHERE id = %s RETURNING `+nfItemColumns,
		joinSets(b.sets), b.where(id))

	it, err := scanNFItem(s.pool.QueryRow(ctx, query, b.args...))
	if err != nil {
		return nil, notFoundOr(err, "nota fiscal item", id)
	}
	return &it, nil
}

// IntegrateNFItem ties an item to a budget item and marks it integrated.
func (s *PostgresStore) IntegrateNFItem(ctx context.Context, id, budgetItemID int64) (*model.NotaFiscalItem, error) {
	it, err := scanNFItem(s.pool.QueryRow(ctx,
		`UPDATE nota_fiscal_items SET budget_item_id = $1, integration_status = 'integrated',
			integrated_at = now(), updated_at = now()
		WHERE id = $2 RETURNING `+nfItemColumns, budgetItemID, id))
	if err != nil {
		return nil, notFoundOr(err, "nota fiscal item", id)
	}
	return &it, nil
}

func (s *PostgresStore) SetNFItemClassification(ctx context.Context, id int64, c model.Classification) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE nota_fiscal_items SET cost_center_id = $1, classification_score = $2,
			classification_source = $3, updated_at = now()
		WHERE id = $4`, c.CostCenterID, c.Score, c.Source, id)
	if err != nil {
		return writeErr(err, "classify nota fiscal item")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("nota fiscal item %d not found", id)
	}
	return nil
}

// ClassificationStats summarizes items of notas fiscais ingested since the
// given time.
func (s *PostgresStore) ClassificationStats(ctx context.Context, since time.Time) (*model.ClassificationStats, error) {
	st := model.ClassificationStats{Since: since}
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*),
			COUNT(*) FILTER (WHERE i.cost_center_id IS NOT NULL),
			COUNT(*) FILTER (WHERE i.cost_center_id IS NULL),
			COALESCE(AVG(i.classification_score), 0)
		FROM nota_fiscal_items i JOIN notas_fiscais nf ON nf.id = i.nota_fiscal_id
		WHERE nf.created_at >= $1`, since,
	).Scan(&st.TotalItems, &st.Classified, &st.NeedsReview, &st.AverageScore)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: classification totals")
	}
	st.AverageScore = st.AverageScore.Round(2)

	rows, err := s.pool.Query(ctx,
		`SELECT cc.id, cc.code, cc.name, COUNT(i.id), COALESCE(SUM(i.total_value), 0)
		FROM cost_centers cc
		JOIN nota_fiscal_items i ON i.cost_center_id = cc.id
		JOIN notas_fiscais nf ON nf.id = i.nota_fiscal_id
		WHERE nf.created_at >= $1
		GROUP BY cc.id, cc.code, cc.name
		ORDER BY 5 DESC`, since)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: classification by cost center")
	}
	st.ByCostCenter, err = collect(rows, "cost center usage", func(r rowScanner) (model.CostCenterUsage, error) {
		var u model.CostCenterUsage
		err := r.Scan(&u.CostCenterID, &u.Code, &u.Name, &u.ItemCount, &u.TotalValue)
		return u, err
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}
