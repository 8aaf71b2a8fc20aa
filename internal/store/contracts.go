package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/db"
	"github.com/sells-group/contract-costs/internal/model"
)

const contractColumns = `id, contract_number, project_name, client, contract_type, original_value,
	reduction_target_percent, status, start_date, expected_end_date, actual_end_date, notes,
	created_by, created_at, updated_at`

func scanContract(row rowScanner) (model.Contract, error) {
	var c model.Contract
	err := row.Scan(&c.ID, &c.ContractNumber, &c.ProjectName, &c.Client, &c.ContractType,
		&c.OriginalValue, &c.ReductionTargetPercent, &c.Status, &c.StartDate,
		&c.ExpectedEndDate, &c.ActualEndDate, &c.Notes, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *PostgresStore) CreateContract(ctx context.Context, c *model.Contract) error {
	if c.Status == "" {
		c.Status = model.ContractInProgress
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO contracts (contract_number, project_name, client, contract_type, original_value,
			reduction_target_percent, status, start_date, expected_end_date, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`,
		c.ContractNumber, c.ProjectName, c.Client, c.ContractType, c.OriginalValue,
		c.ReductionTargetPercent, c.Status, c.StartDate, c.ExpectedEndDate, c.Notes, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return writeErr(err, "insert contract")
	}
	return nil
}

func (s *PostgresStore) GetContract(ctx context.Context, id int64) (*model.Contract, error) {
	c, err := scanContract(s.pool.QueryRow(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "contract", id)
	}
	return &c, nil
}

func (s *PostgresStore) ListContracts(ctx context.Context, filter model.ContractFilter) ([]model.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE true`
	args := []any{}

	if filter.Client != "" {
		args = append(args, "%"+filter.Client+"%")
		query += fmt.Sprintf(` AND client ILIKE $%d`, len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	query, args = pager(query, args, filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list contracts")
	}
	return collect(rows, "contract", scanContract)
}

func (s *PostgresStore) UpdateContract(ctx context.Context, id int64, u model.ContractUpdate) (*model.Contract, error) {
	if u.Empty() {
		return s.GetContract(ctx, id)
	}

	var b updateBuilder
	if u.ProjectName != nil {
		b.set("project_name", *u.ProjectName)
	}
	if u.Client != nil {
		b.set("client", *u.Client)
	}
	if u.OriginalValue != nil {
		b.set("original_value", *u.OriginalValue)
	}
	if u.ReductionTargetPercent != nil {
		b.set("reduction_target_percent", *u.ReductionTargetPercent)
	}
	if u.Status != nil {
		if !u.Status.Valid() {
			return nil, apperr.Validation("invalid contract status %q", *u.Status)
		}
		b.set("status", *u.Status)
	}
	if u.ExpectedEndDate != nil {
		b.set("expected_end_date", *u.ExpectedEndDate)
	}
	if u.ActualEndDate != nil {
		b.set("actual_end_date", *u.ActualEndDate)
	}
	if u.Notes != nil {
		b.set("notes", *u.Notes)
	}
	query := fmt.Sprintf(`UPDATE contracts SET %s, updated_at = now() WHERE id = %s RETURNING `+contractColumns,
		joinSets(b.sets), b.where(id))

	c, err := scanContract(s.pool.QueryRow(ctx, query, b.args...))
	if err != nil {
		return nil, notFoundOr(err, "contract", id)
	}
	return &c, nil
}

// DeleteContract removes a contract; budget and forecast rows cascade.
func (s *PostgresStore) DeleteContract(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete contract %d", id)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("contract %d not found", id)
	}
	return nil
}

func (s *PostgresStore) ListBudgetItems(ctx context.Context, contractID int64) ([]model.BudgetItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, contract_id, item_code, description, cost_center_label, unit, forecast_quantity,
			forecast_weight, forecast_unit_value, forecast_total_value, normal_hours, overtime_hours,
			forecast_wage, created_at
		FROM budget_items WHERE contract_id = $1 ORDER BY item_code, id`, contractID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list budget items for contract %d", contractID)
	}
	return collect(rows, "budget item", func(r rowScanner) (model.BudgetItem, error) {
		var b model.BudgetItem
		err := r.Scan(&b.ID, &b.ContractID, &b.ItemCode, &b.Description, &b.CostCenterLabel, &b.Unit,
			&b.ForecastQuantity, &b.ForecastWeight, &b.ForecastUnitValue, &b.ForecastTotalValue,
			&b.NormalHours, &b.OvertimeHours, &b.ForecastWage, &b.CreatedAt)
		return b, err
	})
}

var forecastCopyColumns = []string{
	"contract_id", "item_code", "service_description", "unit",
	"monthly_quantity", "duration_months", "total_price", "note",
}

// InsertForecastValues bulk-loads forecast lines with a single COPY, so a
// failure leaves no partial rows behind.
func (s *PostgresStore) InsertForecastValues(ctx context.Context, contractID int64, values []model.ForecastValue) (int64, error) {
	rows := make([][]any, 0, len(values))
	for _, v := range values {
		rows = append(rows, []any{
			contractID, v.ItemCode, v.ServiceDescription, v.Unit,
			v.MonthlyQuantity, v.DurationMonths, v.TotalPrice, v.Note,
		})
	}
	n, err := db.CopyFrom(ctx, s.pool, "forecast_values", forecastCopyColumns, rows)
	if err != nil {
		return 0, writeErr(err, "insert forecast values")
	}
	return n, nil
}

func (s *PostgresStore) ListForecastValues(ctx context.Context, contractID int64) ([]model.ForecastValue, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, contract_id, item_code, service_description, unit, monthly_quantity,
			duration_months, total_price, note, created_at
		FROM forecast_values WHERE contract_id = $1 ORDER BY id`, contractID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list forecast values for contract %d", contractID)
	}
	return collect(rows, "forecast value", func(r rowScanner) (model.ForecastValue, error) {
		var f model.ForecastValue
		err := r.Scan(&f.ID, &f.ContractID, &f.ItemCode, &f.ServiceDescription, &f.Unit,
			&f.MonthlyQuantity, &f.DurationMonths, &f.TotalPrice, &f.Note, &f.CreatedAt)
		return f, err
	})
}

// realizedValueSQL counts only validated notas fiscais.
const realizedValueSQL = `SELECT COALESCE(SUM(total_value), 0) FROM notas_fiscais
	WHERE contract_id = $1 AND status = 'validated'`

func (s *PostgresStore) RealizedValue(ctx context.Context, contractID int64) (decimal.Decimal, error) {
	var v decimal.Decimal
	if err := s.pool.QueryRow(ctx, realizedValueSQL, contractID).Scan(&v); err != nil {
		return decimal.Zero, eris.Wrapf(err, "postgres: realized value for contract %d", contractID)
	}
	return v, nil
}

// RealizedByContract returns realized values keyed by contract id. Contracts
// without validated notas fiscais map to zero.
func (s *PostgresStore) RealizedByContract(ctx context.Context, contractIDs []int64) (map[int64]decimal.Decimal, error) {
	out := make(map[int64]decimal.Decimal, len(contractIDs))
	if len(contractIDs) == 0 {
		return out, nil
	}
	for _, id := range contractIDs {
		out[id] = decimal.Zero
	}

	rows, err := s.pool.Query(ctx,
		`SELECT contract_id, SUM(total_value) FROM notas_fiscais
		WHERE contract_id = ANY($1) AND status = 'validated'
		GROUP BY contract_id`, contractIDs)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: realized by contract")
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var v decimal.Decimal
		if err := rows.Scan(&id, &v); err != nil {
			return nil, eris.Wrap(err, "postgres: scan realized value")
		}
		out[id] = v
	}
	return out, eris.Wrap(rows.Err(), "postgres: realized by contract iterate")
}

const figuresSelect = `SELECT c.id, c.status, c.original_value, c.reduction_target_percent,
	COALESCE((SELECT SUM(nf.total_value) FROM notas_fiscais nf
		WHERE nf.contract_id = c.id AND nf.status = 'validated'), 0),
	COALESCE((SELECT SUM(b.forecast_total_value) FROM budget_items b WHERE b.contract_id = c.id), 0),
	COALESCE((SELECT SUM(f.total_price) FROM forecast_values f WHERE f.contract_id = c.id), 0)
	FROM contracts c`

func scanFigures(row rowScanner) (model.ContractFigures, error) {
	var f model.ContractFigures
	err := row.Scan(&f.ContractID, &f.Status, &f.OriginalValue, &f.ReductionTargetPercent,
		&f.Realized, &f.BudgetTotal, &f.ForecastTotal)
	return f, err
}

func (s *PostgresStore) ContractFigures(ctx context.Context, contractID int64) (*model.ContractFigures, error) {
	f, err := scanFigures(s.pool.QueryRow(ctx, figuresSelect+` WHERE c.id = $1`, contractID))
	if err != nil {
		return nil, notFoundOr(err, "contract", contractID)
	}
	return &f, nil
}

func (s *PostgresStore) AllContractFigures(ctx context.Context) ([]model.ContractFigures, error) {
	rows, err := s.pool.Query(ctx, figuresSelect+` ORDER BY c.id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: contract figures")
	}
	return collect(rows, "contract figures", scanFigures)
}

// withTx is a seam for transactional helpers.
func (s *PostgresStore) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return db.InTx(ctx, s.pool, fn)
}
