package store

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/db"
	"github.com/sells-group/contract-costs/internal/model"
)

const costCenterColumns = `id, code, name, description, active, created_at, updated_at`

func scanCostCenter(row rowScanner) (model.CostCenter, error) {
	var cc model.CostCenter
	err := row.Scan(&cc.ID, &cc.Code, &cc.Name, &cc.Description, &cc.Active, &cc.CreatedAt, &cc.UpdatedAt)
	return cc, err
}

func (s *PostgresStore) CreateCostCenter(ctx context.Context, cc *model.CostCenter) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO cost_centers (code, name, description, active) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		cc.Code, cc.Name, cc.Description, cc.Active,
	).Scan(&cc.ID, &cc.CreatedAt)
	if err != nil {
		return writeErr(err, "insert cost center")
	}
	return nil
}

func (s *PostgresStore) GetCostCenter(ctx context.Context, id int64) (*model.CostCenter, error) {
	cc, err := scanCostCenter(s.pool.QueryRow(ctx,
		`SELECT `+costCenterColumns+` FROM cost_centers WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "cost center", id)
	}
	return &cc, nil
}

func (s *PostgresStore) GetCostCenterByCode(ctx context.Context, code string) (*model.CostCenter, error) {
	cc, err := scanCostCenter(s.pool.QueryRow(ctx,
		`SELECT `+costCenterColumns+` FROM cost_centers WHERE code = $1`, code))
	if err != nil {
		return nil, notFoundOr(err, "cost center", code)
	}
	return &cc, nil
}

func (s *PostgresStore) ListCostCenters(ctx context.Context, activeOnly bool) ([]model.CostCenter, error) {
	query := `SELECT ` + costCenterColumns + ` FROM cost_centers`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY code`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list cost centers")
	}
	return collect(rows, "cost center", scanCostCenter)
}

func (s *PostgresStore) UpdateCostCenter(ctx context.Context, id int64, u model.CostCenterUpdate) (*model.CostCenter, error) {
	var b updateBuilder
	if u.Name != nil {
		b.set("name", *u.Name)
	}
	if u.Description != nil {
		b.set("description", *u.Description)
	}
	if u.Active != nil {
		b.set("active", *u.Active)
	}
	if len(b.sets) == 0 {
		return s.GetCostCenter(ctx, id)
	}
	query := fmt.Sprintf(`UPDATE cost_centers SET %s, updated_at = now() WHERE id = %s RETURNING `+costCenterColumns,
		joinSets(b.sets), b.where(id))

	cc, err := scanCostCenter(s.pool.QueryRow(ctx, query, b.args...))
	if err != nil {
		return nil, notFoundOr(err, "cost center", id)
	}
	return &cc, nil
}

// UpsertCostCenters inserts missing cost centers by code and leaves existing
// rows untouched, so seeding never overwrites edits.
func (s *PostgresStore) UpsertCostCenters(ctx context.Context, centers []model.CostCenter) (int64, error) {
	rows := make([][]any, 0, len(centers))
	for _, cc := range centers {
		rows = append(rows, []any{cc.Code, cc.Name, cc.Description, cc.Active})
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "cost_centers",
		Columns:      []string{"code", "name", "description", "active"},
		ConflictKeys: []string{"code"},
		UpdateCols:   []string{},
	}, rows)
}

const ruleColumns = `id, name, cost_center_code, keywords, priority, active, created_at, updated_at`

func scanRule(row rowScanner) (model.ClassificationRule, error) {
	var r model.ClassificationRule
	var priority int32
	err := row.Scan(&r.ID, &r.Name, &r.CostCenterCode, &r.Keywords, &priority, &r.Active,
		&r.CreatedAt, &r.UpdatedAt)
	r.Priority = int(priority)
	return r, err
}

// ListClassificationRules returns rules by descending priority, then id.
func (s *PostgresStore) ListClassificationRules(ctx context.Context, activeOnly bool) ([]model.ClassificationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM classification_rules`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY priority DESC, id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list classification rules")
	}
	return collect(rows, "classification rule", scanRule)
}

func (s *PostgresStore) CreateClassificationRule(ctx context.Context, r *model.ClassificationRule) error {
	if r.Keywords == nil {
		r.Keywords = []string{}
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO classification_rules (name, cost_center_code, keywords, priority, active)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		r.Name, r.CostCenterCode, r.Keywords, int32(r.Priority), r.Active,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return writeErr(err, "insert classification rule")
	}
	return nil
}

func (s *PostgresStore) UpdateClassificationRule(ctx context.Context, r *model.ClassificationRule) error {
	if r.Keywords == nil {
		r.Keywords = []string{}
	}
	updated, err := scanRule(s.pool.QueryRow(ctx,
		`UPDATE classification_rules SET name = $1, cost_center_code = $2, keywords = $3, priority = $4,
			active = $5, updated_at = now()
		WHERE id = $6 RETURNING `+ruleColumns,
		r.Name, r.CostCenterCode, r.Keywords, int32(r.Priority), r.Active, r.ID))
	if err != nil {
		return notFoundOr(err, "classification rule", r.ID)
	}
	*r = updated
	return nil
}

func (s *PostgresStore) DeleteClassificationRule(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM classification_rules WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete classification rule %d", id)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("classification rule %d not found", id)
	}
	return nil
}

// UpsertClassificationRules inserts missing rules by name and leaves
// existing rows untouched.
func (s *PostgresStore) UpsertClassificationRules(ctx context.Context, rules []model.ClassificationRule) (int64, error) {
	rows := make([][]any, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, []any{r.Name, r.CostCenterCode, r.Keywords, int32(r.Priority), r.Active})
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "classification_rules",
		Columns:      []string{"name", "cost_center_code", "keywords", "priority", "active"},
		ConflictKeys: []string{"name"},
		UpdateCols:   []string{},
	}, rows)
}
