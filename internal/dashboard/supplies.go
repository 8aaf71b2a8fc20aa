package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/contract-costs/internal/finance"
)

// SuppliesSummary are the headline numbers of the supplies dashboard.
type SuppliesSummary struct {
	TotalOrders       int64           `json:"total_purchase_orders"`
	TotalValue        decimal.Decimal `json:"total_value"`
	ApprovedSuppliers int64           `json:"approved_suppliers"`
	PendingQuotations int64           `json:"pending_quotations"`
	Economy           decimal.Decimal `json:"economy_obtained"`
	EconomyPercent    decimal.Decimal `json:"economy_percentage"`
}

// NamedValue is one labelled amount.
type NamedValue struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// MonthValue is the amount of one calendar month.
type MonthValue struct {
	Month string          `json:"month"`
	Value decimal.Decimal `json:"value"`
}

// Supplies is the supplies-team dashboard.
type Supplies struct {
	Summary            SuppliesSummary `json:"summary"`
	OrdersByStatus     []StatusCount   `json:"orders_by_status"`
	CostCenterExpenses []NamedValue    `json:"cost_center_expenses"`
	MonthlyTrend       []MonthValue    `json:"monthly_trend"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

// Supplies computes the supplies dashboard. Economy is the budgeted total
// minus the validated NF total, floored at zero.
func (s *Service) Supplies(ctx context.Context, f Filters) (*Supplies, error) {
	now := s.now()
	out := &Supplies{GeneratedAt: now}
	var budget, validated decimal.Decimal

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	g.Go(func() error {
		w := f.orderWhere()
		err := s.pool.QueryRow(gctx,
			`SELECT COUNT(*), COALESCE(SUM(total_value), 0) FROM purchase_orders`+w.String(), w.args...,
		).Scan(&out.Summary.TotalOrders, &out.Summary.TotalValue)
		return eris.Wrap(err, "dashboard: order totals")
	})
	g.Go(func() error {
		w := f.orderWhere()
		var err error
		out.OrdersByStatus, err = s.statusCounts(gctx, "orders",
			`SELECT status, COUNT(*) FROM purchase_orders`+w.String()+` GROUP BY status ORDER BY status`, w.args...)
		return err
	})
	g.Go(func() error {
		var err error
		out.Summary.ApprovedSuppliers, err = s.count(gctx, "approved suppliers",
			`SELECT COUNT(*) FROM suppliers WHERE approved`)
		return err
	})
	g.Go(func() error {
		var err error
		out.Summary.PendingQuotations, err = s.count(gctx, "pending quotations",
			`SELECT COUNT(*) FROM quotations WHERE NOT is_selected`)
		return err
	})
	g.Go(func() error {
		w := f.contractWhere("contract_id")
		var err error
		budget, err = s.sum(gctx, "budget",
			`SELECT COALESCE(SUM(forecast_total_value), 0) FROM budget_items`+w.String(), w.args...)
		return err
	})
	g.Go(func() error {
		w := f.contractWhere("contract_id")
		w.conds = append(w.conds, "status = 'validated'")
		var err error
		validated, err = s.sum(gctx, "validated notas fiscais",
			`SELECT COALESCE(SUM(total_value), 0) FROM notas_fiscais`+w.String(), w.args...)
		return err
	})
	g.Go(func() error {
		var err error
		out.CostCenterExpenses, err = s.costCenterExpenses(gctx, now.AddDate(0, 0, -30))
		return err
	})
	g.Go(func() error {
		var err error
		out.MonthlyTrend, err = s.orderTrend(gctx, MonthWindows(now, 6))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.Summary.Economy = finance.Savings(budget, validated)
	out.Summary.EconomyPercent = finance.Percent(out.Summary.Economy, budget)
	return out, nil
}

// costCenterExpenses groups recently created budget items by label.
func (s *Service) costCenterExpenses(ctx context.Context, since time.Time) ([]NamedValue, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT cost_center_label, COALESCE(SUM(forecast_total_value), 0) FROM budget_items
		WHERE created_at >= $1 GROUP BY cost_center_label ORDER BY 2 DESC`, since)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: cost center expenses")
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (NamedValue, error) {
		var nv NamedValue
		err := r.Scan(&nv.Name, &nv.Value)
		return nv, err
	})
	return out, eris.Wrap(err, "dashboard: scan cost center expenses")
}

// orderTrend sums purchase-order value per window. Months without orders
// report zero.
func (s *Service) orderTrend(ctx context.Context, months []Month) ([]MonthValue, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT date_trunc('month', issue_date AT TIME ZONE 'UTC') AS month, SUM(total_value)
		FROM purchase_orders WHERE issue_date >= $1 AND issue_date < $2
		GROUP BY month`, months[0].Start, months[len(months)-1].End)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: order trend")
	}
	byMonth := map[int]decimal.Decimal{}
	_, err = pgx.CollectRows(rows, func(r pgx.CollectableRow) (struct{}, error) {
		var m time.Time
		var v decimal.Decimal
		if err := r.Scan(&m, &v); err != nil {
			return struct{}{}, err
		}
		byMonth[monthKey(m)] = v
		return struct{}{}, nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: scan order trend")
	}

	out := make([]MonthValue, len(months))
	for i, m := range months {
		out[i] = MonthValue{Month: m.Label, Value: byMonth[monthKey(m.Start)]}
	}
	return out, nil
}
