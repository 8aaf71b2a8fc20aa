package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/contract-costs/internal/finance"
	"github.com/sells-group/contract-costs/internal/model"
)

// ActiveContract is a progress card of an in-progress contract.
type ActiveContract struct {
	ID       int64                `json:"id"`
	Name     string               `json:"name"`
	Progress decimal.Decimal      `json:"progress"`
	Budget   decimal.Decimal      `json:"budget"`
	Spent    decimal.Decimal      `json:"spent"`
	Status   model.ContractStatus `json:"status"`
}

// ActiveContracts lists the most recent in-progress contracts with their
// realized value.
func (s *Service) ActiveContracts(ctx context.Context, limit int) ([]ActiveContract, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, project_name, original_value, status FROM contracts
		WHERE status = 'in_progress' ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: active contracts")
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (ActiveContract, error) {
		var c ActiveContract
		err := r.Scan(&c.ID, &c.Name, &c.Budget, &c.Status)
		return c, err
	})
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: scan active contracts")
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]int64, len(out))
	for i, c := range out {
		ids[i] = c.ID
	}
	realized, err := s.store.RealizedByContract(ctx, ids)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: realized values")
	}
	for i := range out {
		out[i].Spent = realized[out[i].ID]
		out[i].Progress = finance.PercentRealized(out[i].Spent, out[i].Budget)
	}
	return out, nil
}

// Activity is one entry of the recent activity feed.
type Activity struct {
	Type        string          `json:"type"`
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Value       decimal.Decimal `json:"value"`
}

const activitiesSQL = `SELECT kind, id, label, at, value FROM (
	SELECT 'contract' AS kind, id, project_name AS label, created_at AS at, original_value AS value
	FROM contracts
	UNION ALL
	SELECT 'purchase_order', id, order_number, created_at, total_value FROM purchase_orders
	UNION ALL
	SELECT 'nota_fiscal', id, number, COALESCE(updated_at, created_at), total_value
	FROM notas_fiscais WHERE status = 'validated'
) feed ORDER BY at DESC, id DESC LIMIT $1`

// Activities merges recently created contracts and orders with recently
// validated notas fiscais, newest first.
func (s *Service) Activities(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, activitiesSQL, limit)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: activities")
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (Activity, error) {
		var a Activity
		var label string
		if err := r.Scan(&a.Type, &a.ID, &label, &a.Date, &a.Value); err != nil {
			return a, err
		}
		switch a.Type {
		case "contract":
			a.Description = fmt.Sprintf("contract %q created", label)
		case "purchase_order":
			a.Description = fmt.Sprintf("purchase order %s issued", label)
		default:
			a.Description = fmt.Sprintf("nota fiscal %s validated", label)
		}
		return a, nil
	})
	return out, eris.Wrap(err, "dashboard: scan activities")
}

// Alert is one entry of the alert panel.
type Alert struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	ContractID  *int64 `json:"contractId,omitempty"`
	Count       int64  `json:"count,omitempty"`
}

// Alerts lists high-value contracts, contracts near their end date, stale
// orders and notas fiscais in error. With nothing to report it returns a
// single low-priority "all clear" entry.
func (s *Service) Alerts(ctx context.Context) ([]Alert, error) {
	now := s.now()
	var high []Alert
	var expiring, stale, nfErrors int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	g.Go(func() error {
		var err error
		high, err = s.highValueAlerts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		expiring, err = s.count(gctx, "expiring contracts", expiringSQL, now.AddDate(0, 0, s.cfg.ExpiringDays))
		return err
	})
	g.Go(func() error {
		var err error
		stale, err = s.count(gctx, "stale orders", staleOrdersSQL, now.AddDate(0, 0, -s.cfg.StaleOrderDays))
		return err
	})
	g.Go(func() error {
		var err error
		nfErrors, err = s.count(gctx, "notas fiscais in error",
			`SELECT COUNT(*) FROM notas_fiscais WHERE status = 'error'`)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	alerts := append([]Alert{}, high...)
	if expiring > 0 {
		alerts = append(alerts, Alert{
			Type:        "deadline",
			Title:       "Contracts ending soon",
			Description: fmt.Sprintf("%d contract(s) ending within %d days", expiring, s.cfg.ExpiringDays),
			Priority:    "high",
			Count:       expiring,
		})
	}
	if stale > 0 {
		alerts = append(alerts, Alert{
			Type:        "purchase",
			Title:       "Stale purchase orders",
			Description: fmt.Sprintf("%d purchase order(s) pending for more than %d days", stale, s.cfg.StaleOrderDays),
			Priority:    "medium",
			Count:       stale,
		})
	}
	if nfErrors > 0 {
		alerts = append(alerts, Alert{
			Type:        "nota_fiscal",
			Title:       "Notas fiscais with errors",
			Description: fmt.Sprintf("%d nota(s) fiscal(is) rejected or failed processing", nfErrors),
			Priority:    "high",
			Count:       nfErrors,
		})
	}
	if len(alerts) == 0 {
		alerts = append(alerts, Alert{
			Type:        "sync",
			Title:       "All clear",
			Description: "no pending issues",
			Priority:    "low",
		})
	}
	return alerts, nil
}

func (s *Service) highValueAlerts(ctx context.Context) ([]Alert, error) {
	threshold := decimal.NewFromFloat(s.cfg.HighValueThreshold)
	rows, err := s.pool.Query(ctx,
		`SELECT id, project_name, original_value FROM contracts
		WHERE original_value > $1 ORDER BY original_value DESC`, threshold)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: high value contracts")
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (Alert, error) {
		var id int64
		var name string
		var value decimal.Decimal
		if err := r.Scan(&id, &name, &value); err != nil {
			return Alert{}, err
		}
		return Alert{
			Type:        "budget",
			Title:       "High-value contract",
			Description: fmt.Sprintf("contract %q is valued at %s", name, value.StringFixed(2)),
			Priority:    "medium",
			ContractID:  &id,
		}, nil
	})
	return out, eris.Wrap(err, "dashboard: scan high value contracts")
}

// MonthStat is the NF count and value of one calendar month.
type MonthStat struct {
	Month string          `json:"month"`
	Year  int             `json:"year"`
	Count int64           `json:"count"`
	Value decimal.Decimal `json:"value"`
}

// NFStats summarizes notas fiscais.
type NFStats struct {
	Total              int64            `json:"total_nfs"`
	PendingValidation  int64            `json:"pending_validation"`
	Validated          int64            `json:"validated"`
	Rejected           int64            `json:"rejected"`
	TotalValue         decimal.Decimal  `json:"total_value"`
	StatusDistribution map[string]int64 `json:"status_distribution"`
	Monthly            []MonthStat      `json:"monthly_stats"`
}

// NFStats counts notas fiscais by status and buckets the last 12 calendar
// months by issue date, oldest first.
func (s *Service) NFStats(ctx context.Context) (*NFStats, error) {
	months := MonthWindows(s.now(), 12)
	out := &NFStats{StatusDistribution: map[string]int64{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.pool.Query(gctx,
			`SELECT status, COUNT(*), COALESCE(SUM(total_value), 0) FROM notas_fiscais GROUP BY status`)
		if err != nil {
			return eris.Wrap(err, "dashboard: nf status totals")
		}
		_, err = pgx.CollectRows(rows, func(r pgx.CollectableRow) (struct{}, error) {
			var st model.NFStatus
			var n int64
			var v decimal.Decimal
			if err := r.Scan(&st, &n, &v); err != nil {
				return struct{}{}, err
			}
			out.StatusDistribution[string(st)] = n
			out.Total += n
			out.TotalValue = out.TotalValue.Add(v)
			return struct{}{}, nil
		})
		return eris.Wrap(err, "dashboard: scan nf status totals")
	})
	g.Go(func() error {
		var err error
		out.Monthly, err = s.nfMonthly(gctx, months)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.PendingValidation = out.StatusDistribution[string(model.NFProcessed)]
	out.Validated = out.StatusDistribution[string(model.NFValidated)]
	out.Rejected = out.StatusDistribution[string(model.NFError)]
	return out, nil
}

func (s *Service) nfMonthly(ctx context.Context, months []Month) ([]MonthStat, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT date_trunc('month', issue_date AT TIME ZONE 'UTC') AS month, COUNT(*), SUM(total_value)
		FROM notas_fiscais WHERE issue_date >= $1 AND issue_date < $2
		GROUP BY month`, months[0].Start, months[len(months)-1].End)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: nf monthly")
	}
	type bucket struct {
		n int64
		v decimal.Decimal
	}
	byMonth := map[int]bucket{}
	_, err = pgx.CollectRows(rows, func(r pgx.CollectableRow) (struct{}, error) {
		var m time.Time
		var b bucket
		if err := r.Scan(&m, &b.n, &b.v); err != nil {
			return struct{}{}, err
		}
		byMonth[monthKey(m)] = b
		return struct{}{}, nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: scan nf monthly")
	}

	out := make([]MonthStat, len(months))
	for i, m := range months {
		b := byMonth[monthKey(m.Start)]
		out[i] = MonthStat{Month: m.Start.Format("Jan"), Year: m.Start.Year(), Count: b.n, Value: b.v}
	}
	return out, nil
}
