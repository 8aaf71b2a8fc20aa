// Package dashboard builds the read-only dashboard projections: supplies,
// executive, KPI cards, feeds and alerts.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/config"
	"github.com/sells-group/contract-costs/internal/db"
	"github.com/sells-group/contract-costs/internal/finance"
	"github.com/sells-group/contract-costs/internal/model"
)

// maxParallel bounds the section queries one dashboard runs at once.
const maxParallel = 4

// Store is the store surface the dashboards read besides raw SQL.
type Store interface {
	finance.Figures
	GetContract(ctx context.Context, id int64) (*model.Contract, error)
	RealizedByContract(ctx context.Context, contractIDs []int64) (map[int64]decimal.Decimal, error)
}

// Service runs dashboard queries.
type Service struct {
	pool   db.Pool
	store  Store
	engine *finance.Engine
	cfg    config.DashboardConfig
	now    func() time.Time
	log    *zap.Logger
}

// NewService creates a dashboard service. Zero thresholds take the defaults
// 15% reduction target, 30 expiring days, 15 stale-order days and a
// 1,000,000 high-value contract.
func NewService(pool db.Pool, st Store, cfg config.DashboardConfig) *Service {
	if cfg.ReductionTargetPercent <= 0 {
		cfg.ReductionTargetPercent = 15
	}
	if cfg.ExpiringDays <= 0 {
		cfg.ExpiringDays = 30
	}
	if cfg.StaleOrderDays <= 0 {
		cfg.StaleOrderDays = 15
	}
	if cfg.HighValueThreshold <= 0 {
		cfg.HighValueThreshold = 1_000_000
	}
	return &Service{
		pool:   pool,
		store:  st,
		engine: finance.NewEngine(st),
		cfg:    cfg,
		now:    time.Now,
		log:    zap.L().With(zap.String("component", "dashboard")),
	}
}

// Filters narrows dashboard figures. From and To bound order issue dates.
type Filters struct {
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
	ContractIDs []int64    `json:"contract_ids,omitempty"`
}

// includes reports whether a contract passes the contract filter.
func (f Filters) includes(id int64) bool {
	if len(f.ContractIDs) == 0 {
		return true
	}
	for _, c := range f.ContractIDs {
		if c == id {
			return true
		}
	}
	return false
}

// where accumulates AND-ed conditions with positional args.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// orderWhere applies the filters to purchase_orders.
func (f Filters) orderWhere() *where {
	w := &where{}
	if f.From != nil {
		w.add("issue_date >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("issue_date <= $%d", *f.To)
	}
	if len(f.ContractIDs) > 0 {
		w.add("contract_id = ANY($%d)", f.ContractIDs)
	}
	return w
}

// contractWhere applies the contract filter to a table with contract_id.
func (f Filters) contractWhere(col string) *where {
	w := &where{}
	if len(f.ContractIDs) > 0 {
		w.add(col+" = ANY($%d)", f.ContractIDs)
	}
	return w
}

// Month is one calendar month bucket [Start, End).
type Month struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// MonthWindows returns the n calendar months ending with the month of now,
// oldest first. Months are counted on the calendar, so January steps back
// to December of the previous year.
func MonthWindows(now time.Time, n int) []Month {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]Month, n)
	for i := 0; i < n; i++ {
		start := first.AddDate(0, -(n - 1 - i), 0)
		out[i] = Month{Start: start, End: start.AddDate(0, 1, 0), Label: start.Format("Jan/2006")}
	}
	return out
}

// monthKey identifies a calendar month.
func monthKey(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

func (s *Service) count(ctx context.Context, what, query string, args ...any) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, eris.Wrapf(err, "dashboard: count %s", what)
	}
	return n, nil
}

func (s *Service) sum(ctx context.Context, what, query string, args ...any) (decimal.Decimal, error) {
	var v decimal.Decimal
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&v); err != nil {
		return decimal.Zero, eris.Wrapf(err, "dashboard: sum %s", what)
	}
	return v, nil
}

// StatusCount is the row count of one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

func (s *Service) statusCounts(ctx context.Context, what, query string, args ...any) ([]StatusCount, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "dashboard: %s by status", what)
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (StatusCount, error) {
		var sc StatusCount
		err := r.Scan(&sc.Status, &sc.Count)
		return sc, err
	})
	if err != nil {
		return nil, eris.Wrapf(err, "dashboard: scan %s by status", what)
	}
	return out, nil
}

// portfolioFigures loads every contract's figures, narrowed by the filter.
func (s *Service) portfolioFigures(ctx context.Context, f Filters) ([]model.ContractFigures, error) {
	all, err := s.store.AllContractFigures(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: contract figures")
	}
	if len(f.ContractIDs) == 0 {
		return all, nil
	}
	kept := all[:0:0]
	for _, cf := range all {
		if f.includes(cf.ContractID) {
			kept = append(kept, cf)
		}
	}
	return kept, nil
}
