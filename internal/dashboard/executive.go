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

// ExecutiveSummary are the headline numbers of the executive dashboard.
type ExecutiveSummary struct {
	TotalContracts     int             `json:"total_contracts"`
	ActiveContracts    int             `json:"active_contracts"`
	TotalValue         decimal.Decimal `json:"total_contract_value"`
	TotalRealized      decimal.Decimal `json:"total_realized"`
	RealizationPercent decimal.Decimal `json:"realization_percentage"`
	Balance            decimal.Decimal `json:"total_balance"`
	Economy            decimal.Decimal `json:"total_economy"`
	EconomyPercent     decimal.Decimal `json:"economy_percentage"`
}

// TopContract is one entry of the largest-contracts list.
type TopContract struct {
	ID     int64                `json:"id"`
	Name   string               `json:"name"`
	Client string               `json:"client"`
	Value  decimal.Decimal      `json:"value"`
	Status model.ContractStatus `json:"status"`
}

// CountAlert is a dashboard alert backed by a row count.
type CountAlert struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

// ExecutiveKPIs are the ratio indicators of the executive dashboard.
type ExecutiveKPIs struct {
	CompletionRate  decimal.Decimal `json:"contract_completion_rate"`
	BudgetAdherence decimal.Decimal `json:"budget_adherence"`
	CostEfficiency  decimal.Decimal `json:"cost_efficiency"`
}

// Executive is the board dashboard.
type Executive struct {
	Summary           ExecutiveSummary `json:"summary"`
	ContractsByStatus []StatusCount    `json:"contracts_by_status"`
	TopContracts      []TopContract    `json:"top_contracts"`
	Alerts            []CountAlert     `json:"alerts"`
	KPIs              ExecutiveKPIs    `json:"kpis"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

// Executive computes the executive dashboard from per-contract figures.
// Economy compares the budget item total with the realized total.
func (s *Service) Executive(ctx context.Context, f Filters) (*Executive, error) {
	now := s.now()
	out := &Executive{GeneratedAt: now, Alerts: []CountAlert{}}
	var figures []model.ContractFigures
	var expiring, stale int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	g.Go(func() error {
		var err error
		figures, err = s.portfolioFigures(gctx, f)
		return err
	})
	g.Go(func() error {
		w := f.contractWhere("id")
		var err error
		out.ContractsByStatus, err = s.statusCounts(gctx, "contracts",
			`SELECT status, COUNT(*) FROM contracts`+w.String()+` GROUP BY status ORDER BY status`, w.args...)
		return err
	})
	g.Go(func() error {
		var err error
		out.TopContracts, err = s.topContracts(gctx, f, 5)
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
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p := finance.Aggregate(figures)
	budget := decimal.Zero
	for _, cf := range figures {
		budget = budget.Add(cf.BudgetTotal)
	}
	economy := finance.Savings(budget, p.TotalRealized)

	out.Summary = ExecutiveSummary{
		TotalContracts:     p.TotalContracts,
		ActiveContracts:    p.ActiveContracts,
		TotalValue:         p.TotalValue,
		TotalRealized:      p.TotalRealized,
		RealizationPercent: finance.PercentRealized(p.TotalRealized, p.TotalValue),
		Balance:            p.Balance,
		Economy:            economy,
		EconomyPercent:     finance.Percent(economy, budget),
	}
	out.KPIs = ExecutiveKPIs{
		CompletionRate:  out.Summary.RealizationPercent,
		BudgetAdherence: budgetAdherence(budget, p.TotalRealized),
		CostEfficiency:  out.Summary.EconomyPercent,
	}

	if expiring > 0 {
		out.Alerts = append(out.Alerts, CountAlert{
			Type:    "warning",
			Message: fmt.Sprintf("%d contract(s) ending within %d days", expiring, s.cfg.ExpiringDays),
			Count:   expiring,
		})
	}
	if stale > 0 {
		out.Alerts = append(out.Alerts, CountAlert{
			Type:    "error",
			Message: fmt.Sprintf("%d purchase order(s) pending for more than %d days", stale, s.cfg.StaleOrderDays),
			Count:   stale,
		})
	}
	return out, nil
}

const (
	expiringSQL = `SELECT COUNT(*) FROM contracts
	WHERE status = 'in_progress' AND expected_end_date <= $1`
	staleOrdersSQL = `SELECT COUNT(*) FROM purchase_orders
	WHERE status = 'pending' AND issue_date <= $1`
)

// budgetAdherence is 100% when realized equals budget and falls by the
// relative deviation in either direction.
func budgetAdherence(budget, realized decimal.Decimal) decimal.Decimal {
	if !budget.IsPositive() {
		return decimal.Zero
	}
	return finance.Percent(budget.Sub(realized.Sub(budget).Abs()), budget)
}

func (s *Service) topContracts(ctx context.Context, f Filters, limit int) ([]TopContract, error) {
	w := f.contractWhere("id")
	w.args = append(w.args, limit)
	rows, err := s.pool.Query(ctx,
		`SELECT id, project_name, client, original_value, status FROM contracts`+w.String()+
			fmt.Sprintf(` ORDER BY original_value DESC, id LIMIT $%d`, len(w.args)), w.args...)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: top contracts")
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (TopContract, error) {
		var c TopContract
		err := r.Scan(&c.ID, &c.Name, &c.Client, &c.Value, &c.Status)
		return c, err
	})
	return out, eris.Wrap(err, "dashboard: scan top contracts")
}

// KPIs are the four cards on the landing dashboard.
type KPIs struct {
	ContractBalance  decimal.Decimal `json:"contractBalance"`
	RealizedSavings  decimal.Decimal `json:"realizedSavings"`
	ReductionTarget  decimal.Decimal `json:"reductionTarget"`
	PendingPurchases int64           `json:"pendingPurchases"`
}

// KPIs computes the landing cards. RealizedSavings is a percentage of the
// budget item total.
func (s *Service) KPIs(ctx context.Context) (*KPIs, error) {
	var figures []model.ContractFigures
	var pending int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		figures, err = s.portfolioFigures(gctx, Filters{})
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = s.count(gctx, "pending purchases",
			`SELECT COUNT(*) FROM purchase_orders WHERE status IN ('pending', 'approved')`)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p := finance.Aggregate(figures)
	budget := decimal.Zero
	for _, cf := range figures {
		budget = budget.Add(cf.BudgetTotal)
	}
	return &KPIs{
		ContractBalance:  p.Balance,
		RealizedSavings:  finance.SavingsPercent(finance.Savings(budget, p.TotalRealized), budget),
		ReductionTarget:  decimal.NewFromFloat(s.cfg.ReductionTargetPercent),
		PendingPurchases: pending,
	}, nil
}

// KPISummary compares the last periodDays with the period before it.
type KPISummary struct {
	PeriodDays        int             `json:"period_days"`
	PeriodContracts   int64           `json:"period_contracts"`
	PeriodOrders      int64           `json:"period_orders"`
	PeriodValue       decimal.Decimal `json:"period_value"`
	ValueGrowth       decimal.Decimal `json:"value_growth_percentage"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

// KPISummary computes period figures. Growth is zero when the previous
// period had no order value.
func (s *Service) KPISummary(ctx context.Context, periodDays int) (*KPISummary, error) {
	if periodDays <= 0 {
		periodDays = 30
	}
	now := s.now()
	start := now.AddDate(0, 0, -periodDays)
	prevStart := start.AddDate(0, 0, -periodDays)
	out := &KPISummary{PeriodDays: periodDays, GeneratedAt: now}
	var previous decimal.Decimal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.PeriodContracts, err = s.count(gctx, "period contracts",
			`SELECT COUNT(*) FROM contracts WHERE created_at >= $1`, start)
		return err
	})
	g.Go(func() error {
		err := s.pool.QueryRow(gctx,
			`SELECT COUNT(*), COALESCE(SUM(total_value), 0) FROM purchase_orders WHERE issue_date >= $1`, start,
		).Scan(&out.PeriodOrders, &out.PeriodValue)
		return eris.Wrap(err, "dashboard: period orders")
	})
	g.Go(func() error {
		var err error
		previous, err = s.sum(gctx, "previous period orders",
			`SELECT COALESCE(SUM(total_value), 0) FROM purchase_orders WHERE issue_date >= $1 AND issue_date < $2`,
			prevStart, start)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.ValueGrowth = finance.Percent(out.PeriodValue.Sub(previous), previous)
	if out.PeriodOrders > 0 {
		out.AverageOrderValue = out.PeriodValue.Div(decimal.NewFromInt(out.PeriodOrders)).Round(2)
	}
	return out, nil
}

// RoleSummary is the quick KPI summary; exactly one of Executive and
// Supplies is set depending on the caller's role.
type RoleSummary struct {
	Audience  string            `json:"audience"`
	Executive *ExecutiveSummary `json:"executive,omitempty"`
	Supplies  *SuppliesSummary  `json:"supplies,omitempty"`
}

// RoleSummary serves the executive summary to diretoria and admin and the
// supplies summary to everyone else.
func (s *Service) RoleSummary(ctx context.Context, role model.Role, contractID *int64) (*RoleSummary, error) {
	var f Filters
	if contractID != nil {
		f.ContractIDs = []int64{*contractID}
	}
	if role == model.RoleDiretoria || role == model.RoleAdmin {
		ex, err := s.Executive(ctx, f)
		if err != nil {
			return nil, err
		}
		return &RoleSummary{Audience: "executive", Executive: &ex.Summary}, nil
	}
	sup, err := s.Supplies(ctx, f)
	if err != nil {
		return nil, err
	}
	return &RoleSummary{Audience: "supplies", Supplies: &sup.Summary}, nil
}

// ContractMetrics is a contract header with its financial metrics.
type ContractMetrics struct {
	ContractNumber string `json:"contract_number"`
	ProjectName    string `json:"project_name"`
	Client         string `json:"client"`
	finance.Metrics
}

// ContractMetrics returns the metrics of one contract.
func (s *Service) ContractMetrics(ctx context.Context, id int64) (*ContractMetrics, error) {
	c, err := s.store.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := s.engine.ContractMetrics(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ContractMetrics{
		ContractNumber: c.ContractNumber,
		ProjectName:    c.ProjectName,
		Client:         c.Client,
		Metrics:        *m,
	}, nil
}

// ContractKPIs are the contract list header cards.
type ContractKPIs struct {
	TotalValue      decimal.Decimal `json:"totalValue"`
	TotalSpent      decimal.Decimal `json:"totalSpent"`
	AvgProgress     decimal.Decimal `json:"avgProgress"`
	ActiveContracts int             `json:"activeContracts"`
}

// ContractKPIs sums every contract. AvgProgress is the realized share of
// the total contract value.
func (s *Service) ContractKPIs(ctx context.Context) (*ContractKPIs, error) {
	p, err := s.engine.Portfolio(ctx)
	if err != nil {
		return nil, err
	}
	return &ContractKPIs{
		TotalValue:      p.TotalValue,
		TotalSpent:      p.TotalRealized,
		AvgProgress:     finance.PercentRealized(p.TotalRealized, p.TotalValue),
		ActiveContracts: p.ActiveContracts,
	}, nil
}
