package finance

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/contract-costs/internal/model"
)

// Figures is the store surface the engine reads from.
type Figures interface {
	RealizedValue(ctx context.Context, contractID int64) (decimal.Decimal, error)
	ContractFigures(ctx context.Context, contractID int64) (*model.ContractFigures, error)
	AllContractFigures(ctx context.Context) ([]model.ContractFigures, error)
}

// Metrics are the derived financial figures of one contract.
type Metrics struct {
	ContractID             int64           `json:"contract_id"`
	OriginalValue          decimal.Decimal `json:"original_value"`
	Realized               decimal.Decimal `json:"realized_value"`
	Balance                decimal.Decimal `json:"balance"`
	PercentRealized        decimal.Decimal `json:"percent_realized"`
	ForecastTotal          decimal.Decimal `json:"forecast_total"`
	Savings                decimal.Decimal `json:"savings"`
	SavingsPercent         decimal.Decimal `json:"savings_percent"`
	ReductionTargetPercent decimal.Decimal `json:"reduction_target_percent"`
	TargetMet              bool            `json:"target_met"`
}

// Portfolio sums independently computed contract metrics.
type Portfolio struct {
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalRealized   decimal.Decimal `json:"total_realized"`
	Balance         decimal.Decimal `json:"balance"`
	AvgProgress     decimal.Decimal `json:"avg_progress"`
	ActiveContracts int             `json:"active_contracts"`
	TotalContracts  int             `json:"total_contracts"`
	ForecastTotal   decimal.Decimal `json:"forecast_total"`
	Savings         decimal.Decimal `json:"savings"`
	SavingsPercent  decimal.Decimal `json:"savings_percent"`
}

// Engine computes contract and portfolio metrics.
type Engine struct {
	figures Figures
}

// NewEngine creates an Engine over the given figures source.
func NewEngine(f Figures) *Engine {
	return &Engine{figures: f}
}

// RealizedValue is the sum of validated NF totals of a contract.
func (e *Engine) RealizedValue(ctx context.Context, contractID int64) (decimal.Decimal, error) {
	v, err := e.figures.RealizedValue(ctx, contractID)
	if err != nil {
		return decimal.Zero, eris.Wrapf(err, "finance: realized value of contract %d", contractID)
	}
	return v, nil
}

// ContractMetrics computes the metrics of one contract. A missing contract
// surfaces as the store's not-found error.
func (e *Engine) ContractMetrics(ctx context.Context, contractID int64) (*Metrics, error) {
	f, err := e.figures.ContractFigures(ctx, contractID)
	if err != nil {
		return nil, eris.Wrapf(err, "finance: metrics of contract %d", contractID)
	}
	m := Compute(*f)
	return &m, nil
}

// Compute derives Metrics from raw figures.
func Compute(f model.ContractFigures) Metrics {
	// Savings are measured against budget items only; no budget means no savings.
	forecast := f.BudgetTotal
	savings := Savings(forecast, f.Realized)
	savingsPct := SavingsPercent(savings, forecast)
	return Metrics{
		ContractID:             f.ContractID,
		OriginalValue:          f.OriginalValue,
		Realized:               f.Realized,
		Balance:                Balance(f.OriginalValue, f.Realized),
		PercentRealized:        PercentRealized(f.Realized, f.OriginalValue),
		ForecastTotal:          forecast,
		Savings:                savings,
		SavingsPercent:         savingsPct,
		ReductionTargetPercent: f.ReductionTargetPercent,
		TargetMet:              savingsPct.GreaterThanOrEqual(f.ReductionTargetPercent),
	}
}

// Portfolio aggregates every contract without netting across contracts.
func (e *Engine) Portfolio(ctx context.Context) (*Portfolio, error) {
	all, err := e.figures.AllContractFigures(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "finance: portfolio")
	}
	p := Aggregate(all)
	return &p, nil
}

// Aggregate sums per-contract metrics into a Portfolio.
func Aggregate(all []model.ContractFigures) Portfolio {
	p := Portfolio{TotalContracts: len(all)}
	progress := decimal.Zero
	for _, f := range all {
		m := Compute(f)
		p.TotalValue = p.TotalValue.Add(m.OriginalValue)
		p.TotalRealized = p.TotalRealized.Add(m.Realized)
		p.ForecastTotal = p.ForecastTotal.Add(m.ForecastTotal)
		p.Savings = p.Savings.Add(m.Savings)
		progress = progress.Add(m.PercentRealized)
		if f.Status == model.ContractInProgress {
			p.ActiveContracts++
		}
	}
	p.Balance = Balance(p.TotalValue, p.TotalRealized)
	p.SavingsPercent = SavingsPercent(p.Savings, p.ForecastTotal)
	if len(all) > 0 {
		p.AvgProgress = progress.Div(decimal.NewFromInt(int64(len(all)))).Round(2)
	}
	return p
}
