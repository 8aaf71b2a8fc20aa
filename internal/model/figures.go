package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractFigures are the raw per-contract sums the finance engine works from.
type ContractFigures struct {
	ContractID             int64           `json:"contract_id"`
	Status                 ContractStatus  `json:"status"`
	OriginalValue          decimal.Decimal `json:"original_value"`
	ReductionTargetPercent decimal.Decimal `json:"reduction_target_percent"`
	Realized               decimal.Decimal `json:"realized"`
	BudgetTotal            decimal.Decimal `json:"budget_total"`
	ForecastTotal          decimal.Decimal `json:"forecast_total"`
}

// CostCenterUsage is the classified NF item count and value of one cost center.
type CostCenterUsage struct {
	CostCenterID int64           `json:"cost_center_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	ItemCount    int64           `json:"item_count"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// ClassificationStats summarizes NF item classification over a period.
type ClassificationStats struct {
	Since        time.Time         `json:"since"`
	TotalItems   int64             `json:"total_items"`
	Classified   int64             `json:"classified"`
	NeedsReview  int64             `json:"needs_review"`
	AverageScore decimal.Decimal   `json:"average_score"`
	ByCostCenter []CostCenterUsage `json:"by_cost_center"`
}
