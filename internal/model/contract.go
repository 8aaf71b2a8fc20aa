package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractType distinguishes material supply contracts from service contracts.
type ContractType string

const (
	ContractMaterial ContractType = "material"
	ContractService  ContractType = "service"
)

// Valid reports whether t is a known contract type.
func (t ContractType) Valid() bool {
	return t == ContractMaterial || t == ContractService
}

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	ContractInProgress ContractStatus = "in_progress"
	ContractFinalizing ContractStatus = "finalizing"
	ContractCompleted  ContractStatus = "completed"
	ContractPaused     ContractStatus = "paused"
)

// Valid reports whether s is a known contract status.
func (s ContractStatus) Valid() bool {
	switch s {
	case ContractInProgress, ContractFinalizing, ContractCompleted, ContractPaused:
		return true
	}
	return false
}

// Contract is a construction contract and the root of all cost tracking.
type Contract struct {
	ID                     int64           `json:"id"`
	ContractNumber         string          `json:"contract_number"`
	ProjectName            string          `json:"project_name"`
	Client                 string          `json:"client"`
	ContractType           ContractType    `json:"contract_type"`
	OriginalValue          decimal.Decimal `json:"original_value"`
	ReductionTargetPercent decimal.Decimal `json:"reduction_target_percent"`
	Status                 ContractStatus  `json:"status"`
	StartDate              time.Time       `json:"start_date"`
	ExpectedEndDate        *time.Time      `json:"expected_end_date,omitempty"`
	ActualEndDate          *time.Time      `json:"actual_end_date,omitempty"`
	Notes                  *string         `json:"notes,omitempty"`
	CreatedBy              int64           `json:"created_by"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              *time.Time      `json:"updated_at,omitempty"`
}

// NewContract is the user-supplied part of a contract created from a
// budget sheet. Number, value and status are derived on import.
type NewContract struct {
	ProjectName            string           `json:"project_name"`
	Client                 string           `json:"client"`
	ContractType           ContractType     `json:"contract_type"`
	StartDate              time.Time        `json:"start_date"`
	ExpectedEndDate        *time.Time       `json:"expected_end_date,omitempty"`
	ReductionTargetPercent *decimal.Decimal `json:"reduction_target_percent,omitempty"`
	Notes                  *string          `json:"notes,omitempty"`
	CreatedBy              int64            `json:"-"`
}

// ContractUpdate carries the mutable contract fields. Nil fields are left untouched.
type ContractUpdate struct {
	ProjectName            *string          `json:"project_name,omitempty"`
	Client                 *string          `json:"client,omitempty"`
	OriginalValue          *decimal.Decimal `json:"original_value,omitempty"`
	ReductionTargetPercent *decimal.Decimal `json:"reduction_target_percent,omitempty"`
	Status                 *ContractStatus  `json:"status,omitempty"`
	ExpectedEndDate        *time.Time       `json:"expected_end_date,omitempty"`
	ActualEndDate          *time.Time       `json:"actual_end_date,omitempty"`
	Notes                  *string          `json:"notes,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u ContractUpdate) Empty() bool {
	return u.ProjectName == nil && u.Client == nil && u.OriginalValue == nil &&
		u.ReductionTargetPercent == nil && u.Status == nil && u.ExpectedEndDate == nil &&
		u.ActualEndDate == nil && u.Notes == nil
}

// BudgetItem is a planned line of spend for a contract.
type BudgetItem struct {
	ID                 int64            `json:"id"`
	ContractID         int64            `json:"contract_id"`
	ItemCode           string           `json:"item_code"`
	Description        string           `json:"description"`
	CostCenterLabel    string           `json:"cost_center_label"`
	Unit               *string          `json:"unit,omitempty"`
	ForecastQuantity   *decimal.Decimal `json:"forecast_quantity,omitempty"`
	ForecastWeight     *decimal.Decimal `json:"forecast_weight,omitempty"`
	ForecastUnitValue  *decimal.Decimal `json:"forecast_unit_value,omitempty"`
	ForecastTotalValue decimal.Decimal  `json:"forecast_total_value"`

	// Labor contracts.
	NormalHours   *decimal.Decimal `json:"normal_hours,omitempty"`
	OvertimeHours *decimal.Decimal `json:"overtime_hours,omitempty"`
	ForecastWage  *decimal.Decimal `json:"forecast_wage,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ForecastValue is one row of a structured budget spreadsheet import.
type ForecastValue struct {
	ID                 int64            `json:"id"`
	ContractID         int64            `json:"contract_id"`
	ItemCode           string           `json:"item_code"`
	ServiceDescription string           `json:"service_description"`
	Unit               *string          `json:"unit,omitempty"`
	MonthlyQuantity    *decimal.Decimal `json:"monthly_quantity,omitempty"`
	DurationMonths     *decimal.Decimal `json:"duration_months,omitempty"`
	TotalPrice         decimal.Decimal  `json:"total_price"`
	Note               *string          `json:"note,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

// ContractFilter narrows contract listings.
type ContractFilter struct {
	Client string
	Status ContractStatus
	Limit  int
	Offset int
}
