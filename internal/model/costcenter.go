package model

import "time"

// CostCenter is an accounting category that NF items are classified into.
type CostCenter struct {
	ID          int64      `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// CostCenterUpdate carries the mutable cost center fields.
type CostCenterUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// ClassificationRule is a persisted keyword rule. Active rules ordered by
// priority (highest first) then id form the classifier's table.
type ClassificationRule struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	CostCenterCode string     `json:"cost_center_code"`
	Keywords       []string   `json:"keywords"`
	Priority       int        `json:"priority"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// DefaultCostCenters are seeded by `costs seed`.
var DefaultCostCenters = []CostCenter{
	{Code: "materia_prima", Name: "Matéria-prima", Active: true},
	{Code: "mao_de_obra", Name: "Mão de obra", Active: true},
	{Code: "equipamento", Name: "Equipamentos", Active: true},
	{Code: "transporte", Name: "Transporte e logística", Active: true},
	{Code: "mobilizacao", Name: "Mobilização", Active: true},
	{Code: "outros", Name: "Outros", Active: true},
}
