package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/finance"
	"github.com/sells-group/contract-costs/internal/model"
)

// conds accumulates AND-ed conditions with positional args.
type conds struct {
	list []string
	args []any
}

func (c *conds) add(cond string, arg any) {
	c.args = append(c.args, arg)
	c.list = append(c.list, fmt.Sprintf(cond, len(c.args)))
}

func (c *conds) where() string {
	if len(c.list) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.list, " AND ")
}

const analyticalSQL = `SELECT ii.id, ii.description, COALESCE(s.name, i.supplier_name, ''), ii.cost_center_label,
	po.order_number, i.invoice_number, i.issue_date, po.actual_delivery_date,
	ii.quantity, ii.unit, ii.weight, ii.unit_value, ii.total_value, i.notes
FROM invoice_items ii
JOIN invoices i ON i.id = ii.invoice_id
LEFT JOIN purchase_orders po ON po.id = i.purchase_order_id
JOIN contracts c ON c.id = COALESCE(i.contract_id, po.contract_id)
LEFT JOIN suppliers s ON s.id = po.supplier_id`

// Analytical lists invoice items across contracts, narrowed by the filter.
func (s *Service) Analytical(ctx context.Context, f Filter) (*AnalyticalReport, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	r := &AnalyticalReport{
		ContractNumber: "Todos",
		ProjectName:    "Relatório Geral",
		From:           f.From,
		To:             f.To,
		Items:          []AnalyticalItem{},
	}
	if f.ContractID != nil {
		c, err := s.store.GetContract(ctx, *f.ContractID)
		if err != nil {
			return nil, err
		}
		r.ContractID = c.ID
		r.ContractNumber = c.ContractNumber
		r.ProjectName = c.ProjectName
	}

	w := &conds{}
	if f.ContractID != nil {
		w.add("c.id = $%d", *f.ContractID)
	}
	if f.Client != "" {
		w.add("c.client ILIKE $%d", "%"+f.Client+"%")
	}
	if f.From != nil {
		w.add("i.issue_date >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("i.issue_date <= $%d", *f.To)
	}
	if f.CostCenter != "" {
		w.add("ii.cost_center_label ILIKE $%d", "%"+f.CostCenter+"%")
	}
	if f.Supplier != "" {
		w.add("COALESCE(s.name, i.supplier_name, '') ILIKE $%d", "%"+f.Supplier+"%")
	}

	rows, err := s.pool.Query(ctx, analyticalSQL+w.where()+" ORDER BY i.issue_date, ii.id", w.args...)
	if err != nil {
		return nil, eris.Wrap(err, "report: analytical query")
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (AnalyticalItem, error) {
		var it AnalyticalItem
		err := row.Scan(&it.ID, &it.Description, &it.Supplier, &it.CostCenter,
			&it.OrderNumber, &it.InvoiceNumber, &it.IssueDate, &it.DeliveryDate,
			&it.Quantity, &it.Unit, &it.Weight, &it.UnitValue, &it.TotalValue, &it.Notes)
		return it, err
	})
	if err != nil {
		return nil, eris.Wrap(err, "report: scan analytical items")
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalValue)
	}
	if len(items) > 0 {
		r.Items = items
	}
	r.Total = total
	return r, nil
}

const linesSQL = `SELECT i.issue_date, COALESCE(po.order_number, ''), i.invoice_number,
	COALESCE(s.name, i.supplier_name, ''), i.total_value
FROM invoices i
LEFT JOIN purchase_orders po ON po.id = i.purchase_order_id
LEFT JOIN suppliers s ON s.id = po.supplier_id`

// Synthetic lists the invoices of one contract, linked directly or through
// one of its orders.
func (s *Service) Synthetic(ctx context.Context, f Filter) (*SyntheticReport, error) {
	_, r, err := s.synthetic(ctx, f)
	return r, err
}

func (s *Service) synthetic(ctx context.Context, f Filter) (*model.Contract, *SyntheticReport, error) {
	if f.ContractID == nil {
		return nil, nil, apperr.Validation("contract_id is required for this report")
	}
	if err := f.validate(); err != nil {
		return nil, nil, err
	}
	c, err := s.store.GetContract(ctx, *f.ContractID)
	if err != nil {
		return nil, nil, err
	}

	w := &conds{}
	w.add("(i.contract_id = $%[1]d OR po.contract_id = $%[1]d)", c.ID)
	if f.From != nil {
		w.add("i.issue_date >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("i.issue_date <= $%d", *f.To)
	}

	rows, err := s.pool.Query(ctx, linesSQL+w.where()+" ORDER BY i.issue_date, i.id", w.args...)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "report: invoices of contract %d", c.ID)
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Line, error) {
		var l Line
		err := row.Scan(&l.Date, &l.OrderNumber, &l.InvoiceNumber, &l.Supplier, &l.TotalValue)
		return l, err
	})
	if err != nil {
		return nil, nil, eris.Wrapf(err, "report: scan invoices of contract %d", c.ID)
	}
	if lines == nil {
		lines = []Line{}
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.TotalValue)
	}
	return c, &SyntheticReport{
		ContractID:     c.ID,
		ContractNumber: c.ContractNumber,
		ProjectName:    c.ProjectName,
		Client:         c.Client,
		Total:          total,
		Lines:          lines,
	}, nil
}

// Balance is the contract current account. The realized value is the sum of
// validated notas fiscais, not of the listed invoices.
func (s *Service) Balance(ctx context.Context, f Filter) (*BalanceReport, error) {
	c, syn, err := s.synthetic(ctx, f)
	if err != nil {
		return nil, err
	}
	realized, err := s.engine.RealizedValue(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &BalanceReport{
		SyntheticReport: *syn,
		OriginalValue:   c.OriginalValue,
		Realized:        realized,
		Balance:         finance.Balance(c.OriginalValue, realized),
		PercentRealized: finance.PercentRealized(realized, c.OriginalValue),
	}, nil
}
