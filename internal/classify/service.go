package classify

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/apperr"
	"github.com/sells-group/contract-costs/internal/model"
)

// AutoApplyThreshold is the confidence above which Suggest persists a match.
const AutoApplyThreshold = 85

// Store is the persistence the classification service needs.
type Store interface {
	GetNFItem(ctx context.Context, id int64) (*model.NotaFiscalItem, error)
	SetNFItemClassification(ctx context.Context, id int64, c model.Classification) error
	GetCostCenter(ctx context.Context, id int64) (*model.CostCenter, error)
	GetCostCenterByCode(ctx context.Context, code string) (*model.CostCenter, error)
	ListClassificationRules(ctx context.Context, activeOnly bool) ([]model.ClassificationRule, error)
	ClassificationStats(ctx context.Context, since time.Time) (*model.ClassificationStats, error)
}

// Result is the outcome of classifying one NF item.
type Result struct {
	ItemID     int64                      `json:"item_id"`
	Matched    bool                       `json:"matched"`
	CostCenter *model.CostCenter          `json:"cost_center,omitempty"`
	Confidence int                        `json:"confidence"`
	Keywords   []string                   `json:"keywords,omitempty"`
	Source     model.ClassificationSource `json:"source,omitempty"`
}

// ItemInput is one description to classify in a batch.
type ItemInput struct {
	ItemID      *int64 `json:"item_id,omitempty"`
	Description string `json:"description"`
}

// Suggestion is the batch classification of one ItemInput.
type Suggestion struct {
	ItemID       *int64  `json:"item_id,omitempty"`
	Description  string  `json:"description"`
	Code         string  `json:"suggested_cost_center,omitempty"`
	CostCenterID *int64  `json:"cost_center_id,omitempty"`
	Confidence   int     `json:"confidence"`
	Applied      bool    `json:"applied"`
	Error        *string `json:"error,omitempty"`
}

// Service classifies NF items and persists the outcome.
type Service struct {
	store Store
	now   func() time.Time
	log   *zap.Logger
}

// NewService creates a classification service.
func NewService(st Store) *Service {
	return &Service{
		store: st,
		now:   time.Now,
		log:   zap.L().With(zap.String("component", "classify")),
	}
}

// Table loads the active persisted rules, falling back to DefaultTable.
func (s *Service) Table(ctx context.Context) (Table, error) {
	rules, err := s.store.ListClassificationRules(ctx, true)
	if err != nil {
		return nil, eris.Wrap(err, "classify: load rules")
	}
	table := TableFromRules(rules)
	if len(table) == 0 {
		return DefaultTable(), nil
	}
	return table, nil
}

// ClassifyNFItem matches an NF item's description and stores the cost center
// with source "ai". A description without hits, or a code with no cost
// center, returns an unmatched Result and leaves the item untouched.
func (s *Service) ClassifyNFItem(ctx context.Context, itemID int64) (*Result, error) {
	item, err := s.store.GetNFItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{ItemID: itemID}
	m := table.Classify(item.Description)
	if !m.OK() {
		return res, nil
	}

	cc, err := s.resolve(ctx, m.Code)
	if err != nil || cc == nil {
		return res, err
	}

	c := model.Classification{
		CostCenterID: cc.ID,
		Score:        decimal.NewFromInt(int64(m.Confidence)),
		Source:       model.SourceAI,
	}
	if err := s.store.SetNFItemClassification(ctx, itemID, c); err != nil {
		return nil, err
	}

	s.log.Debug("nf item classified",
		zap.Int64("item_id", itemID),
		zap.String("cost_center", cc.Code),
		zap.Int("confidence", m.Confidence),
	)

	res.Matched = true
	res.CostCenter = cc
	res.Confidence = m.Confidence
	res.Keywords = m.Keywords
	res.Source = model.SourceAI
	return res, nil
}

// ManualClassify assigns a cost center chosen by a user. A nil score means 100.
func (s *Service) ManualClassify(ctx context.Context, itemID, costCenterID int64, score *decimal.Decimal) (*Result, error) {
	sc := decimal.NewFromInt(100)
	if score != nil {
		sc = *score
	}
	if sc.IsNegative() || sc.GreaterThan(decimal.NewFromInt(100)) {
		return nil, apperr.Validation("classification score must be between 0 and 100")
	}

	if _, err := s.store.GetNFItem(ctx, itemID); err != nil {
		return nil, err
	}
	cc, err := s.store.GetCostCenter(ctx, costCenterID)
	if err != nil {
		return nil, err
	}

	c := model.Classification{CostCenterID: cc.ID, Score: sc, Source: model.SourceManual}
	if err := s.store.SetNFItemClassification(ctx, itemID, c); err != nil {
		return nil, err
	}

	return &Result{
		ItemID:     itemID,
		Matched:    true,
		CostCenter: cc,
		Confidence: int(sc.IntPart()),
		Source:     model.SourceManual,
	}, nil
}

// Suggest classifies a batch of descriptions. With autoApply, suggestions
// above AutoApplyThreshold that reference an NF item are persisted with
// source "auto". Per-item persistence failures are reported on the
// suggestion, not returned.
func (s *Service) Suggest(ctx context.Context, items []ItemInput, autoApply bool) ([]Suggestion, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}

	codes := make(map[string]*model.CostCenter)
	out := make([]Suggestion, 0, len(items))
	for _, in := range items {
		sg := Suggestion{ItemID: in.ItemID, Description: in.Description}
		m := table.Classify(in.Description)
		if !m.OK() {
			out = append(out, sg)
			continue
		}
		sg.Code = m.Code
		sg.Confidence = m.Confidence

		cc, seen := codes[m.Code]
		if !seen {
			cc, err = s.resolve(ctx, m.Code)
			if err != nil {
				return nil, err
			}
			codes[m.Code] = cc
		}
		if cc != nil {
			sg.CostCenterID = &cc.ID
		}

		if autoApply && in.ItemID != nil && cc != nil && m.Confidence > AutoApplyThreshold {
			c := model.Classification{
				CostCenterID: cc.ID,
				Score:        decimal.NewFromInt(int64(m.Confidence)),
				Source:       model.SourceAuto,
			}
			if err := s.store.SetNFItemClassification(ctx, *in.ItemID, c); err != nil {
				msg := apperr.Message(err)
				if msg == "" {
					msg = "could not store classification"
				}
				sg.Error = &msg
				s.log.Warn("auto-apply classification failed", zap.Int64("item_id", *in.ItemID), zap.Error(err))
			} else {
				sg.Applied = true
			}
		}
		out = append(out, sg)
	}
	return out, nil
}

// Stats summarizes classification over the last periodDays (default 30).
func (s *Service) Stats(ctx context.Context, periodDays int) (*model.ClassificationStats, error) {
	if periodDays <= 0 {
		periodDays = 30
	}
	since := s.now().AddDate(0, 0, -periodDays)
	return s.store.ClassificationStats(ctx, since)
}

// resolve maps a rule code to an active cost center; unknown codes yield nil.
func (s *Service) resolve(ctx context.Context, code string) (*model.CostCenter, error) {
	cc, err := s.store.GetCostCenterByCode(ctx, code)
	if apperr.Is(err, apperr.KindNotFound) {
		s.log.Warn("rule references unknown cost center", zap.String("code", code))
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "classify: resolve cost center %q", code)
	}
	if !cc.Active {
		return nil, nil
	}
	return cc, nil
}
