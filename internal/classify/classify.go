// Package classify assigns NF items to cost centers by keyword matching.
package classify

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/contract-costs/internal/model"
)

// Rule maps a cost center code to the keywords that select it.
type Rule struct {
	Code     string
	Keywords []string
}

// Table is an ordered rule list. On equal scores the earlier rule wins.
type Table []Rule

// DefaultTable is the built-in keyword table used when no rules are persisted.
func DefaultTable() Table {
	return Table{
		{Code: "materia_prima", Keywords: []string{"cimento", "concreto", "areia", "brita", "cal", "gesso"}},
		{Code: "mao_de_obra", Keywords: []string{"servico", "mao", "obra", "trabalhador", "pedreiro"}},
		{Code: "equipamento", Keywords: []string{"equipamento", "ferramenta", "maquina", "betoneira"}},
		{Code: "transporte", Keywords: []string{"frete", "transporte", "entrega", "logistica"}},
	}
}

// DefaultRules renders DefaultTable as persistable rules for seeding.
func DefaultRules() []model.ClassificationRule {
	table := DefaultTable()
	rules := make([]model.ClassificationRule, len(table))
	for i, r := range table {
		rules[i] = model.ClassificationRule{
			Name:           "default_" + r.Code,
			CostCenterCode: r.Code,
			Keywords:       r.Keywords,
			Priority:       len(table) - i,
			Active:         true,
		}
	}
	return rules
}

// TableFromRules builds a table from persisted rules, keeping their order.
func TableFromRules(rules []model.ClassificationRule) Table {
	table := make(Table, 0, len(rules))
	for _, r := range rules {
		if !r.Active || len(r.Keywords) == 0 {
			continue
		}
		table = append(table, Rule{Code: r.CostCenterCode, Keywords: r.Keywords})
	}
	return table
}

// Match is the outcome of classifying one description.
type Match struct {
	Code       string   `json:"code"`
	Score      int      `json:"score"`
	Confidence int      `json:"confidence"`
	Keywords   []string `json:"keywords,omitempty"`
}

// OK reports whether any rule matched.
func (m Match) OK() bool { return m.Score > 0 }

// Confidence converts a keyword hit count into a 0..95 percentage.
func Confidence(score int) int {
	return min(95, score*20)
}

// Classify scores every rule against the description and returns the
// strictly highest one. No hits yields a zero Match.
func (t Table) Classify(description string) Match {
	text := Fold(description)
	if text == "" {
		return Match{}
	}

	var best Match
	for _, r := range t {
		hits := matchKeywords(r.Keywords, text)
		if len(hits) > best.Score {
			best = Match{Code: r.Code, Score: len(hits), Keywords: hits}
		}
	}
	best.Confidence = Confidence(best.Score)
	return best
}

// Classify runs DefaultTable.
func Classify(description string) Match {
	return DefaultTable().Classify(description)
}

func matchKeywords(keywords []string, folded string) []string {
	var matched []string
	for _, kw := range keywords {
		k := Fold(kw)
		if k != "" && strings.Contains(folded, k) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// A transform chain keeps per-call buffers, so each goroutine takes its own.
var accentFolders = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	},
}

// Fold lower-cases s and strips diacritics, so "Serviço" becomes "servico".
// It is safe for concurrent use.
func Fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := accentFolders.Get().(transform.Transformer)
	defer accentFolders.Put(t)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
