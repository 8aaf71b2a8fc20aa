package importer

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// ParseAmount reads a spreadsheet number. It accepts a currency prefix,
// thousands separators and a decimal comma ("R$ 1.234,56"). Blank input
// yields nil.
func ParseAmount(raw string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "$")
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' {
			return -1
		}
		return r
	}, s)
	if s == "" || s == "-" {
		return nil, nil
	}

	s = normalizeSeparators(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, eris.Errorf("invalid number %q", strings.TrimSpace(raw))
	}
	return &d, nil
}

// normalizeSeparators rewrites s so '.' is the only, decimal, separator.
func normalizeSeparators(s string) string {
	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}
