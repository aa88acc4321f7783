package ledger

import (
	"math"
	"strconv"
	"strings"

	"github.com/zinct/zinct/internal/extraction"
)

// vatDivisor reconstructs VAT from a total that already includes VAT
// at the UK standard rate of 20%: vat = total / 6.
const vatDivisor = 6

// Normalizer coerces raw extracted fields into a canonical Record.
// Every field has a defined default, so normalization never fails for
// decoded fields of any shape.
//
// Category containment is strict: a category outside Categories is
// coerced to FallbackCategory rather than passed through, so the
// ledger's per-category aggregates stay over a closed key set.
type Normalizer struct {
	Categories []string
}

// NewNormalizer creates a Normalizer over the default UK trade
// category set.
func NewNormalizer() Normalizer {
	return Normalizer{Categories: DefaultCategories}
}

// Normalize builds a Record from raw fields. The result always
// satisfies TotalPence >= 0 and VATPence >= 0.
func (n Normalizer) Normalize(raw *extraction.RawFields) Record {
	rec := Record{
		Merchant: strings.TrimSpace(raw.Merchant),
		Date:     raw.Date,
		Summary:  strings.TrimSpace(raw.Summary),
	}
	if rec.Merchant == "" {
		rec.Merchant = "Unknown"
	}

	rec.TotalPence = coercePence(raw.Total)

	// VAT inference, in order: explicit amount, derived from a
	// VAT-inclusive total, absent.
	switch {
	case hasAmount(raw.VAT):
		rec.VATPence = coercePence(raw.VAT)
	case raw.VATNoted:
		rec.VATPence = int64(math.Round(float64(rec.TotalPence) / vatDivisor))
	default:
		rec.VATPence = 0
	}

	rec.Category = n.clampCategory(raw.Category)

	return rec
}

// clampCategory maps a reported category onto the configured set,
// matching case-insensitively, and falls back to FallbackCategory when
// there is no match.
func (n Normalizer) clampCategory(category string) string {
	category = strings.TrimSpace(category)
	for _, c := range n.Categories {
		if strings.EqualFold(category, c) {
			return c
		}
	}
	return FallbackCategory
}

// hasAmount reports whether a loose VAT value carries an explicit
// non-zero amount. JSON null and missing fields arrive as nil.
func hasAmount(v any) bool {
	switch t := v.(type) {
	case float64:
		return t != 0
	case string:
		return coercePence(t) != 0
	default:
		return false
	}
}

// coercePence converts a loosely typed amount (number, or string with
// an optional currency sign) to non-negative pence. Anything that
// cannot be read as a number becomes 0.
func coercePence(v any) int64 {
	var pence int64
	switch t := v.(type) {
	case float64:
		pence = roundPence(t)
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimLeft(s, "£$€ ")
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		pence = roundPence(f)
	default:
		return 0
	}
	if pence < 0 {
		return 0
	}
	return pence
}

func roundPence(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
