package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultCategories is the closed category set for UK trade receipts.
var DefaultCategories = []string{"Materials", "Plant Hire", "Fuel", "Office", "Subsistence", "Tools"}

// FallbackCategory is assigned when the model reports a category
// outside the configured set.
const FallbackCategory = "Expense"

// Record is one normalized ledger entry extracted from a receipt
// capture. Records are immutable once appended; a correction is a new
// append, never a mutation. Monetary amounts are held in integer pence.
type Record struct {
	CaptureID  string    `json:"capture_id,omitempty"`
	Merchant   string    `json:"merchant"`
	Date       string    `json:"date"` // preserved verbatim from the model
	TotalPence int64     `json:"total_pence"`
	VATPence   int64     `json:"vat_pence"`
	Category   string    `json:"category"`
	Summary    string    `json:"summary"`
	CapturedAt time.Time `json:"captured_at,omitempty"`
}

// Pounds renders a pence amount with exactly two decimal places.
func Pounds(pence int64) string {
	sign := ""
	if pence < 0 {
		sign = "-"
		pence = -pence
	}
	return fmt.Sprintf("%s%d.%02d", sign, pence/100, pence%100)
}

// ParsePounds converts a two-decimal amount string back to pence.
func ParsePounds(s string) (int64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return roundPence(v), nil
}
