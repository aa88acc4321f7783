package extraction

import "strings"

// Field names the extraction instruction can request.
const (
	FieldMerchant = "merchant"
	FieldDate     = "date"
	FieldTotal    = "total"
	FieldVAT      = "vat"
	FieldCategory = "category"
	FieldSummary  = "summary"
)

// MinimalFields is the short schema used by the quick-capture flow.
var MinimalFields = []string{FieldMerchant, FieldDate, FieldTotal, FieldCategory}

// ExtendedFields adds VAT and a line-item summary.
var ExtendedFields = []string{FieldMerchant, FieldDate, FieldTotal, FieldVAT, FieldCategory, FieldSummary}

// PromptSpec describes the schema the model is asked to fill in.
// Categories is the closed set the category field must come from.
type PromptSpec struct {
	Fields     []string
	Categories []string
}

func (p PromptSpec) has(field string) bool {
	for _, f := range p.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// Build renders the extraction instruction. The instruction spells out
// every field, the exact category set and the VAT reporting rule so the
// reply shape is known before parsing. Pure; the same PromptSpec always
// produces the same text.
func (p PromptSpec) Build() string {
	var b strings.Builder

	b.WriteString("You are analyzing a UK receipt or invoice image. Carefully read all text and extract the following fields:\n\n")
	b.WriteString("- \"merchant\": the supplier or store name, usually the largest text at the top (e.g. \"Screwfix\", \"Wickes\", \"Travis Perkins\").\n")
	b.WriteString("- \"date\": the transaction date in ISO 8601 format (YYYY-MM-DD).\n")
	b.WriteString("- \"total\": the final total or amount due as a number (e.g. 45.50 for £45.50). Do not include the currency symbol.\n")

	if p.has(FieldVAT) {
		b.WriteString("- \"vat\": the itemised VAT amount as a number, if the receipt shows one.\n")
		b.WriteString("  If the receipt shows a VAT indicator (a VAT registration number, \"VAT inc\", \"inc VAT\") but no itemised VAT amount, set \"vat\" to null and \"vat_noted\" to true.\n")
		b.WriteString("  If there is no VAT indicator at all, set \"vat\" to 0 and \"vat_noted\" to false.\n")
	}

	b.WriteString("- \"category\": choose exactly one of: [")
	b.WriteString(strings.Join(p.Categories, ", "))
	b.WriteString("].\n")

	if p.has(FieldSummary) {
		b.WriteString("- \"summary\": a very short description of the items purchased.\n")
	}

	b.WriteString("\nReturn ONLY a valid JSON object with these fields:\n{\n")
	b.WriteString("  \"merchant\": \"string\",\n")
	b.WriteString("  \"date\": \"YYYY-MM-DD\",\n")
	b.WriteString("  \"total\": 0.00,\n")
	if p.has(FieldVAT) {
		b.WriteString("  \"vat\": 0.00,\n")
		b.WriteString("  \"vat_noted\": false,\n")
	}
	b.WriteString("  \"category\": \"string\"")
	if p.has(FieldSummary) {
		b.WriteString(",\n  \"summary\": \"string\"")
	}
	b.WriteString("\n}\n\n")

	b.WriteString("Important:\n")
	b.WriteString("- Amounts must be numbers, not strings\n")
	b.WriteString("- Do not include any text before or after the JSON\n")
	b.WriteString("- Do not use markdown code blocks\n")

	return b.String()
}
