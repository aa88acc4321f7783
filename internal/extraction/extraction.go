package extraction

import "context"

// RawFields holds the fields decoded from a model reply before
// normalization. Total and VAT stay loosely typed because the model
// sometimes reports amounts as strings ("£45.50") instead of numbers;
// the ledger normalizer owns the coercion rules.
type RawFields struct {
	Merchant string
	Date     string
	Total    any
	VAT      any
	// VATNoted is set when the receipt shows a VAT indicator (a VAT
	// registration number, "VAT inc" etc.) but no itemised amount.
	VATNoted bool
	Category string
	Summary  string
}

// Extractor sends an instruction and a receipt image to a multimodal
// model and returns the raw text reply. Parsing and validation of the
// reply happen downstream.
type Extractor interface {
	Extract(ctx context.Context, image []byte, instruction string) (string, error)
	// Close releases the underlying client resources
	Close() error
}
