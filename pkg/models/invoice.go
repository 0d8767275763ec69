package models

// ExtractedInvoice is the record produced by the heuristic text parser.
// Every optional field is either unset or satisfies its recognizer's
// pattern; the record is not modified after the extraction pass returns.
type ExtractedInvoice struct {
	// InvoiceNumber is the first purely numeric line matching the label
	// or standalone-digit heuristic.
	InvoiceNumber string `json:"invoice_number,omitempty"`

	// InvoiceDate and DueDate are free-form date strings as printed on the
	// document (e.g. "Aug 14, 2025"). Normalization happens at submission
	// time, not here.
	InvoiceDate string `json:"invoice_date,omitempty"`
	DueDate     string `json:"due_date,omitempty"`

	// TotalAmount is the maximum decimal amount found anywhere in the
	// document. Nil when no amount matched.
	TotalAmount *float64 `json:"total_amount,omitempty"`

	// VATNumber is a 15-digit tax identifier starting with 3.
	VATNumber string `json:"vat_number,omitempty"`

	// Bilingual company names.
	CompanyNameEN string `json:"company_name_en,omitempty"`
	CompanyNameAR string `json:"company_name_ar,omitempty"`

	// PotentialLineItems is a superset of the real item rows: every line
	// carrying two or more decimal amounts, kept verbatim for downstream
	// review or LLM-based structuring.
	PotentialLineItems []LineItemCandidate `json:"potential_line_items"`

	// Diagnostic sequences retained for audit and debugging.
	ArabicLines []string `json:"arabic_lines"`
	AllLines    []string `json:"all_lines"`
}

// LineItemCandidate is one unvalidated item hint: the raw line plus the
// decimal amounts found on it, in order.
type LineItemCandidate struct {
	RawLine string   `json:"raw_line"`
	Values  []string `json:"values"`
}

// InvoiceData is the submission input consumed by the sync client. It
// matches the document-understanding service's structured guess, so that
// JSON can be decoded into it directly; extra keys (seller, buyer, totals,
// bank_details) are ignored and missing fields normalize to defaults at
// submission time.
type InvoiceData struct {
	InvoiceNumber string     `json:"invoice_number"`
	InvoiceDate   string     `json:"invoice_date"`
	DueDate       string     `json:"due_date,omitempty"`
	LineItems     []LineItem `json:"line_items"`
}

// LineItem is one invoice row. Quantity and UnitPrice are deliberately
// loosely typed: the upstream service emits them as numbers or strings
// interchangeably and the amount normalizer accepts both.
type LineItem struct {
	Description string `json:"description"`
	Quantity    any    `json:"quantity"`
	UnitPrice   any    `json:"unit_price"`
	Total       any    `json:"total,omitempty"`
}

// ToInvoiceData converts an extracted record into a submission input.
// Candidate values are mapped positionally (first value quantity, second
// unit price), which matches the qty/rate/tax column order of the source
// documents but is only a guess for anything else.
func (e *ExtractedInvoice) ToInvoiceData() InvoiceData {
	inv := InvoiceData{
		InvoiceNumber: e.InvoiceNumber,
		InvoiceDate:   e.InvoiceDate,
		DueDate:       e.DueDate,
	}
	for _, cand := range e.PotentialLineItems {
		item := LineItem{Description: cand.RawLine}
		if len(cand.Values) > 0 {
			item.Quantity = cand.Values[0]
		}
		if len(cand.Values) > 1 {
			item.UnitPrice = cand.Values[1]
		}
		inv.LineItems = append(inv.LineItems, item)
	}
	return inv
}
