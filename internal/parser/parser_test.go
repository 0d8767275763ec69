package parser

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   \n\t\n  ", "no numbers here\njust words"} {
		rec := Parse(text)
		if rec.InvoiceNumber != "" || rec.InvoiceDate != "" || rec.DueDate != "" {
			t.Errorf("Parse(%q) populated identifier fields on degenerate input", text)
		}
		if rec.TotalAmount != nil {
			t.Errorf("Parse(%q) total_amount = %v, expected unset", text, *rec.TotalAmount)
		}
		if rec.VATNumber != "" || rec.CompanyNameAR != "" {
			t.Errorf("Parse(%q) populated optional fields on degenerate input", text)
		}
	}
}

func TestParseDates(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		invoiceDate string
		dueDate     string
	}{
		{
			name:        "single date leaves due date unset",
			text:        "Aug 14, 2025",
			invoiceDate: "Aug 14, 2025",
			dueDate:     "",
		},
		{
			name:        "first and last of many",
			text:        "Invoice Date: Aug 14, 2025\nsome text\nDue: Sep 13, 2025",
			invoiceDate: "Aug 14, 2025",
			dueDate:     "Sep 13, 2025",
		},
		{
			name:        "two dates on one line keep within-line order",
			text:        "Aug 14, 2025 Sep 13, 2025",
			invoiceDate: "Aug 14, 2025",
			dueDate:     "Sep 13, 2025",
		},
		{
			name:        "no dates",
			text:        "total 832.60",
			invoiceDate: "",
			dueDate:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Parse(tt.text)
			if rec.InvoiceDate != tt.invoiceDate {
				t.Errorf("invoice_date = %q, expected %q", rec.InvoiceDate, tt.invoiceDate)
			}
			if rec.DueDate != tt.dueDate {
				t.Errorf("due_date = %q, expected %q", rec.DueDate, tt.dueDate)
			}
		})
	}
}

func TestParseAmountsAndLineItems(t *testing.T) {
	text := strings.Join([]string{
		"Some Product",
		"1.00 724.00 108.60",
		"Subtotal",
		"724.00",
		"Total",
		"832.60",
	}, "\n")

	rec := Parse(text)

	if rec.TotalAmount == nil || *rec.TotalAmount != 832.60 {
		t.Fatalf("total_amount = %v, expected 832.60", rec.TotalAmount)
	}
	if len(rec.PotentialLineItems) != 1 {
		t.Fatalf("potential_line_items count = %d, expected 1", len(rec.PotentialLineItems))
	}
	item := rec.PotentialLineItems[0]
	if item.RawLine != "1.00 724.00 108.60" {
		t.Errorf("raw_line = %q", item.RawLine)
	}
	if !reflect.DeepEqual(item.Values, []string{"1.00", "724.00", "108.60"}) {
		t.Errorf("values = %v, expected [1.00 724.00 108.60]", item.Values)
	}
}

func TestParseAmountRecognizerBlindSpots(t *testing.T) {
	// Integers and thousands-separated totals are intentionally not
	// matched as whole amounts.
	rec := Parse("Total 1250\nGrand total 1,724.00")
	if rec.TotalAmount == nil {
		t.Fatal("expected the 724.00 fragment of the separated number to match")
	}
	if *rec.TotalAmount != 724.00 {
		t.Errorf("total_amount = %v, expected 724.00", *rec.TotalAmount)
	}
}

func TestParseVATNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"matches 15 digits starting with 3", "VAT: 310123456789003", "310123456789003"},
		{"first match wins", "300000000000001\n300000000000002", "300000000000001"},
		{"rejects wrong leading digit", "410123456789003", ""},
		{"rejects 14 digits", "31012345678900", ""},
		{"rejects 16 digits", "3101234567890031", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Parse(tt.text)
			if rec.VATNumber != tt.want {
				t.Errorf("vat_number = %q, expected %q", rec.VATNumber, tt.want)
			}
		})
	}
}

func TestParseInvoiceNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "sentinel line stripped of punctuation",
			text: "some header\n6051.\nmore text",
			want: "6051",
		},
		{
			name: "label line with extra words does not qualify",
			text: "Invoice No: 9914\n9914",
			want: "9914", // via fallback on the standalone line
		},
		{
			name: "fallback picks first standalone number",
			text: "word\n7001\n8002",
			want: "7001",
		},
		{
			name: "fallback skips year-like numbers",
			text: "2025\n12025\n4455",
			want: "4455",
		},
		{
			name: "fallback requires at least four digits",
			text: "991\nword",
			want: "",
		},
		{
			name: "arabic label line is not purely numeric",
			text: "رقم الفاتورة 6051",
			want: "",
		},
		{
			name: "arabic label line defers to the fallback scan",
			text: "رقم الفاتورة 6051\n7045",
			want: "7045",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Parse(tt.text)
			if rec.InvoiceNumber != tt.want {
				t.Errorf("invoice_number = %q, expected %q", rec.InvoiceNumber, tt.want)
			}
		})
	}
}

func TestParseCompanyNames(t *testing.T) {
	t.Run("english name within first ten lines", func(t *testing.T) {
		rec := Parse("ACME TRADING EST\nline2")
		if rec.CompanyNameEN != "ACME TRADING EST" {
			t.Errorf("company_name_en = %q", rec.CompanyNameEN)
		}
	})

	t.Run("english name beyond line ten is ignored", func(t *testing.T) {
		lines := make([]string, 0, 11)
		for i := 0; i < 10; i++ {
			lines = append(lines, "filler")
		}
		lines = append(lines, "ACME COMPANY")
		rec := Parse(strings.Join(lines, "\n"))
		if rec.CompanyNameEN != "" {
			t.Errorf("company_name_en = %q, expected unset", rec.CompanyNameEN)
		}
	})

	t.Run("arabic name needs more than ten characters", func(t *testing.T) {
		rec := Parse("ضريبة\nمؤسسة التجارة العامة المحدودة")
		if rec.CompanyNameAR != "مؤسسة التجارة العامة المحدودة" {
			t.Errorf("company_name_ar = %q", rec.CompanyNameAR)
		}
		if len(rec.ArabicLines) != 2 {
			t.Errorf("arabic_lines count = %d, expected 2", len(rec.ArabicLines))
		}
	})
}

func TestParsePreservesAllLines(t *testing.T) {
	rec := Parse("  first \n\n second\t\n")
	want := []string{"first", "second"}
	if !reflect.DeepEqual(rec.AllLines, want) {
		t.Errorf("all_lines = %v, expected %v", rec.AllLines, want)
	}
}
