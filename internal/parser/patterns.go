package parser

import (
	"regexp"
	"strings"
)

// Recognizers, one per field concern. Each is a stateless rule over a
// single line; absence of a match is an empty result, never an error.
var (
	// datePattern matches "Mon DD, YYYY" shaped tokens, e.g. "Aug 14, 2025".
	datePattern = regexp.MustCompile(`[A-Za-z]{3}\s+\d{1,2},\s+\d{4}`)

	// amountPattern matches decimal amounts with exactly two decimal
	// places. Integers and thousands-separated numbers are intentionally
	// not matched; "1,724.00" yields "724.00".
	amountPattern = regexp.MustCompile(`\b\d+\.\d{2}\b`)

	// vatPattern matches a 15-digit tax registration number starting
	// with 3.
	vatPattern = regexp.MustCompile(`\b3\d{14}\b`)

	// arabicPattern matches runs inside the Arabic Unicode block, used to
	// pick out the bilingual name line.
	arabicPattern = regexp.MustCompile(`[\x{0600}-\x{06FF}]+`)

	// punctPattern matches anything that is not a letter, digit,
	// underscore or whitespace in any script, so stripping it keeps
	// Arabic label text intact.
	punctPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// entityKeywords mark the English company-name line. Matching is
// case-sensitive: the source documents print these in capitals.
var entityKeywords = []string{"EST", "TRADING", "COMPANY", "LTD"}

func matchDates(line string) []string {
	return datePattern.FindAllString(line, -1)
}

func matchAmounts(line string) []string {
	return amountPattern.FindAllString(line, -1)
}

func matchVAT(line string) string {
	return vatPattern.FindString(line)
}

func hasArabic(line string) bool {
	return arabicPattern.MatchString(line)
}

func hasEntityKeyword(line string) bool {
	for _, kw := range entityKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

// stripPunctuation removes punctuation and symbol runes, e.g.
// directionality marks around a bare invoice number. Letters of any
// script survive, so a bilingual label line stays non-numeric.
func stripPunctuation(line string) string {
	return punctPattern.ReplaceAllString(line, "")
}

// isNumeric reports whether s is non-empty and consists of ASCII digits
// only.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
