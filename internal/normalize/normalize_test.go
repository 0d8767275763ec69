package normalize

import (
	"fmt"
	"testing"
	"time"
)

func TestDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Aug 14, 2025", "2025-08-14", true},
		{"August 14, 2025", "2025-08-14", true},
		{"14 Aug 2025", "2025-08-14", true},
		{"14 August 2025", "2025-08-14", true},
		{"2025-08-14", "2025-08-14", true},
		{"14-08-2025", "2025-08-14", true},
		{"14/08/2025", "2025-08-14", true},
		{"2025/08/14", "2025-08-14", true},
		{"4 Aug 2025", "2025-08-04", true},
		{"  Aug 14, 2025  ", "2025-08-14", true},
		{"not a date", "not a date", false},
		{"14th of August", "14th of August", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Date(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Date(%q) = (%q, %t), expected (%q, %t)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDateEmptyYieldsToday(t *testing.T) {
	got, ok := Date("")
	if !ok {
		t.Fatal("Date(\"\") reported a parse failure")
	}
	if got != time.Now().Format("2006-01-02") {
		t.Errorf("Date(\"\") = %q, expected today", got)
	}
}

func TestDateCanonicalRoundTrip(t *testing.T) {
	for _, in := range []string{"2025-01-01", "2024-12-31", "2025-08-14"} {
		got, ok := Date(in)
		if !ok || got != in {
			t.Errorf("Date(%q) = (%q, %t), expected identity", in, got, ok)
		}
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"empty string", "", 0},
		{"blank string", "   ", 0},
		{"float passthrough", 832.60, 832.60},
		{"int", 15, 15},
		{"plain decimal string", "724.00", 724},
		{"thousands separator", "1,200.00", 1200},
		{"currency symbol", "$1,200.50", 1200.50},
		{"surrounding space", " 42.00 ", 42},
		{"garbage", "abc", 0},
		{"mixed garbage", "12abc", 0},
		{"unsupported type", []string{"1"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Amount(tt.in); got != tt.want {
				t.Errorf("Amount(%v) = %v, expected %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAmountIdempotentOnCleanStrings(t *testing.T) {
	for _, v := range []float64{0, 1, 724, 832.60, 1200.5} {
		s := fmt.Sprintf("%.2f", v)
		if got := Amount(s); got != v {
			t.Errorf("Amount(%q) = %v, expected %v", s, got, v)
		}
	}
}
