package cmd

import "testing"

func TestMaskValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1000.abcdefgh", "1000..."},
		{"abcde", "abcd..."},
		{"abcd", "***"},
		{"ab", "***"},
	}

	for _, tt := range tests {
		if got := maskValue(tt.in); got != tt.want {
			t.Errorf("maskValue(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestRunCheck(t *testing.T) {
	keys := []string{
		"GEMINI_API_KEY",
		"ZOHO_CLIENT_ID",
		"ZOHO_CLIENT_SECRET",
		"ZOHO_REFRESH_TOKEN",
		"ZOHO_ORG_ID",
		"ZOHO_DC",
	}

	t.Run("missing credentials fail the check", func(t *testing.T) {
		for _, k := range keys {
			t.Setenv(k, "")
		}
		if err := runCheck(checkCmd, nil); err == nil {
			t.Error("expected an error with an empty environment")
		}
	})

	t.Run("complete environment passes", func(t *testing.T) {
		for _, k := range keys {
			t.Setenv(k, "value-for-"+k)
		}
		t.Setenv("ZOHO_DC", "eu")
		if err := runCheck(checkCmd, nil); err != nil {
			t.Errorf("runCheck() error: %v", err)
		}
	})
}
