package debug

import (
	"log/slog"
	"strings"
	"testing"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]bool
	}{
		{"empty", "", map[string]bool{}},
		{"single", "oauth", map[string]bool{"oauth": true}},
		{"multiple", "oauth,session", map[string]bool{"oauth": true, "session": true}},
		{"all", "all", map[string]bool{"all": true}},
		{"with spaces", " oauth , session ", map[string]bool{"oauth": true, "session": true}},
		{"uppercase normalized", "OAUTH,Session", map[string]bool{"oauth": true, "session": true}},
		{"empty segments", "oauth,,session", map[string]bool{"oauth": true, "session": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCategories(tt.input)
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("got[%q] = %v, want %v", k, got[k], v)
				}
			}
			if len(got) != len(tt.want) {
				t.Errorf("len(got) = %d, want %d", len(got), len(tt.want))
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("oauth,gateway")

	if !Enabled("oauth") {
		t.Error("oauth should be enabled")
	}
	if !Enabled("gateway") {
		t.Error("gateway should be enabled")
	}
	if Enabled("storage") {
		t.Error("storage should not be enabled")
	}
}

func TestEnabled_All(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("all")

	for _, c := range []string{"oauth", "session", "anything"} {
		if !Enabled(c) {
			t.Errorf("%s should be enabled via 'all'", c)
		}
	}
}

func TestCategories_Sorted(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("session,gateway,oauth")

	got := strings.Join(Categories(), ",")
	if got != "gateway,oauth,session" {
		t.Errorf("Categories() = %q, want %q", got, "gateway,oauth,session")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"TRACE", LevelTrace},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	if got := Fingerprint(""); got != "" {
		t.Errorf("Fingerprint(\"\") = %q, want empty", got)
	}

	a := Fingerprint("gho_secret")
	if len(a) != 8 {
		t.Errorf("len(Fingerprint) = %d, want 8", len(a))
	}
	if strings.Contains(a, "secret") {
		t.Errorf("Fingerprint leaked input: %q", a)
	}
	if a != Fingerprint("gho_secret") {
		t.Error("Fingerprint should be deterministic")
	}
	if a == Fingerprint("gho_other") {
		t.Error("different inputs should produce different fingerprints")
	}
}

func TestLog_DisabledCategory(t *testing.T) {
	orig := categories
	defer func() { categories = orig }()

	categories = parseCategories("")

	// Should not panic or produce output.
	Log("oauth", "test message", "key", "value")
	Trace("oauth", "trace message", "key", "value")
}
