package identity

import (
	"errors"
	"net/url"
	"testing"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    Callback
		wantErr bool
	}{
		{"both present", "code=abc&state=xyz", Callback{Code: "abc", State: "xyz"}, false},
		{"extra params", "code=abc&state=xyz&foo=bar", Callback{Code: "abc", State: "xyz"}, false},
		{"missing state", "code=abc", Callback{}, true},
		{"missing code", "state=xyz", Callback{}, true},
		{"empty code", "code=&state=xyz", Callback{}, true},
		{"empty query", "", Callback{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			got, err := ParseCallback(q)
			if tt.wantErr {
				if !errors.Is(err, ErrMissingCredential) {
					t.Errorf("expected ErrMissingCredential, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestHasCallback(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"", false},
		{"foo=bar", false},
		{"code=abc", true},
		{"state=xyz", true},
		{"code=&state=", true},
	}

	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		if got := HasCallback(q); got != tt.want {
			t.Errorf("HasCallback(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}
