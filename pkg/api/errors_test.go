package api

import (
	"encoding/json"
	"testing"
)

func TestAPIErrorInterface(t *testing.T) {
	var _ error = &APIError{}
}

func TestAPIErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			"with code",
			&APIError{Type: ErrorTypeUnauthorized, Code: "invalid_credential", Message: "session rejected"},
			"authentication_error: session rejected (code: invalid_credential)",
		},
		{
			"without code",
			&APIError{Type: ErrorTypeServerError, Message: "internal failure"},
			"server_error: internal failure",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("APIError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		wantType ErrorType
		wantCode string
	}{
		{"invalid request", NewInvalidRequestError("bad query"), ErrorTypeInvalidRequest, ""},
		{"unauthorized", NewUnauthorizedError("exchange_failed", "login failed"), ErrorTypeUnauthorized, "exchange_failed"},
		{"not found", NewNotFoundError("no such user"), ErrorTypeNotFound, ""},
		{"server error", NewServerError("internal failure"), ErrorTypeServerError, ""},
		{"too many requests", NewTooManyRequestsError("rate limit exceeded"), ErrorTypeTooManyRequests, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", tt.err.Type, tt.wantType)
			}
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
		})
	}
}

func TestErrorResponseJSON(t *testing.T) {
	data, err := json.Marshal(ErrorResponse{Error: NewUnauthorizedError("invalid_credential", "session rejected")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"error":{"type":"authentication_error","code":"invalid_credential","message":"session rejected"}}`
	if string(data) != want {
		t.Errorf("JSON = %s, want %s", data, want)
	}
}
