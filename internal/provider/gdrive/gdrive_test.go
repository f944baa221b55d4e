package gdrive

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"

	"sitediff/internal/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"404", &googleapi.Error{Code: 404}, domain.ErrNotFound},
		{"401", &googleapi.Error{Code: 401}, domain.ErrPermissionDenied},
		{"403", &googleapi.Error{Code: 403}, domain.ErrPermissionDenied},
		{"429", &googleapi.Error{Code: 429}, domain.ErrQuotaExceeded},
		{"500", &googleapi.Error{Code: 500}, domain.ErrSourceUnavailable},
		{"503", &googleapi.Error{Code: 503}, domain.ErrSourceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.in)
			if tt.want == nil {
				if got != nil {
					t.Errorf("mapError = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("mapError(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMapError_WrappedAPIError(t *testing.T) {
	wrapped := fmt.Errorf("listing folder: %w", &googleapi.Error{Code: 404})
	if got := mapError(wrapped); !errors.Is(got, domain.ErrNotFound) {
		t.Errorf("mapError(wrapped 404) = %v, want ErrNotFound", got)
	}
}

func TestMapError_StringFallback(t *testing.T) {
	err := errors.New("googleapi: got HTTP response notFound")
	if got := mapError(err); !errors.Is(got, domain.ErrNotFound) {
		t.Errorf("mapError = %v, want ErrNotFound", got)
	}
}

func TestMapError_PassThrough(t *testing.T) {
	err := errors.New("connection reset")
	if got := mapError(err); got != err {
		t.Errorf("mapError = %v, want original error", got)
	}
}

func TestNormalizeRoot(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"  /Sites/Backup/  ", "Sites/Backup"},
		{"Sites", "Sites"},
		{"/Sites", "Sites"},
	}

	for _, tt := range tests {
		if got := normalizeRoot(tt.in); got != tt.want {
			t.Errorf("normalizeRoot(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"O'Brien", `O\'Brien`},
		{`a\b`, `a\\b`},
	}

	for _, tt := range tests {
		if got := escapeQuery(tt.in); got != tt.want {
			t.Errorf("escapeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
