package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fincase/aegis"
	"github.com/fincase/aegis/identity"
	"github.com/fincase/aegis/policy"
	"github.com/fincase/aegis/role"
)

func TestMapError_NotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"engine user", aegis.ErrUserNotFound},
		{"engine document", aegis.ErrDocumentNotFound},
		{"identity", fmt.Errorf("user u: %w", identity.ErrNotFound)},
		{"role", fmt.Errorf("aegis: get role: %w", role.ErrNotFound)},
		{"mapping", policy.ErrMappingNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapError(tt.err)
			if mapped == nil {
				t.Fatal("expected mapped error")
			}
			if mapped == tt.err {
				t.Fatal("expected a translated HTTP error")
			}
		})
	}
}

func TestMapError_Passthrough(t *testing.T) {
	if mapError(nil) != nil {
		t.Fatal("nil must map to nil")
	}
	opaque := errors.New("connection reset")
	if mapError(opaque) != opaque {
		t.Fatal("unrecognized errors must pass through unchanged")
	}
	agg := fmt.Errorf("%w: user u: boom", aegis.ErrAggregation)
	if mapError(agg) != agg {
		t.Fatal("aggregation faults must pass through as server errors")
	}
}

func TestDefaultLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 50},
		{-5, 50},
		{25, 25},
		{1000, 1000},
		{5000, 1000},
	}
	for _, tt := range tests {
		if got := defaultLimit(tt.in); got != tt.want {
			t.Errorf("defaultLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBoolFilter(t *testing.T) {
	if f := boolFilter("true"); f == nil || !*f {
		t.Fatalf("boolFilter(true) = %v", f)
	}
	if f := boolFilter("false"); f == nil || *f {
		t.Fatalf("boolFilter(false) = %v", f)
	}
	if f := boolFilter(""); f != nil {
		t.Fatalf("boolFilter(empty) = %v", f)
	}
	if f := boolFilter("yes"); f != nil {
		t.Fatalf("boolFilter(yes) = %v", f)
	}
}
