package main

import (
	"errors"
	"testing"

	"golang.org/x/text/transform"
)

// mockTransformer forces the transform step to fail.
type mockTransformer struct{}

func (mt mockTransformer) TransformString(t transform.Transformer, s string) (string, int, error) {
	return "", 0, errors.New("transform failed")
}

// --- Tests ---

func TestNormalizeSiteSlug(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "Display Name", input: "Connaught Place", want: "connaught-place"},
		{name: "Already Canonical", input: "connaught-place", want: "connaught-place"},
		{name: "Diacritics Removed", input: "Shāhdara", want: "shahdara"},
		{name: "Surrounding Whitespace Trimmed", input: "  Noida ", want: "noida"},
		{name: "Mixed Case", input: "INDIA Gate", want: "india-gate"},
		{name: "Invalid UTF-8", input: string([]byte{0xff, 0xfe}), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalizeSiteSlug(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error, but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeSiteSlugTransformError(t *testing.T) {
	originalTransformer := transformer
	transformer = mockTransformer{}
	defer func() { transformer = originalTransformer }()

	_, err := normalizeSiteSlug("connaught-place")
	if err == nil {
		t.Fatal("expected an error from the failing transformer, but got nil")
	}
}
