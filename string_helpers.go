package main

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StringTransformer defines the contract for a function that can transform a string.
type StringTransformer interface {
	TransformString(t transform.Transformer, s string) (string, int, error)
}

// defaultTransformer is the production implementation of our interface.
type defaultTransformer struct{}

// TransformString calls the actual transform.String function.
func (dt defaultTransformer) TransformString(t transform.Transformer, s string) (string, int, error) {
	return transform.String(t, s)
}

// Use a variable of the interface type. This is our "injection point".
var transformer StringTransformer = defaultTransformer{}

// This file contains helper functions for string manipulation.

// normalizeSiteSlug takes a site name or slug and returns its canonical slug form.
// It performs three transformations:
// 1. It removes diacritical marks (e.g., "Shāhdara" becomes "Shahdara").
// 2. It converts the string to lowercase.
// 3. It replaces spaces with hyphens (e.g., "Connaught Place" becomes "connaught-place").
// This keeps request parameters, cache keys and database slugs consistent.
func normalizeSiteSlug(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("input string is not valid UTF-8")
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transformer.TransformString(t, s)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(result)), " ", "-"), nil
}
