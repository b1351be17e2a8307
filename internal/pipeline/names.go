package pipeline

import (
	"fmt"
	"strings"
)

// ParseRetrievalMode accepts "all" or "external" (case-insensitive).
func ParseRetrievalMode(s string) (RetrievalMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return RetrieveAll, nil
	case "external":
		return RetrieveExternal, nil
	}
	return 0, fmt.Errorf("%w: unknown retrieval mode %q", ErrInvalidParameter, s)
}

// ParseApproximation accepts "none" or "simple" (case-insensitive).
func ParseApproximation(s string) (Approximation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return ApproxNone, nil
	case "simple":
		return ApproxSimple, nil
	}
	return 0, fmt.Errorf("%w: unknown approximation %q", ErrInvalidParameter, s)
}

// ParseMorphBorder accepts "background" or "ignore" (case-insensitive).
func ParseMorphBorder(s string) (MorphBorder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "background":
		return BorderBackground, nil
	case "ignore":
		return BorderIgnore, nil
	}
	return 0, fmt.Errorf("%w: unknown morph border %q", ErrInvalidParameter, s)
}

// MarshalText encodes the mode by name so Config serializes readably.
func (m RetrievalMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText decodes a name accepted by ParseRetrievalMode.
func (m *RetrievalMode) UnmarshalText(b []byte) error {
	v, err := ParseRetrievalMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalText encodes the approximation by name.
func (a Approximation) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText decodes a name accepted by ParseApproximation.
func (a *Approximation) UnmarshalText(b []byte) error {
	v, err := ParseApproximation(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalText encodes the border policy by name.
func (m MorphBorder) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText decodes a name accepted by ParseMorphBorder.
func (m *MorphBorder) UnmarshalText(b []byte) error {
	v, err := ParseMorphBorder(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
