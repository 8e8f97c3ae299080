package model

import (
	"strconv"
	"strings"
)

// Profile holds applicant attributes keyed by name (field of study, GPA,
// citizenship, financial-need flag, ...). Read-only to the engine; owned by
// the profile collaborator.
type Profile map[string]string

// Attr returns the raw attribute value and whether it is present and non-empty.
func (p Profile) Attr(name string) (string, bool) {
	v, ok := p[name]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// Number parses an attribute as a float. Missing or unparseable attributes
// report ok=false rather than an error so criterion checks stay fail-closed.
func (p Profile) Number(name string) (float64, bool) {
	v, ok := p.Attr(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Flag parses an attribute as a boolean.
func (p Profile) Flag(name string) (bool, bool) {
	v, ok := p.Attr(name)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return false, false
	}
	return b, true
}
