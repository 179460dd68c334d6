package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Opening a Bank Account":        "opening-a-bank-account",
		"  Visa & Residence Permits  ":  "visa-residence-permits",
		"Finding Housing (2024 Guide)!": "finding-housing-2024-guide",
		"already-a-slug":                "already-a-slug",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}
