package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSlug(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		want   string
		ok     bool
		reason string
	}{
		{"simple", "my-file", "my-file", true, ""},
		{"normalizes case and whitespace", "  My-File  ", "my-file", true, ""},
		{"digits", "report-2025", "report-2025", true, ""},
		{"single char", "a", "a", true, ""},
		{"max length", strings.Repeat("a", 100), strings.Repeat("a", 100), true, ""},
		{"too long", strings.Repeat("a", 101), "", false, "slug must be 100 characters or fewer"},
		{"empty", "", "", false, "slug cannot be empty"},
		{"whitespace only", "   ", "", false, "slug cannot be empty"},
		{"underscore", "my_file", "", false, "slug may only contain lowercase letters, digits and hyphens"},
		{"space inside", "my file", "", false, "slug may only contain lowercase letters, digits and hyphens"},
		{"unicode", "café", "", false, "slug may only contain lowercase letters, digits and hyphens"},
		{"leading hyphen", "-abc", "", false, "slug cannot start or end with a hyphen"},
		{"trailing hyphen", "abc-", "", false, "slug cannot start or end with a hyphen"},
		{"double hyphen", "a--b", "", false, "slug cannot contain consecutive hyphens"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slug, ok, reason := ValidateSlug(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, slug)
			if !tc.ok {
				assert.Equal(t, tc.reason, reason)
			}
		})
	}
}
