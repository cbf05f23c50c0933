package validation

import "strings"

const maxSlugLength = 100

// ValidateSlug normalizes a user-chosen short slug (trim, lowercase) and
// checks the character rules. It is a pure function: slug uniqueness is
// enforced by the database constraint, not here. On failure the returned
// reason is safe to show to the end user.
func ValidateSlug(raw string) (slug string, ok bool, reason string) {
	slug = strings.ToLower(strings.TrimSpace(raw))

	if slug == "" {
		return "", false, "slug cannot be empty"
	}
	if len(slug) > maxSlugLength {
		return "", false, "slug must be 100 characters or fewer"
	}
	for i := 0; i < len(slug); i++ {
		c := slug[i]
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-' {
			continue
		}
		return "", false, "slug may only contain lowercase letters, digits and hyphens"
	}
	if slug[0] == '-' || slug[len(slug)-1] == '-' {
		return "", false, "slug cannot start or end with a hyphen"
	}
	if strings.Contains(slug, "--") {
		return "", false, "slug cannot contain consecutive hyphens"
	}
	return slug, true, ""
}
