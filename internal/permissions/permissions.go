package permissions

import "filedrop/internal/models"

// HasMinRole reports whether role sits at or above min in the hierarchy.
// Every other predicate in this package is defined in terms of it, so
// inserting a new role means touching models.Role.Rank and nothing else.
func HasMinRole(role, min models.Role) bool {
	userRank := role.Rank()
	minRank := min.Rank()
	if userRank < 0 || minRank < 0 {
		return false
	}
	return userRank >= minRank
}

func CanUpload(role models.Role) bool {
	return HasMinRole(role, models.RoleUploader)
}

func IsAdmin(role models.Role) bool {
	return HasMinRole(role, models.RoleAdmin)
}

// CanSetNoExpiry reports whether the role may upload permanent content.
// Uploaders always get an expiry.
func CanSetNoExpiry(role models.Role) bool {
	return IsAdmin(role)
}

func CanBrowseContent(role models.Role) bool {
	return IsAdmin(role)
}
