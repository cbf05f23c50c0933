package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"filedrop/internal/models"
)

func TestHasMinRole(t *testing.T) {
	cases := []struct {
		role models.Role
		min  models.Role
		want bool
	}{
		{models.RoleGuest, models.RoleGuest, true},
		{models.RoleGuest, models.RoleUploader, false},
		{models.RoleGuest, models.RoleAdmin, false},
		{models.RoleUploader, models.RoleGuest, true},
		{models.RoleUploader, models.RoleUploader, true},
		{models.RoleUploader, models.RoleAdmin, false},
		{models.RoleAdmin, models.RoleGuest, true},
		{models.RoleAdmin, models.RoleUploader, true},
		{models.RoleAdmin, models.RoleAdmin, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HasMinRole(tc.role, tc.min), "%s vs min %s", tc.role, tc.min)
	}
}

func TestHasMinRoleUnknownRole(t *testing.T) {
	// An unrecognized role never satisfies any minimum, not even guest.
	assert.False(t, HasMinRole(models.Role("superuser"), models.RoleGuest))
	assert.False(t, HasMinRole(models.Role(""), models.RoleGuest))
	assert.False(t, HasMinRole(models.RoleAdmin, models.Role("bogus")))
}

func TestRolePredicates(t *testing.T) {
	assert.False(t, CanUpload(models.RoleGuest))
	assert.True(t, CanUpload(models.RoleUploader))
	assert.True(t, CanUpload(models.RoleAdmin))

	assert.False(t, IsAdmin(models.RoleUploader))
	assert.True(t, IsAdmin(models.RoleAdmin))

	assert.False(t, CanSetNoExpiry(models.RoleUploader))
	assert.True(t, CanSetNoExpiry(models.RoleAdmin))

	assert.False(t, CanBrowseContent(models.RoleUploader))
	assert.True(t, CanBrowseContent(models.RoleAdmin))
}

func TestParseRole(t *testing.T) {
	for _, r := range models.Roles {
		parsed, err := models.ParseRole(string(r))
		assert.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	_, err := models.ParseRole("owner")
	assert.Error(t, err)
	_, err = models.ParseRole("Admin")
	assert.Error(t, err)
}
