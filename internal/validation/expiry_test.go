package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filedrop/internal/models"
)

func TestValidateExpiryDefault(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	expires, err := ValidateExpiry(models.RoleUploader, "", now)
	require.NoError(t, err)
	require.NotNil(t, expires)
	assert.Equal(t, now.Add(time.Hour), *expires)
}

func TestValidateExpiryOff(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	expires, err := ValidateExpiry(models.RoleAdmin, "off", now)
	require.NoError(t, err)
	assert.Nil(t, expires)

	_, err = ValidateExpiry(models.RoleUploader, "off", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Only admins")
}

func TestValidateExpiryHours(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	expires, err := ValidateExpiry(models.RoleUploader, "24", now)
	require.NoError(t, err)
	require.NotNil(t, expires)
	assert.Equal(t, now.Add(24*time.Hour), *expires)

	// Fractional hours are allowed down to the five minute floor.
	expires, err = ValidateExpiry(models.RoleUploader, "0.5", now)
	require.NoError(t, err)
	require.NotNil(t, expires)
	assert.Equal(t, now.Add(30*time.Minute), *expires)

	_, err = ValidateExpiry(models.RoleUploader, "0.01", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least")
}

func TestValidateExpiryUploaderCap(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Exactly seven days is the uploader ceiling.
	expires, err := ValidateExpiry(models.RoleUploader, "168", now)
	require.NoError(t, err)
	require.NotNil(t, expires)

	_, err = ValidateExpiry(models.RoleUploader, "169", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "7 days")

	// Admins are not capped.
	expires, err = ValidateExpiry(models.RoleAdmin, "720", now)
	require.NoError(t, err)
	require.NotNil(t, expires)
	assert.Equal(t, now.Add(720*time.Hour), *expires)
}

func TestValidateExpiryBadValues(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, v := range []string{"abc", "-1", "0", "1h", "NaN"} {
		_, err := ValidateExpiry(models.RoleAdmin, v, now)
		assert.Error(t, err, "value %q", v)
	}
}
