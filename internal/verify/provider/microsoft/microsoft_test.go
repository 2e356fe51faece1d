package microsoft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityFromClaims(t *testing.T) {
	id, err := identityFromClaims(msClaims{
		Subject:  "sub-1",
		Email:    "a@x.com",
		TenantID: "tenant-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", id.Email)
	assert.True(t, id.EmailVerified)
	assert.Equal(t, "tenant-1", id.TenantID)
}

func TestIdentityFromClaimsUPNFallback(t *testing.T) {
	// Work/school accounts frequently omit the email claim.
	id, err := identityFromClaims(msClaims{
		Subject:           "sub-1",
		PreferredUsername: "a@corp.example",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@corp.example", id.Email)
	assert.False(t, id.EmailVerified)
}

func TestIdentityFromClaimsMissingSubject(t *testing.T) {
	_, err := identityFromClaims(msClaims{Email: "a@x.com"})
	assert.Error(t, err)
}

func TestIdentityFromClaimsNoAddressAtAll(t *testing.T) {
	_, err := identityFromClaims(msClaims{Subject: "sub-1"})
	assert.Error(t, err)
}
