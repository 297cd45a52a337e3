package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionJWTRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateSessionJWT("0x00000000000000000000000000000000000000aa", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", claims.Address)
	assert.False(t, claims.Admin)
	assert.Empty(t, claims.Email)
}

func TestAdminJWTCarriesOwnerAndEmail(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateAdminJWT("0x0000000000000000000000000000000000000001", "ops@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.True(t, claims.Admin)
	assert.Equal(t, "0x0000000000000000000000000000000000000001", claims.Address)
	assert.Equal(t, "ops@example.com", claims.Email)
}

func TestValidateJWTRejectsExpiredAndForeignTokens(t *testing.T) {
	InitJWT("test-secret")

	expired, err := GenerateSessionJWT("0x00000000000000000000000000000000000000aa", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateJWT(expired)
	assert.Error(t, err)

	token, err := GenerateSessionJWT("0x00000000000000000000000000000000000000aa", time.Hour)
	require.NoError(t, err)

	InitJWT("another-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestSignatureRoundTrip(t *testing.T) {
	payload := []byte(`{"to":"0xabc","amount":100}`)

	sig := GenerateSignature(payload, "hush")
	assert.True(t, VerifySignature(payload, sig, "hush"))
	assert.False(t, VerifySignature(payload, sig, "other"))
	assert.False(t, VerifySignature([]byte("tampered"), sig, "hush"))
}
