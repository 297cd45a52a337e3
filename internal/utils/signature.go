package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateSignature creates an HMAC-SHA256 signature over the payload.
func GenerateSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a signature in constant time.
func VerifySignature(payload []byte, signature, secret string) bool {
	expected := GenerateSignature(payload, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}
