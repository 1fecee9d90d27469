package payment

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
)

// checksumSuffix identifies the salt key index the gateway expects.
const checksumSuffix = "###1"

// Checksum signs a request payload for the gateway:
// hex(sha256(base64(json(payload)) + endpoint + saltKey)) + "###1".
// The same function authenticates outbound requests and inbound callbacks.
func Checksum(payload interface{}, endpoint, saltKey string) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return ChecksumRaw(body, endpoint, saltKey), nil
}

// ChecksumRaw computes the checksum over an already-serialized body. The
// callback verifier uses this so the exact received bytes are what get
// hashed, not a re-marshaled copy.
func ChecksumRaw(body []byte, endpoint, saltKey string) string {
	encoded := base64.StdEncoding.EncodeToString(body)
	sum := sha256.Sum256([]byte(encoded + endpoint + saltKey))
	return hex.EncodeToString(sum[:]) + checksumSuffix
}

// VerifyChecksum reports whether got matches the checksum of body. The
// comparison is constant time.
func VerifyChecksum(body []byte, endpoint, saltKey, got string) bool {
	want := ChecksumRaw(body, endpoint, saltKey)
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
