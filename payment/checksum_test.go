package payment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum_Deterministic(t *testing.T) {
	payload := map[string]interface{}{"amount": 1000, "merchantId": "M1"}

	first, err := Checksum(payload, "/pg/v1/pay", "salt-key")
	require.NoError(t, err)
	second, err := Checksum(payload, "/pg/v1/pay", "salt-key")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasSuffix(first, "###1"))
	// hex sha256 plus the key-index suffix
	assert.Len(t, first, 64+len("###1"))
}

func TestChecksum_SensitiveToInputs(t *testing.T) {
	base, err := Checksum(map[string]int{"amount": 1000}, "/pg/v1/pay", "salt-key")
	require.NoError(t, err)

	tests := []struct {
		name     string
		payload  interface{}
		endpoint string
		salt     string
	}{
		{"different payload", map[string]int{"amount": 1001}, "/pg/v1/pay", "salt-key"},
		{"different endpoint", map[string]int{"amount": 1000}, "/pg/v1/status", "salt-key"},
		{"different salt", map[string]int{"amount": 1000}, "/pg/v1/pay", "other-salt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Checksum(tt.payload, tt.endpoint, tt.salt)
			require.NoError(t, err)
			assert.NotEqual(t, base, got)
		})
	}
}

func TestVerifyChecksum_RoundTrip(t *testing.T) {
	body := []byte(`{"success":true,"code":"PAYMENT_SUCCESS"}`)
	sum := ChecksumRaw(body, "/pg/v1/status", "salt-key")

	assert.True(t, VerifyChecksum(body, "/pg/v1/status", "salt-key", sum))
}

func TestVerifyChecksum_RejectsTamperedBody(t *testing.T) {
	body := []byte(`{"success":true,"code":"PAYMENT_SUCCESS"}`)
	sum := ChecksumRaw(body, "/pg/v1/status", "salt-key")

	for i := range body {
		tampered := append([]byte(nil), body...)
		tampered[i] ^= 0x01
		assert.False(t, VerifyChecksum(tampered, "/pg/v1/status", "salt-key", sum),
			"flipping byte %d should invalidate the checksum", i)
	}
}

func TestVerifyChecksum_RejectsTamperedSignature(t *testing.T) {
	body := []byte(`{"success":true}`)
	sum := ChecksumRaw(body, "/pg/v1/status", "salt-key")

	assert.False(t, VerifyChecksum(body, "/pg/v1/status", "salt-key", sum+"x"))
	assert.False(t, VerifyChecksum(body, "/pg/v1/status", "salt-key", ""))
	assert.False(t, VerifyChecksum(body, "/pg/v1/status", "wrong-salt", sum))
}
