package midtrans

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignature(t *testing.T) {
	sum := sha512.Sum512([]byte("42" + "200" + "21000.00" + "server-key"))
	want := hex.EncodeToString(sum[:])

	got := Signature("42", "200", "21000.00", "server-key")
	assert.Equal(t, want, got)
	assert.Equal(t, strings.ToLower(got), got)
}

func TestVerifySignature(t *testing.T) {
	sig := Signature("42", "200", "21000.00", "server-key")

	assert.True(t, VerifySignature("42", "200", "21000.00", "server-key", sig))
	assert.True(t, VerifySignature("42", "200", "21000.00", "server-key", strings.ToUpper(sig)))

	assert.False(t, VerifySignature("42", "200", "21000.00", "server-key", ""))
	assert.False(t, VerifySignature("42", "200", "21000.00", "server-key", "deadbeef"))
	// tampered amount fails even though the order id matches
	assert.False(t, VerifySignature("42", "200", "1.00", "server-key", sig))
	// wrong key fails
	assert.False(t, VerifySignature("42", "200", "21000.00", "other-key", sig))
}

func TestFormatGross(t *testing.T) {
	assert.Equal(t, "21000.00", FormatGross(21000))
	assert.Equal(t, "0.00", FormatGross(0))
}
