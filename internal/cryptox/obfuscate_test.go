package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObfuscate_RoundTrip(t *testing.T) {
	stored := Obfuscate("kate.ellis", []byte("1234"))
	assert.NotEqual(t, "1234", stored, "secret must not be stored in plain text")

	back, err := Deobfuscate("kate.ellis", stored)
	require.NoError(t, err)
	assert.Equal(t, []byte("1234"), back)
}

func TestObfuscate_BoundToAccount(t *testing.T) {
	a := Obfuscate("kate.ellis", []byte("1234"))
	b := Obfuscate("nick.barr", []byte("1234"))
	assert.NotEqual(t, a, b)
}

func TestVerify(t *testing.T) {
	stored := Obfuscate("kate.ellis", []byte("1234"))
	assert.True(t, Verify("kate.ellis", []byte("1234"), stored))
	assert.False(t, Verify("kate.ellis", []byte("4321"), stored))
	assert.False(t, Verify("nick.barr", []byte("1234"), stored))
}

func TestDeobfuscate_InvalidBase64(t *testing.T) {
	_, err := Deobfuscate("kate.ellis", "%%%")
	assert.Error(t, err)
}
