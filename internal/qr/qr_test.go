package qr

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload(t *testing.T) {
	p, err := Payload("PASS-1700000000000-42")
	require.NoError(t, err)
	assert.Equal(t, `{"passNumber":"PASS-1700000000000-42"}`, p)
}

func TestPNGEncoderProducesDataURI(t *testing.T) {
	enc := NewPNGEncoder(256)

	uri, err := enc.Encode(`{"passNumber":"PASS-1-1"}`)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, raw[:4])
}

func TestPNGEncoderDeterministic(t *testing.T) {
	enc := NewPNGEncoder(0) // exercises the size fallback

	a, err := enc.Encode("same payload")
	require.NoError(t, err)
	b, err := enc.Encode("same payload")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
