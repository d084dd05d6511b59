package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret(32)
	require.NoError(t, err)
	b, err := GenerateSecret(32)
	require.NoError(t, err)

	require.Len(t, a, 64)
	require.NotEqual(t, a, b)

	_, err = hex.DecodeString(a)
	require.NoError(t, err)
}
