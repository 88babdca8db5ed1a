package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceguard-server-go/internal/domain/auth"
	"voiceguard-server-go/internal/platform/errors"
)

func TestNewAPIKeyVerifier_EmptyKey(t *testing.T) {
	_, err := auth.NewAPIKeyVerifier("")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))
}

func TestAPIKeyVerifier_Verify(t *testing.T) {
	verifier, err := auth.NewAPIKeyVerifier("secret-key")
	require.NoError(t, err)

	assert.NoError(t, verifier.Verify("secret-key"))

	err = verifier.Verify("wrong-key")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindAuth))

	err = verifier.Verify("")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindAuth))
}
