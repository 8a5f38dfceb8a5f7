package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	token, err := Generate("secreto", 42, "bodeguero", "inventario-envios", 5)
	require.NoError(t, err)

	userID, role, err := Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "bodeguero", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := Generate("secreto", 1, "admin", "inventario-envios", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro-secreto", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := Generate("secreto", 1, "admin", "inventario-envios", -1)
	require.NoError(t, err)

	_, _, err = Parse("secreto", token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", 1, "admin", "x", 5)
	assert.Error(t, err)
}

func TestParse_SinUserID(t *testing.T) {
	token, err := Generate("secreto", 0, "admin", "x", 5)
	require.NoError(t, err)

	_, _, err = Parse("secreto", token)
	assert.Error(t, err)
}
