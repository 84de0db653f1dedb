package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Coins-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
	testIssuer = "coins-idp-test"
)

func TestVerifier_GenerateAndResolve(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "ana@acme.io", testIssuer, 60)
	require.NoError(t, err)

	id, err := pkgjwt.NewVerifier(testSecret, testIssuer).Resolve(tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, id.UserID)
	assert.Equal(t, "ana@acme.io", id.Email)
}

func TestVerifier_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "", testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.NewVerifier(testSecret, "").Resolve(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestVerifier_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "", testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.NewVerifier("otro-secret-completamente-distinto", "").Resolve(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestVerifier_EmisorDistinto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, "", "otro-emisor", 60)
	require.NoError(t, err)

	_, err = pkgjwt.NewVerifier(testSecret, testIssuer).Resolve(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestVerifier_SinSubject(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "", "", testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.NewVerifier(testSecret, "").Resolve(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestVerifier_SubjectNoUUID(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "usuario-1", "", testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.NewVerifier(testSecret, testIssuer).Resolve(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testUserID, "", testIssuer, 60)
	assert.Error(t, err)
}
