package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	u, err := CreateUser("Asha Verma", "asha@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, ROLE_USER, u.Role)
	assert.Equal(t, STATUS_INACTIVE, u.Status)
	assert.Equal(t, "free", u.Subscription)
	assert.Equal(t, SubscriptionStatusActive, u.SubscriptionStatus)
	assert.NotEqual(t, "secret123", u.Password)
	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestCreateUserValidation(t *testing.T) {
	_, err := CreateUser("Asha", "not-an-email", "secret123")
	assert.Error(t, err)

	_, err = CreateUser("A", "asha@example.com", "secret123")
	assert.Error(t, err)

	_, err = CreateUser("Asha", "asha@example.com", "short")
	assert.Error(t, err)
}

func TestGenerateActivationToken(t *testing.T) {
	u := &User{}
	require.NoError(t, u.GenerateActivationToken())

	assert.Len(t, u.ActivationToken, 32)
	assert.NotNil(t, u.ActivationSentAt)

	first := u.ActivationToken
	require.NoError(t, u.GenerateActivationToken())
	assert.NotEqual(t, first, u.ActivationToken)
}
