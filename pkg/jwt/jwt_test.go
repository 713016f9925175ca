package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/pkg/jwt"
)

func TestGenerateParse(t *testing.T) {
	token, err := jwt.Generate("s3cr3t", "u-1", "ana@local.test", "admin", "backoffice", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("s3cr3t", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParse_Rechaza(t *testing.T) {
	token, err := jwt.Generate("s3cr3t", "u-1", "ana@local.test", "admin", "backoffice", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otra", token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)

	expired, err := jwt.Generate("s3cr3t", "u-1", "ana@local.test", "admin", "backoffice", -1)
	require.NoError(t, err)
	_, err = jwt.Parse("s3cr3t", expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = jwt.Parse("s3cr3t", "no.es.token")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)

	_, err = jwt.Parse("", token)
	assert.Error(t, err)
	_, err = jwt.Generate("", "u-1", "", "", "", 1)
	assert.Error(t, err)
}
