package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

func TestJWTIssuer_RoundTrip(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour)
	actor := sharedDomain.Actor{ID: uuid.New(), Role: sharedDomain.RolePublisher}

	token, err := issuer.Issue(actor)
	require.NoError(t, err)

	got, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestJWTIssuer_Rejects(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour)
	actor := sharedDomain.Actor{ID: uuid.New(), Role: sharedDomain.RoleUser}

	other, err := NewJWTIssuer("other", time.Hour).Issue(actor)
	require.NoError(t, err)
	_, err = issuer.Parse(other)
	assert.ErrorIs(t, err, ErrInvalidToken, "firma distinta")

	expired := NewJWTIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue(actor)
	require.NoError(t, err)
	_, err = issuer.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken, "expirado")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": actor.ID.String()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg none")

	_, err = issuer.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
