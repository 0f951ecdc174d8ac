package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClaims() *Claims {
	return &Claims{
		Email: "jordan.miles@example.com",
		Role:  "Manager",
		Permissions: domain.Permissions{
			Scope:              domain.ScopeManager,
			ManagedEmployeeIDs: []string{"e2", "e3"},
		},
		RegisteredClaims: jwt.RegisteredClaims{Subject: "e1"},
	}
}

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("secret", 2*time.Hour)

	ss, expiration, err := issuer.Issue(newClaims())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), expiration, time.Minute)

	claims, err := issuer.Verify(ss)
	require.NoError(t, err)
	assert.Equal(t, "e1", claims.Subject)
	assert.Equal(t, "jordan.miles@example.com", claims.Email)
	assert.Equal(t, domain.ScopeManager, claims.Permissions.Scope)
	assert.Equal(t, []string{"e2", "e3"}, claims.Permissions.ManagedEmployeeIDs)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	ss, _, err := issuer.Issue(newClaims())
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(ss)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	ss, _, err := NewIssuer("secret", time.Hour).Issue(newClaims())
	require.NoError(t, err)

	_, err = NewIssuer("other-secret", time.Hour).Verify(ss)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	_, err := NewIssuer("secret", time.Hour).Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnexpectedSigningMethod(t *testing.T) {
	claims := newClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Hour).Verify(ss)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRequiresSubject(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	claims := newClaims()
	claims.Subject = ""

	ss, _, err := issuer.Issue(claims)
	require.NoError(t, err)

	_, err = issuer.Verify(ss)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
