package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService([]byte("test-secret"), 15*time.Minute, 7*24*time.Hour, 30*time.Minute)
}

func TestService_IssueAccess_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	svc := newTestService()

	token, err := svc.IssueAccess("alice", 42, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestService_IssueReset_SubjectIsEmail(t *testing.T) {
	t.Parallel()

	svc := newTestService()

	token, err := svc.IssueReset("alice@example.com")
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestService_Verify_Expired(t *testing.T) {
	t.Parallel()

	svc := NewService([]byte("test-secret"), -time.Minute, -time.Minute, -time.Minute)

	token, err := svc.IssueAccess("alice", 1, "librarian")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestService_Verify_TamperedSignature(t *testing.T) {
	t.Parallel()

	svc := newTestService()

	token, err := svc.IssueRefresh("alice", 1, "librarian")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Verify_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := newTestService().IssueAccess("alice", 1, "librarian")
	require.NoError(t, err)

	other := NewService([]byte("other-secret"), time.Minute, time.Minute, time.Minute)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Verify_Garbage(t *testing.T) {
	t.Parallel()

	_, err := newTestService().Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ExpiryUnverified(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	token, err := svc.IssueRefresh("alice", 1, "librarian")
	require.NoError(t, err)

	exp, err := svc.ExpiryUnverified(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp, 5*time.Second)

	_, err = svc.ExpiryUnverified("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
