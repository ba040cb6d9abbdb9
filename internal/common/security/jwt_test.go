package security

import (
	"strings"
	"testing"
	"time"

	"authbuddy/internal/common"
	"authbuddy/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = &model.User{
	ID:       "user-123",
	Username: "alice",
	Email:    "a@x.com",
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager([]byte("super-secret"), time.Hour)

	tok, err := tm.Issue(testUser)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := tm.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, claims.UserID)
	assert.Equal(t, testUser.Email, claims.Email)
	assert.Equal(t, testUser.Username, claims.Username)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt, 5*time.Second)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestTokenManager_Verify_TamperedSignature(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager([]byte("super-secret"), time.Hour)

	tok, err := tm.Issue(testUser)
	require.NoError(t, err)

	// Flip a bit in the signature segment.
	i := strings.LastIndex(tok, ".")
	require.Greater(t, i, 0)
	sig := []byte(tok[i+1:])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := tok[:i+1] + string(sig)
	require.NotEqual(t, tok, tampered)

	_, err = tm.Verify(tampered)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestTokenManager_Verify_Expired(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager([]byte("super-secret"), -1*time.Minute)

	tok, err := tm.Issue(testUser)
	require.NoError(t, err)

	_, err = tm.Verify(tok)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestTokenManager_Verify_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenManager([]byte("right-secret"), time.Hour)
	verifier := NewTokenManager([]byte("wrong-secret"), time.Hour)

	tok, err := issuer.Issue(testUser)
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestTokenManager_Verify_Malformed(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager([]byte("super-secret"), time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := tm.Verify(tok)
		assert.ErrorIs(t, err, common.ErrUnauthorized, "token %q", tok)
	}
}
