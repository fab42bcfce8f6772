package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", DefaultTTL)

	raw, err := m.Issue(42, "alice@x.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := m.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.AccountID)
	assert.Equal(t, "alice@x.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestManager_Verify_Tampered(t *testing.T) {
	m := NewManager("test-secret", DefaultTTL)

	raw, err := m.Issue(1, "a@x.com", "admin")
	require.NoError(t, err)

	// flip a byte in the payload segment
	b := []byte(raw)
	mid := len(b) / 2
	if b[mid] == 'A' {
		b[mid] = 'B'
	} else {
		b[mid] = 'A'
	}

	_, err = m.Verify(string(b))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Verify_WrongKey(t *testing.T) {
	issuer := NewManager("secret-one", DefaultTTL)
	verifier := NewManager("secret-two", DefaultTTL)

	raw, err := issuer.Issue(1, "a@x.com", "user")
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Verify_Expired(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	raw, err := m.Issue(1, "a@x.com", "user")
	require.NoError(t, err)

	// advance the clock past the horizon
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = m.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Verify_Garbage(t *testing.T) {
	m := NewManager("test-secret", DefaultTTL)

	_, err := m.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
