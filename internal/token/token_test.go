package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueParse(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)

	s, err := iss.Issue(42, "john@example.com")
	require.NoError(t, err)

	claims, err := iss.Parse(s)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "john@example.com", claims.Email)
	assert.Equal(t, "42", claims.Subject)
}

func TestParse_Expired(t *testing.T) {
	now := time.Now()
	iss := NewIssuer("secret", time.Hour).WithClock(func() time.Time { return now })

	s, err := iss.Issue(1, "a@example.com")
	require.NoError(t, err)

	now = now.Add(time.Hour * 2)

	_, err = iss.Parse(s)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParse_WrongSecret(t *testing.T) {
	s, err := NewIssuer("one", time.Hour).Issue(1, "a@example.com")
	require.NoError(t, err)

	_, err = NewIssuer("two", time.Hour).Parse(s)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParse_Garbage(t *testing.T) {
	_, err := NewIssuer("secret", time.Hour).Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = NewIssuer("secret", time.Hour).Parse("")
	assert.ErrorIs(t, err, ErrInvalid)
}
