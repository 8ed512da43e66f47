package csrf

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte(strings.Repeat("s", 32))

func TestIssueValidate(t *testing.T) {
	iss, err := NewIssuer(secret, time.Minute)
	require.NoError(t, err)

	tok, err := iss.Issue("nonce-a")
	require.NoError(t, err)
	assert.NoError(t, iss.Validate(tok, "nonce-a"))
	assert.ErrorIs(t, iss.Validate(tok, "nonce-b"), ErrNonceMismatch)
	assert.ErrorIs(t, iss.Validate("", "nonce-a"), ErrMissingToken)
	assert.ErrorIs(t, iss.Validate("garbage", "nonce-a"), ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	iss, err := NewIssuer(secret, time.Minute)
	require.NoError(t, err)
	base := time.Now()
	iss.now = func() time.Time { return base }

	tok, err := iss.Issue("n")
	require.NoError(t, err)

	iss.now = func() time.Time { return base.Add(2 * time.Minute) }
	assert.ErrorIs(t, iss.Validate(tok, "n"), ErrInvalidToken)
}

func TestValidate_OtherSecret(t *testing.T) {
	a, _ := NewIssuer(secret, time.Minute)
	b, _ := NewIssuer([]byte(strings.Repeat("x", 32)), time.Minute)
	tok, err := a.Issue("n")
	require.NoError(t, err)
	assert.ErrorIs(t, b.Validate(tok, "n"), ErrInvalidToken)
}

func TestNewIssuer_ShortSecret(t *testing.T) {
	_, err := NewIssuer([]byte("short"), time.Minute)
	assert.Error(t, err)
}

func TestNonce(t *testing.T) {
	n1, err := NewNonce()
	require.NoError(t, err)
	n2, _ := NewNonce()
	assert.Len(t, n1, 64)
	assert.NotEqual(t, n1, n2)

	ctx := WithNonce(context.Background(), n1)
	got, ok := NonceFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, n1, got)

	_, ok = NonceFrom(context.Background())
	assert.False(t, ok)
}
