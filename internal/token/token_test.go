package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef" // 32 bytes

func newTestService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	svc, err := New(Config{Secret: testSecret, TTL: ttl, Issuer: "test"})
	require.NoError(t, err)
	return svc
}

func TestNew_RejectsShortSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		wantOK bool
	}{
		{name: "Empty secret", secret: "", wantOK: false},
		{name: "31 bytes", secret: strings.Repeat("a", 31), wantOK: false},
		{name: "32 bytes", secret: strings.Repeat("a", 32), wantOK: true},
		{name: "Longer secret", secret: strings.Repeat("a", 64), wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := New(Config{Secret: tt.secret, TTL: time.Minute, Issuer: "test"})
			if tt.wantOK {
				require.NoError(t, err)
				assert.NotNil(t, svc)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "at least 32 bytes")
				assert.Nil(t, svc)
			}
		})
	}
}

func TestNew_RejectsNonPositiveTTL(t *testing.T) {
	_, err := New(Config{Secret: testSecret, TTL: 0, Issuer: "test"})
	require.Error(t, err)

	_, err = New(Config{Secret: testSecret, TTL: -time.Minute, Issuer: "test"})
	require.Error(t, err)
}

func TestIssueAndValidate_RoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour)

	signed, err := svc.Issue("alice", []string{"user", "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	id, ok := svc.Validate(signed)
	require.True(t, ok)
	assert.Equal(t, "alice", id.Subject)
	assert.Equal(t, []string{"user", "admin"}, id.Roles)
}

func TestValidate_Expiry(t *testing.T) {
	// One-minute TTL: valid immediately, invalid 61 minutes later.
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	svc := newTestService(t, time.Minute).WithClock(func() time.Time { return now })

	signed, err := svc.Issue("alice", []string{"user"})
	require.NoError(t, err)

	_, ok := svc.Validate(signed)
	assert.True(t, ok, "token should validate immediately after issue")

	now = base.Add(61 * time.Minute)
	_, ok = svc.Validate(signed)
	assert.False(t, ok, "token should fail validation after expiry")
}

func TestValidate_Garbage(t *testing.T) {
	svc := newTestService(t, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "Empty string", token: ""},
		{name: "Not a JWT", token: "not-a-token"},
		{name: "Structurally broken", token: "a.b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := svc.Validate(tt.token)
			assert.False(t, ok)
		})
	}
}

func TestValidate_TamperedSignature(t *testing.T) {
	svc := newTestService(t, time.Hour)

	signed, err := svc.Issue("alice", []string{"user"})
	require.NoError(t, err)

	// Flip the last character of the signature segment.
	tampered := signed[:len(signed)-1]
	if strings.HasSuffix(signed, "A") {
		tampered += "B"
	} else {
		tampered += "A"
	}

	_, ok := svc.Validate(tampered)
	assert.False(t, ok)
}

func TestValidate_DifferentKey(t *testing.T) {
	issuer := newTestService(t, time.Hour)
	verifier, err := New(Config{Secret: strings.Repeat("x", 32), TTL: time.Hour, Issuer: "test"})
	require.NoError(t, err)

	signed, err := issuer.Issue("alice", []string{"user"})
	require.NoError(t, err)

	_, ok := verifier.Validate(signed)
	assert.False(t, ok, "token signed with another key must not validate")
}

func TestHasAnyRole(t *testing.T) {
	id := Identity{Subject: "alice", Roles: []string{"user"}}

	assert.True(t, id.HasAnyRole("user"))
	assert.True(t, id.HasAnyRole("admin", "user"))
	assert.False(t, id.HasAnyRole("admin"))
	assert.False(t, id.HasAnyRole())
	assert.False(t, Identity{}.HasAnyRole("user"))
}
