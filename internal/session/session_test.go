package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"psocial/client/internal/config"
	"psocial/client/internal/session"
)

type MockRefresher struct {
	mock.Mock
}

func (m *MockRefresher) Refresh() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func signedToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": "self",
		"exp": time.Now().Add(ttl).Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestSession_RefreshReplacesToken(t *testing.T) {
	refresher := new(MockRefresher)
	refresher.On("Refresh").Return("fresh-token", nil)
	sess := session.New(refresher)
	sess.SetAuth("self", "stale-token")

	require.NoError(t, sess.Refresh())
	assert.Equal(t, "fresh-token", sess.Token())
	assert.Equal(t, "self", sess.Uid())
}

func TestSession_RefreshFailureClearsSessionAndSurfacesError(t *testing.T) {
	refresher := new(MockRefresher)
	refresher.On("Refresh").Return("", assert.AnError)
	sess := session.New(refresher)
	sess.SetAuth("self", "stale-token")

	require.Error(t, sess.Refresh())
	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.Token())

	select {
	case err := <-sess.Errors():
		assert.ErrorIs(t, err, assert.AnError)
	default:
		t.Error("refresh failure was not surfaced on the error channel")
	}
}

func TestSession_RefreshWithoutAuthIsRejected(t *testing.T) {
	sess := session.New(new(MockRefresher))
	assert.ErrorIs(t, sess.Refresh(), session.ErrNotAuthenticated)
}

func TestSession_RefreshInDerivedFromTokenExpiry(t *testing.T) {
	sess := session.New(new(MockRefresher))
	sess.SetAuth("self", signedToken(t, time.Hour))

	// Renewal at three quarters of the remaining lifetime.
	d := sess.RefreshIn()
	assert.Greater(t, d, 40*time.Minute)
	assert.LessOrEqual(t, d, 45*time.Minute)
}

func TestSession_RefreshInFallsBackOnUnreadableToken(t *testing.T) {
	sess := session.New(new(MockRefresher))

	assert.Equal(t, config.TokenRefreshInterval, sess.RefreshIn(), "no token")

	sess.SetAuth("self", "not-a-jwt")
	assert.Equal(t, config.TokenRefreshInterval, sess.RefreshIn())
}

func TestSession_RefreshInExpiredTokenRenewsImmediately(t *testing.T) {
	sess := session.New(new(MockRefresher))
	sess.SetAuth("self", signedToken(t, -time.Minute))

	assert.Equal(t, time.Second, sess.RefreshIn())
}
