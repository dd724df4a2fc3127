package service

import (
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-tours/internal/crypto"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestTokens(clock *testClock) *tokenService {
	return &tokenService{
		signKey:  "test-secret",
		issuer:   "go-tours",
		duration: time.Hour,
		now:      clock.Now,
	}
}

func newTestHasher(t *testing.T) crypto.PasswordHasher {
	t.Helper()
	h, err := crypto.NewPasswordHasher(bcrypt.MinCost, 2)
	require.NoError(t, err)
	return h
}
