package auth

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memChallengeStore struct {
	data map[string]challenge
}

func newMemChallengeStore() *memChallengeStore {
	return &memChallengeStore{data: make(map[string]challenge)}
}

func (s *memChallengeStore) Put(ctx context.Context, handle string, ch challenge) error {
	s.data[handle] = ch
	return nil
}

func (s *memChallengeStore) Get(ctx context.Context, handle string) (challenge, bool, error) {
	ch, ok := s.data[handle]
	return ch, ok, nil
}

func (s *memChallengeStore) Update(ctx context.Context, handle string, ch challenge) error {
	s.data[handle] = ch
	return nil
}

func (s *memChallengeStore) Delete(ctx context.Context, handle string) {
	delete(s.data, handle)
}

type capturingSMS struct {
	phone   string
	message string
}

func (c *capturingSMS) Send(ctx context.Context, phone, message string) error {
	c.phone = phone
	c.message = message
	return nil
}

var codeRe = regexp.MustCompile(`[0-9]{6}`)

func newTestOTP(t *testing.T) (*OTPService, *memChallengeStore, string, string) {
	t.Helper()
	store := newMemChallengeStore()
	sms := &capturingSMS{}
	svc := &OTPService{store: store, sms: sms}

	handle, err := svc.SendChallenge(context.Background(), "+919876543210")
	require.NoError(t, err)
	require.NotEmpty(t, handle)
	require.Equal(t, "+919876543210", sms.phone)

	code := codeRe.FindString(sms.message)
	require.Len(t, code, 6)
	return svc, store, handle, code
}

func TestVerifyCorrectCodeConsumesChallenge(t *testing.T) {
	ctx := context.Background()
	svc, store, handle, code := newTestOTP(t)

	// The stored challenge must not contain the plaintext code.
	ch := store.data[handle]
	assert.NotContains(t, ch.CodeHash, code)

	phone, err := svc.Verify(ctx, handle, code)
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", phone)

	// Consumed: the same handle never verifies twice.
	_, err = svc.Verify(ctx, handle, code)
	assert.ErrorIs(t, err, ErrChallengeExpired)
}

func TestVerifyWrongCodeIncrementsAttempts(t *testing.T) {
	ctx := context.Background()
	svc, store, handle, code := newTestOTP(t)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, err := svc.Verify(ctx, handle, wrong)
	assert.ErrorIs(t, err, ErrBadCode)
	assert.Equal(t, 1, store.data[handle].Attempts)

	// The right code still works after one miss.
	phone, err := svc.Verify(ctx, handle, code)
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", phone)
}

func TestVerifyThreeWrongCodesBurnChallenge(t *testing.T) {
	ctx := context.Background()
	svc, store, handle, code := newTestOTP(t)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, err := svc.Verify(ctx, handle, wrong)
	assert.ErrorIs(t, err, ErrBadCode)
	_, err = svc.Verify(ctx, handle, wrong)
	assert.ErrorIs(t, err, ErrBadCode)
	_, err = svc.Verify(ctx, handle, wrong)
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// Burned: even the right code is refused now.
	_, ok, _ := store.Get(ctx, handle)
	assert.False(t, ok)
	_, err = svc.Verify(ctx, handle, code)
	assert.ErrorIs(t, err, ErrChallengeExpired)
}

func TestVerifyUnknownHandle(t *testing.T) {
	svc := &OTPService{store: newMemChallengeStore(), sms: LogSMSSender{}}
	_, err := svc.Verify(context.Background(), "no-such-handle", "123456")
	assert.ErrorIs(t, err, ErrChallengeExpired)
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.Regexp(t, `^[0-9]{6}$`, code)
		seen[code] = true
	}
	// 50 draws from a million-value space colliding down to a handful would
	// mean the generator is broken.
	assert.Greater(t, len(seen), 40)
}
