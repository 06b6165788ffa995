package auth

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrChallengeExpired = errors.New("challenge expired or unknown")
	ErrBadCode          = errors.New("wrong code")
	ErrTooManyAttempts  = errors.New("too many wrong codes for this challenge")
)

const (
	challengeTTL = 5 * time.Minute
	maxAttempts  = 3
)

// challenge is what lives in Redis under otp:<handle>. Only the bcrypt hash
// of the code is stored; the plaintext exists solely in the SMS.
type challenge struct {
	Phone    string `json:"phone"`
	CodeHash string `json:"code_hash"`
	Attempts int    `json:"attempts"`
}

// SMSSender delivers the one-time code. The dev implementation just logs it.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

type LogSMSSender struct{}

func (LogSMSSender) Send(ctx context.Context, phone, message string) error {
	log.Printf("📱 SMS to %s: %s", phone, message)
	return nil
}

// challengeStore holds pending challenges keyed by their opaque handle.
// Entries expire on their own after challengeTTL; Update keeps the remaining
// expiry so wrong guesses never extend a challenge's life.
type challengeStore interface {
	Put(ctx context.Context, handle string, ch challenge) error
	Get(ctx context.Context, handle string) (challenge, bool, error)
	Update(ctx context.Context, handle string, ch challenge) error
	Delete(ctx context.Context, handle string)
}

type redisChallengeStore struct {
	client *redis.Client
}

func (s redisChallengeStore) Put(ctx context.Context, handle string, ch challenge) error {
	data, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, challengeKey(handle), data, challengeTTL).Err()
}

func (s redisChallengeStore) Get(ctx context.Context, handle string) (challenge, bool, error) {
	data, err := s.client.Get(ctx, challengeKey(handle)).Result()
	if err == redis.Nil {
		return challenge{}, false, nil
	}
	if err != nil {
		return challenge{}, false, err
	}
	var ch challenge
	if err := json.Unmarshal([]byte(data), &ch); err != nil {
		// Garbage in the slot reads as expired.
		return challenge{}, false, nil
	}
	return ch, true, nil
}

func (s redisChallengeStore) Update(ctx context.Context, handle string, ch challenge) error {
	data, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, challengeKey(handle), data, redis.KeepTTL).Err()
}

func (s redisChallengeStore) Delete(ctx context.Context, handle string) {
	s.client.Del(ctx, challengeKey(handle))
}

// OTPService runs the phone challenge/response exchange.
type OTPService struct {
	store challengeStore
	sms   SMSSender
}

func NewOTPService(client *redis.Client, sms SMSSender) *OTPService {
	return &OTPService{store: redisChallengeStore{client: client}, sms: sms}
}

func challengeKey(handle string) string {
	return "otp:" + handle
}

// SendChallenge generates a 6-digit code for the phone, stores its hash under
// a fresh opaque handle and hands the code to the SMS sender. The handle is
// what the client must present to Verify.
func (s *OTPService) SendChallenge(ctx context.Context, phone string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	handle := uuid.NewString()
	if err := s.store.Put(ctx, handle, challenge{Phone: phone, CodeHash: string(hash)}); err != nil {
		return "", fmt.Errorf("storing challenge: %w", err)
	}

	msg := fmt.Sprintf("Your FarmBasket verification code is %s. Valid for 5 minutes.", code)
	if err := s.sms.Send(ctx, phone, msg); err != nil {
		s.store.Delete(ctx, handle)
		return "", fmt.Errorf("sending SMS: %w", err)
	}

	return handle, nil
}

// Verify checks the code against the stored hash. Three wrong codes burn the
// challenge; a correct code consumes it and returns the verified phone.
func (s *OTPService) Verify(ctx context.Context, handle, code string) (string, error) {
	ch, ok, err := s.store.Get(ctx, handle)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrChallengeExpired
	}

	if ch.Attempts >= maxAttempts {
		s.store.Delete(ctx, handle)
		return "", ErrTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(ch.CodeHash), []byte(code)) != nil {
		ch.Attempts++
		if ch.Attempts >= maxAttempts {
			s.store.Delete(ctx, handle)
			return "", ErrTooManyAttempts
		}
		if err := s.store.Update(ctx, handle, ch); err != nil {
			log.Printf("⚠️ Could not record failed attempt on challenge %s: %v", handle, err)
		}
		return "", ErrBadCode
	}

	// Consumed: a handle verifies at most once.
	s.store.Delete(ctx, handle)
	return ch.Phone, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
