package devserver

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

var errEmailExists = errors.New("email already registered")

type user struct {
	ID           string
	Email        string
	PasswordHash []byte
	Verified     bool
}

// state is the stub's in-memory backend: users, outstanding OTP codes, and
// live refresh tokens.
type state struct {
	mu            sync.Mutex
	usersByEmail  map[string]*user
	usersByID     map[string]*user
	otps          map[string]string
	refreshTokens map[string]string
	seq           int
}

func newState() *state {
	return &state{
		usersByEmail:  make(map[string]*user),
		usersByID:     make(map[string]*user),
		otps:          make(map[string]string),
		refreshTokens: make(map[string]string),
	}
}

func (s *state) createUser(email string, passwordHash []byte) (*user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.usersByEmail[email]; exists {
		return nil, errEmailExists
	}
	s.seq++
	u := &user{
		ID:           strconv.Itoa(s.seq),
		Email:        email,
		PasswordHash: passwordHash,
	}
	s.usersByEmail[email] = u
	s.usersByID[u.ID] = u
	return u, nil
}

func (s *state) findByEmail(email string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.usersByEmail[email]
	return u, ok
}

func (s *state) findByID(id string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.usersByID[id]
	return u, ok
}

func (s *state) issueOTP(userID string) string {
	code := randomCode()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otps[userID] = code
	return code
}

func (s *state) consumeOTP(userID, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.otps[userID]
	if !ok || stored != code {
		return false
	}
	delete(s.otps, userID)
	return true
}

// pendingOTP exposes the outstanding code for integration tests; delivery
// channels are out of scope for the stub.
func (s *state) pendingOTP(userID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.otps[userID]
	return code, ok
}

func (s *state) markVerified(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.usersByID[userID]; ok {
		u.Verified = true
	}
}

func (s *state) setPassword(userID string, passwordHash []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.usersByID[userID]
	if !ok {
		return false
	}
	u.PasswordHash = passwordHash
	return true
}

func (s *state) issueRefreshToken(userID string) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTokens[token] = userID
	return token
}

// rotateRefreshToken invalidates the old token and issues a replacement.
func (s *state) rotateRefreshToken(old string) (string, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.refreshTokens[old]
	if !ok {
		return "", "", false
	}
	delete(s.refreshTokens, old)
	replacement := uuid.NewString()
	s.refreshTokens[replacement] = userID
	return userID, replacement, true
}

func randomCode() string {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", binary.BigEndian.Uint32(buf[:])%1000000)
}
