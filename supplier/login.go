// Package supplier provides in-process stand-ins for the supplier login and
// availability APIs.
package supplier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/gilby125/hotel-availability/hotels"
	"github.com/gilby125/hotel-availability/pkg/cache"
)

// LoginResponse is the login API envelope.
type LoginResponse struct {
	Status    int    `json:"status"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// LoginService issues sessions for any complete set of credentials.
type LoginService struct {
	sessions *cache.SessionStore
	now      func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// LoginOption configures a LoginService.
type LoginOption func(*LoginService)

// WithLoginClock replaces time.Now in session ID generation.
func WithLoginClock(now func() time.Time) LoginOption {
	return func(s *LoginService) { s.now = now }
}

// WithLoginRand sets the nonce source.
func WithLoginRand(r *rand.Rand) LoginOption {
	return func(s *LoginService) { s.rnd = r }
}

// NewLoginService records sessions in store.
func NewLoginService(store *cache.SessionStore, opts ...LoginOption) *LoginService {
	s := &LoginService{
		sessions: store,
		now:      time.Now,
		rnd:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login returns status 400 when a field is empty and otherwise creates a
// session. Errors are reserved for session store failures.
func (s *LoginService) Login(ctx context.Context, cred hotels.Credential) (LoginResponse, error) {
	if cred.Username == "" || cred.Password == "" || cred.CompanyID == "" {
		return LoginResponse{
			Status:  http.StatusBadRequest,
			Message: "Missing required parameters: username, password, or CompanyID",
		}, nil
	}

	id := s.sessionID(cred)
	if _, err := s.sessions.Create(ctx, id, cred.Username, cred.CompanyID); err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{
		Status:    http.StatusOK,
		SessionID: id,
		Message:   "Login successful",
	}, nil
}

func (s *LoginService) sessionID(cred hotels.Credential) string {
	s.mu.Lock()
	nonce := 1000 + s.rnd.IntN(9000)
	s.mu.Unlock()

	seed := fmt.Sprintf("%s:%s:%s:%d%d", cred.Username, cred.Password, cred.CompanyID, s.now().Unix(), nonce)
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}
