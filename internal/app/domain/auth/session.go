package auth

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/pkg/cache"
)

// SessionState is the authentication state of the current session. The state
// starts Unknown and settles to Authenticated or Unauthenticated after the
// first check; it never returns to Unknown.
type SessionState string

const (
	StateUnknown         SessionState = "unknown"
	StateAuthenticated   SessionState = "authenticated"
	StateUnauthenticated SessionState = "unauthenticated"
)

// Session describes the signed-in user.
type Session struct {
	UserID   string
	Email    string
	Username string
}

// StateListener receives every session state transition.
type StateListener func(state SessionState, session *Session)

// SessionContext tracks session state for a client connection scope. After
// Initialize, state change notifications are the single source of truth;
// consumers subscribe rather than re-checking tokens. Concurrent sign-ins are
// not queued or cancelled; the last transition wins.
type SessionContext struct {
	logger *zap.Logger
	svc    AuthService
	caches *cache.Manager

	mu        sync.RWMutex
	state     SessionState
	session   *Session
	listeners map[int]StateListener
	nextID    int
}

func NewSessionContext(svc AuthService, caches *cache.Manager, logger *zap.Logger) *SessionContext {
	return &SessionContext{
		logger:    logger,
		svc:       svc,
		caches:    caches,
		state:     StateUnknown,
		listeners: make(map[int]StateListener),
	}
}

// State returns the current state and session snapshot.
func (sc *SessionContext) State() (SessionState, *Session) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.state, sc.session
}

// OnAuthStateChange registers a listener for state transitions and returns an
// unsubscribe function. The listener is not called with the current state;
// only transitions after registration are delivered.
func (sc *SessionContext) OnAuthStateChange(listener StateListener) func() {
	sc.mu.Lock()
	id := sc.nextID
	sc.nextID++
	sc.listeners[id] = listener
	sc.mu.Unlock()

	return func() {
		sc.mu.Lock()
		delete(sc.listeners, id)
		sc.mu.Unlock()
	}
}

// Initialize performs the one-time session check that moves the state out of
// Unknown. An empty or invalid token settles to Unauthenticated; a valid one
// to Authenticated.
func (sc *SessionContext) Initialize(ctx context.Context, accessToken string) {
	if accessToken == "" {
		sc.transition(StateUnauthenticated, nil)
		return
	}

	claims, err := sc.svc.ValidateToken(accessToken)
	if err != nil {
		sc.logger.Debug("session token invalid during initialization", zap.Error(err))
		sc.transition(StateUnauthenticated, nil)
		return
	}

	sc.transition(StateAuthenticated, &Session{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
	})
}

// SignIn authenticates and transitions to Authenticated on success. On
// failure the state settles to Unauthenticated rather than staying Unknown.
func (sc *SessionContext) SignIn(ctx context.Context, email, password string) (accessToken, refreshToken string, err error) {
	accessToken, refreshToken, err = sc.svc.Login(ctx, email, password)
	if err != nil {
		sc.transition(StateUnauthenticated, nil)
		return "", "", err
	}

	claims, err := sc.svc.ValidateToken(accessToken)
	if err != nil {
		sc.transition(StateUnauthenticated, nil)
		return "", "", err
	}

	sc.transition(StateAuthenticated, &Session{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
	})
	return accessToken, refreshToken, nil
}

// SignOut invalidates the refresh token, clears the session-scoped caches and
// transitions to Unauthenticated. The catalog caches survive; only data that
// could differ per session is dropped.
func (sc *SessionContext) SignOut(ctx context.Context, refreshToken string) error {
	err := sc.svc.Logout(ctx, refreshToken)
	if err != nil {
		sc.logger.Warn("logout failed, clearing local session anyway", zap.Error(err))
	}

	if sc.caches != nil {
		sc.caches.ResetSessionScoped()
	}
	sc.transition(StateUnauthenticated, nil)
	return err
}

func (sc *SessionContext) transition(state SessionState, session *Session) {
	sc.mu.Lock()
	sc.state = state
	sc.session = session
	notify := make([]StateListener, 0, len(sc.listeners))
	for _, l := range sc.listeners {
		notify = append(notify, l)
	}
	sc.mu.Unlock()

	for _, l := range notify {
		l(state, session)
	}
}
