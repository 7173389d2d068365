package verification

import (
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	ErrNoChallenge = errors.New("no pending verification")
	ErrClosed      = errors.New("verifier is closed")
)

// Challenge is a captcha a member has to solve before the human role is
// granted.
type Challenge struct {
	GuildID   string
	UserID    string
	Answer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type pendingChallenge struct {
	Challenge
	timer *time.Timer
}

// TimeoutFunc is called when a challenge expires unanswered.
type TimeoutFunc func(Challenge)

// Verifier tracks one pending challenge per user. Answers arrive in direct
// messages, which carry no guild, so a new challenge replaces the previous
// one.
type Verifier struct {
	mu      sync.Mutex
	pending map[string]*pendingChallenge
	timeout time.Duration
	closed  bool

	now       func() time.Time
	onTimeout TimeoutFunc
}

type Option func(*Verifier)

func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		v.now = now
	}
}

func WithTimeoutFunc(fn TimeoutFunc) Option {
	return func(v *Verifier) {
		v.onTimeout = fn
	}
}

func NewVerifier(timeout time.Duration, opts ...Option) *Verifier {
	v := &Verifier{
		pending: make(map[string]*pendingChallenge),
		timeout: timeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Begin starts a challenge for userID, replacing any pending one.
func (v *Verifier) Begin(guildID, userID, answer string) (Challenge, error) {
	now := v.now()
	p := &pendingChallenge{Challenge: Challenge{
		GuildID:   guildID,
		UserID:    userID,
		Answer:    answer,
		IssuedAt:  now,
		ExpiresAt: now.Add(v.timeout),
	}}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return Challenge{}, ErrClosed
	}
	if old, ok := v.pending[userID]; ok {
		old.timer.Stop()
	}
	v.pending[userID] = p
	p.timer = time.AfterFunc(v.timeout, func() { v.expire(p) })
	return p.Challenge, nil
}

// Answer checks a reply from userID. A correct reply completes the
// challenge. A wrong one leaves it pending until it times out.
func (v *Verifier) Answer(userID, reply string) (Challenge, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.pending[userID]
	if !ok {
		return Challenge{}, false, ErrNoChallenge
	}
	if strings.TrimSpace(reply) != p.Answer {
		return p.Challenge, false, nil
	}
	p.timer.Stop()
	delete(v.pending, userID)
	return p.Challenge, true, nil
}

// Cancel drops the pending challenge of userID, if any.
func (v *Verifier) Cancel(userID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.pending[userID]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(v.pending, userID)
	return true
}

func (v *Verifier) Pending(userID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.pending[userID]
	return ok
}

func (v *Verifier) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.pending)
}

// Close stops every timer. Pending challenges are dropped without calling
// the timeout callback.
func (v *Verifier) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	for userID, p := range v.pending {
		p.timer.Stop()
		delete(v.pending, userID)
	}
}

func (v *Verifier) expire(p *pendingChallenge) {
	v.mu.Lock()
	if v.pending[p.UserID] != p {
		v.mu.Unlock()
		return
	}
	delete(v.pending, p.UserID)
	v.mu.Unlock()

	if v.onTimeout != nil {
		v.onTimeout(p.Challenge)
	}
}
