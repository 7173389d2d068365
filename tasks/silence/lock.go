package silence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

var (
	ErrAlreadyLocked = errors.New("channel is already silenced")
	ErrNotLocked     = errors.New("channel is not silenced")
	ErrClosed        = errors.New("silence locker is closed")
)

const defaultReleaseTimeout = 10 * time.Second

// Restrictor applies and clears the posting restriction on a channel.
type Restrictor interface {
	Restrict(ctx context.Context, channelID string) error
	Unrestrict(ctx context.Context, channelID string) error
}

// Entry describes one silenced channel.
type Entry struct {
	ChannelID   string
	ModeratorID string
	AcquiredAt  time.Time
	ExpiresAt   time.Time
}

type entryState int

const (
	// arming: the restriction is still being applied.
	arming entryState = iota
	armed
	// releasing: the restriction is being cleared. The entry stays in the
	// map until Unrestrict returns so a new silence cannot interleave.
	releasing
)

type lockEntry struct {
	Entry
	state entryState
	timer *time.Timer
}

// ExpireFunc is called after a timer lifted a silence. err is the result of
// clearing the restriction.
type ExpireFunc func(entry Entry, err error)

// Locker tracks silenced channels and lifts them when their time is up.
// All map access goes through mu; calls to the Restrictor never hold it.
type Locker struct {
	mu         sync.Mutex
	entries    map[string]*lockEntry
	restrictor Restrictor
	closed     bool

	now            func() time.Time
	onExpire       ExpireFunc
	releaseTimeout time.Duration
}

type Option func(*Locker)

// WithClock replaces time.Now for AcquiredAt and timer scheduling.
func WithClock(now func() time.Time) Option {
	return func(l *Locker) {
		l.now = now
	}
}

// WithExpireFunc registers a callback for timer driven releases.
func WithExpireFunc(fn ExpireFunc) Option {
	return func(l *Locker) {
		l.onExpire = fn
	}
}

// WithReleaseTimeout bounds the Unrestrict call made by an expiring timer.
func WithReleaseTimeout(d time.Duration) Option {
	return func(l *Locker) {
		l.releaseTimeout = d
	}
}

func NewLocker(restrictor Restrictor, opts ...Option) *Locker {
	l := &Locker{
		entries:        make(map[string]*lockEntry),
		restrictor:     restrictor,
		now:            time.Now,
		releaseTimeout: defaultReleaseTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire silences channelID until the given time. It fails with
// ErrAlreadyLocked while the channel is being silenced, is silenced, or is
// still being unsilenced.
func (l *Locker) Acquire(ctx context.Context, channelID string, until time.Time, moderatorID string) (Entry, error) {
	now := l.now()
	e := &lockEntry{
		Entry: Entry{
			ChannelID:   channelID,
			ModeratorID: moderatorID,
			AcquiredAt:  now,
			ExpiresAt:   until,
		},
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return Entry{}, ErrClosed
	}
	if _, ok := l.entries[channelID]; ok {
		l.mu.Unlock()
		return Entry{}, ErrAlreadyLocked
	}
	l.entries[channelID] = e
	l.mu.Unlock()

	if err := l.restrictor.Restrict(ctx, channelID); err != nil {
		l.mu.Lock()
		if l.entries[channelID] == e {
			delete(l.entries, channelID)
		}
		l.mu.Unlock()
		return Entry{}, fmt.Errorf("failed to restrict channel %s: %w", channelID, err)
	}

	l.mu.Lock()
	if l.entries[channelID] != e {
		// Close ran while the restriction was applied.
		l.mu.Unlock()
		if err := l.restrictor.Unrestrict(ctx, channelID); err != nil {
			slog.Error("Failed to clear channel restriction", "channel_id", channelID, "error", err)
		}
		return Entry{}, ErrClosed
	}
	e.state = armed
	e.timer = time.AfterFunc(until.Sub(now), func() {
		l.expire(e)
	})
	l.mu.Unlock()

	slog.Info("Channel silenced", "channel_id", channelID, "moderator_id", moderatorID, "expires_at", until)
	return e.Entry, nil
}

// Release lifts a silence before its timer fires. A second Release for the
// same channel returns ErrNotLocked without touching the channel again.
func (l *Locker) Release(ctx context.Context, channelID, moderatorID string) (Entry, error) {
	l.mu.Lock()
	e, ok := l.entries[channelID]
	if !ok || e.state != armed {
		l.mu.Unlock()
		return Entry{}, ErrNotLocked
	}
	l.beginRelease(e)
	l.mu.Unlock()

	err := l.restrictor.Unrestrict(ctx, channelID)
	l.finishRelease(e)
	if err != nil {
		slog.Error("Failed to clear channel restriction", "channel_id", channelID, "moderator_id", moderatorID, "error", err)
		return e.Entry, fmt.Errorf("failed to unrestrict channel %s: %w", channelID, err)
	}
	slog.Info("Channel unsilenced", "channel_id", channelID, "moderator_id", moderatorID)
	return e.Entry, nil
}

// beginRelease marks e as releasing and stops its timer. mu must be held.
func (l *Locker) beginRelease(e *lockEntry) {
	e.state = releasing
	if e.timer != nil {
		e.timer.Stop()
	}
}

// finishRelease drops e from the map once its restriction has been cleared.
func (l *Locker) finishRelease(e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.entries[e.ChannelID] == e {
		delete(l.entries, e.ChannelID)
	}
}

func (l *Locker) expire(e *lockEntry) {
	l.mu.Lock()
	// The entry may have been released, or released and silenced again.
	if l.entries[e.ChannelID] != e || e.state != armed {
		l.mu.Unlock()
		return
	}
	l.beginRelease(e)
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), l.releaseTimeout)
	defer cancel()

	err := l.restrictor.Unrestrict(ctx, e.ChannelID)
	l.finishRelease(e)
	if err != nil {
		slog.Error("Failed to lift expired silence", "channel_id", e.ChannelID, "error", err)
	} else {
		slog.Info("Silence expired", "channel_id", e.ChannelID)
	}
	if l.onExpire != nil {
		l.onExpire(e.Entry, err)
	}
}

// IsLocked reports whether channelID is currently silenced.
func (l *Locker) IsLocked(channelID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[channelID]
	return ok && e.state == armed
}

// Active returns the silenced channels ordered by expiry.
func (l *Locker) Active() []Entry {
	l.mu.Lock()
	active := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if e.state == armed {
			active = append(active, e.Entry)
		}
	}
	l.mu.Unlock()

	sort.Slice(active, func(i, j int) bool {
		return active[i].ExpiresAt.Before(active[j].ExpiresAt)
	})
	return active
}

// Len returns the number of silenced channels.
func (l *Locker) Len() int {
	return len(l.Active())
}

// Close stops all timers and lifts every active silence so no channel stays
// restricted after shutdown. Errors are joined.
func (l *Locker) Close(ctx context.Context) error {
	l.mu.Lock()
	l.closed = true
	var pending []*lockEntry
	for channelID, e := range l.entries {
		switch e.state {
		case arming:
			// Acquire notices the missing entry and clears its own restriction.
			delete(l.entries, channelID)
		case armed:
			l.beginRelease(e)
			pending = append(pending, e)
		}
	}
	l.mu.Unlock()

	var errs []error
	for _, e := range pending {
		err := l.restrictor.Unrestrict(ctx, e.ChannelID)
		l.finishRelease(e)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to unrestrict channel %s: %w", e.ChannelID, err))
		}
	}
	return errors.Join(errs...)
}
