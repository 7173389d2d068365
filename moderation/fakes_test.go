package moderation

import (
	"context"
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"

	"modbot/model"
)

type memoryStore struct {
	mu      sync.Mutex
	rows    map[int64]model.Infraction
	nextID  int64
	failErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[int64]model.Infraction)}
}

func (m *memoryStore) Insert(_ context.Context, infraction model.Infraction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return 0, m.failErr
	}
	m.nextID++
	infraction.InfractionID = m.nextID
	m.rows[m.nextID] = infraction
	return m.nextID, nil
}

func (m *memoryStore) get(id int64) (model.Infraction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	return row, ok
}

func (m *memoryStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type recordingEnforcer struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (e *recordingEnforcer) record(call string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.calls = append(e.calls, call)
	return nil
}

func (e *recordingEnforcer) Kick(_ context.Context, guildID, userID, _ string) error {
	return e.record("kick:" + guildID + ":" + userID)
}

func (e *recordingEnforcer) Ban(_ context.Context, guildID, userID, _ string) error {
	return e.record("ban:" + guildID + ":" + userID)
}

func (e *recordingEnforcer) Mute(_ context.Context, guildID, userID, _ string) error {
	return e.record("mute:" + guildID + ":" + userID)
}

func (e *recordingEnforcer) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

var errDMsClosed = errors.New("cannot send messages to this user")

type fakeMessenger struct {
	mu   sync.Mutex
	sent map[string][]*discordgo.MessageEmbed
	err  error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{sent: make(map[string][]*discordgo.MessageEmbed)}
}

func (f *fakeMessenger) SendDirectMessage(_ context.Context, userID string, embed *discordgo.MessageEmbed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent[userID] = append(f.sent[userID], embed)
	return nil
}

func (f *fakeMessenger) count(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent[userID])
}

type fakeReporter struct {
	mu       sync.Mutex
	reported []model.Infraction
}

func (f *fakeReporter) ReportInfraction(_ context.Context, infraction model.Infraction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reported = append(f.reported, infraction)
}
