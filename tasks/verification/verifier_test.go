package verification

import (
	"bytes"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_Answer(t *testing.T) {
	v := NewVerifier(time.Minute)
	t.Cleanup(v.Close)

	_, _, err := v.Answer("u", "123456")
	assert.ErrorIs(t, err, ErrNoChallenge)

	challenge, err := v.Begin("g", "u", "123456")
	require.NoError(t, err)
	assert.Equal(t, challenge.IssuedAt.Add(time.Minute), challenge.ExpiresAt)

	_, ok, err := v.Answer("u", "654321")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, v.Pending("u"))

	got, ok, err := v.Answer("u", " 123456\n")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "g", got.GuildID)
	assert.False(t, v.Pending("u"))
}

func TestVerifier_BeginReplacesPending(t *testing.T) {
	v := NewVerifier(time.Minute)
	t.Cleanup(v.Close)

	_, err := v.Begin("g1", "u", "1111")
	require.NoError(t, err)
	_, err = v.Begin("g2", "u", "2222")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Len())

	_, ok, err := v.Answer("u", "1111")
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := v.Answer("u", "2222")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "g2", got.GuildID)
}

func TestVerifier_Timeout(t *testing.T) {
	var (
		mu      sync.Mutex
		expired []Challenge
	)
	v := NewVerifier(20*time.Millisecond, WithTimeoutFunc(func(c Challenge) {
		mu.Lock()
		defer mu.Unlock()
		expired = append(expired, c)
	}))
	t.Cleanup(v.Close)

	_, err := v.Begin("g", "late", "1234")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(expired) == 1
	}, time.Second, 5*time.Millisecond)
	mu.Lock()
	assert.Equal(t, "late", expired[0].UserID)
	mu.Unlock()
	assert.False(t, v.Pending("late"))

	_, _, err = v.Answer("late", "1234")
	assert.ErrorIs(t, err, ErrNoChallenge)
}

func TestVerifier_ReplacedChallengeDoesNotExpire(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int
	)
	v := NewVerifier(30*time.Millisecond, WithTimeoutFunc(func(Challenge) {
		mu.Lock()
		defer mu.Unlock()
		calls++
	}))
	t.Cleanup(v.Close)

	_, err := v.Begin("g", "u", "1234")
	require.NoError(t, err)
	assert.True(t, v.Cancel("u"))
	assert.False(t, v.Cancel("u"))

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}

func TestVerifier_Close(t *testing.T) {
	v := NewVerifier(time.Minute)
	_, err := v.Begin("g", "u", "1234")
	require.NoError(t, err)

	v.Close()
	assert.Zero(t, v.Len())
	_, err = v.Begin("g", "u", "1234")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestNewCaptcha(t *testing.T) {
	var buf bytes.Buffer
	answer, err := NewCaptcha(&buf, CaptchaOptions{Length: 6, Width: 240, Height: 80})
	require.NoError(t, err)

	assert.Regexp(t, `^[0-9]{6}$`, answer)
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}
