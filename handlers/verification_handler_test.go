package handlers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"modbot/tasks/verification"
	"modbot/utils"
)

func TestVerifyErrorReply(t *testing.T) {
	closed := fmt.Errorf("failed to open private channel with user u: %w", utils.ErrDirectMessagesClosed)
	assert.Contains(t, verifyErrorReply(closed), "Allow direct messages")
	assert.Equal(t, "The bot is shutting down.", verifyErrorReply(verification.ErrClosed))
	assert.Equal(t, "Could not start the verification, please try again later.", verifyErrorReply(fmt.Errorf("boom")))
}
