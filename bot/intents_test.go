package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"modbot/model"
)

func TestGatewayIntents(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      model.Config
		expected discordgo.Intent
	}{
		{
			name:     "moderation only",
			expected: discordgo.IntentsGuilds,
		},
		{
			name:     "member log",
			cfg:      model.Config{MemberLogChannelID: "1"},
			expected: discordgo.IntentsGuilds | discordgo.IntentsGuildMembers,
		},
		{
			name:     "message filter",
			cfg:      model.Config{Filter: model.FilterConfig{AllowedExtensions: []string{".png"}}},
			expected: discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent,
		},
		{
			name: "verification",
			cfg:  model.Config{Verification: model.VerificationConfig{Enabled: true}},
			expected: discordgo.IntentsGuilds | discordgo.IntentsGuildMembers |
				discordgo.IntentsDirectMessages,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GatewayIntents(&tc.cfg))
		})
	}
}
