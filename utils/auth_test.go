package utils

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestCheckPermission(t *testing.T) {
	staff := []string{"staff-role"}

	testCases := []struct {
		name       string
		member     *discordgo.Member
		permission int64
		expected   bool
	}{
		{name: "nil member", member: nil, permission: discordgo.PermissionBanMembers, expected: false},
		{
			name:       "has permission bit",
			member:     &discordgo.Member{Permissions: discordgo.PermissionBanMembers},
			permission: discordgo.PermissionBanMembers,
			expected:   true,
		},
		{
			name:       "missing permission bit",
			member:     &discordgo.Member{Permissions: discordgo.PermissionKickMembers},
			permission: discordgo.PermissionBanMembers,
			expected:   false,
		},
		{
			name:       "administrator",
			member:     &discordgo.Member{Permissions: discordgo.PermissionAdministrator},
			permission: discordgo.PermissionBanMembers,
			expected:   true,
		},
		{
			name:       "staff role",
			member:     &discordgo.Member{Roles: []string{"other", "staff-role"}},
			permission: discordgo.PermissionKickMembers,
			expected:   true,
		},
		{
			name:       "staff only command",
			member:     &discordgo.Member{Permissions: discordgo.PermissionKickMembers},
			permission: 0,
			expected:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CheckPermission(tc.member, tc.permission, staff))
		})
	}
}
