package utils

import (
	"slices"

	"github.com/bwmarrin/discordgo"
)

// IsStaff reports whether member holds one of the staff roles.
func IsStaff(member *discordgo.Member, staffRoleIDs []string) bool {
	if member == nil {
		return false
	}
	for _, roleID := range member.Roles {
		if slices.Contains(staffRoleIDs, roleID) {
			return true
		}
	}
	return false
}

// CheckPermission reports whether member may run a command that needs the
// given permission bit. Administrators and staff always pass.
func CheckPermission(member *discordgo.Member, permission int64, staffRoleIDs []string) bool {
	if member == nil {
		return false
	}
	if member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	if permission != 0 && member.Permissions&permission == permission {
		return true
	}
	return IsStaff(member, staffRoleIDs)
}
