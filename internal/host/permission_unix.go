//go:build unix

package host

import (
	"io/fs"
	"os"
	"syscall"
)

const (
	ownerExecutePermissionConstant = fs.FileMode(0o100)
	groupExecutePermissionConstant = fs.FileMode(0o010)
	otherExecutePermissionConstant = fs.FileMode(0o001)
	superuserIdentifierConstant    = 0
)

// callerExecuteMask selects the execute bit that applies to the running process for the described file.
// Descriptions without ownership data fall back to accepting any execute bit.
func callerExecuteMask(info fs.FileInfo) fs.FileMode {
	status, statusAvailable := info.Sys().(*syscall.Stat_t)
	if !statusAvailable || status == nil {
		return executablePermissionMaskConstant
	}

	effectiveUserIdentifier := os.Geteuid()
	if effectiveUserIdentifier == superuserIdentifierConstant {
		return executablePermissionMaskConstant
	}
	if uint64(status.Uid) == uint64(effectiveUserIdentifier) {
		return ownerExecutePermissionConstant
	}
	if callerBelongsToGroup(uint64(status.Gid)) {
		return groupExecutePermissionConstant
	}
	return otherExecutePermissionConstant
}

func callerBelongsToGroup(groupIdentifier uint64) bool {
	if uint64(os.Getegid()) == groupIdentifier {
		return true
	}
	supplementaryGroups, groupsError := os.Getgroups()
	if groupsError != nil {
		return false
	}
	for _, supplementaryGroup := range supplementaryGroups {
		if uint64(supplementaryGroup) == groupIdentifier {
			return true
		}
	}
	return false
}
