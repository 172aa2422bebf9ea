//go:build !unix

package host

import "io/fs"

func callerExecuteMask(info fs.FileInfo) fs.FileMode {
	return executablePermissionMaskConstant
}
