package version

import (
	"github.com/earthboundkid/versioninfo/v2"
)

// GetVersion returns the short build version (tag, or revision when untagged)
func GetVersion() string {
	return versioninfo.Short()
}

// GetFullVersion returns version with commit info
func GetFullVersion() string {
	ver := versioninfo.Version
	rev := versioninfo.Revision
	if len(rev) > 7 {
		rev = rev[:7]
	}

	if rev == "" || rev == "unknown" {
		return ver
	}
	if versioninfo.DirtyBuild {
		rev += "-dirty"
	}
	return ver + " (commit: " + rev + ")"
}
