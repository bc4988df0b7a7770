package frametap

import "fmt"

// Library version.
const (
	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0
)

// Version returns the library version packed as
// (major << 16) | (minor << 8) | patch.
func Version() uint32 {
	return VersionMajor<<16 | VersionMinor<<8 | VersionPatch
}

// VersionString returns the version as "major.minor.patch".
func VersionString() string {
	return fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}
