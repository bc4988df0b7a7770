package frametap

import (
	"os"
	"path/filepath"
	"strings"
)

// nvidiaPCIVendorID as reported by the kernel in sysfs.
const nvidiaPCIVendorID = "0x10de"

// IsNvidiaGPU reports whether an NVIDIA GPU is present on this machine.
// It checks the proprietary driver's proc node first, then falls back to
// scanning DRM device vendor IDs in sysfs. Contextless and best-effort:
// on platforms without these filesystems it returns false.
func IsNvidiaGPU() bool {
	if _, err := os.Stat("/proc/driver/nvidia/version"); err == nil {
		return true
	}

	cards, err := filepath.Glob("/sys/class/drm/card*/device/vendor")
	if err != nil {
		return false
	}
	for _, path := range cards {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(data)) == nvidiaPCIVendorID {
			return true
		}
	}
	return false
}
