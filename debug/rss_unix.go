//go:build unix

package debug

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// residentSetSize returns the peak resident set size of the current process.
// getrusage has no current-RSS field, the peak is close enough to spot growth.
func residentSetSize() (uint64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}
	rss := uint64(ru.Maxrss)
	if runtime.GOOS != "darwin" {
		rss *= 1024 // kilobytes everywhere but darwin
	}
	return rss, nil
}
