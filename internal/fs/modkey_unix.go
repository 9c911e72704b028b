//go:build darwin || freebsd || linux

package fs

import (
	"time"

	"golang.org/x/sys/unix"
)

func modKey(path string) (ModKey, error) {
	stat := unix.Stat_t{}
	if err := unix.Stat(path, &stat); err != nil {
		return ModKey{}, err
	}

	// Some file systems always report a zero modification time
	if stat.Mtim.Sec == 0 && stat.Mtim.Nsec == 0 {
		return ModKey{}, modKeyUnusable
	}

	now, err := unix.TimeToTimespec(time.Now())
	if err != nil {
		return ModKey{}, err
	}
	if mtimeSec := stat.Mtim.Sec + modKeySafetyGap; mtimeSec > now.Sec || (mtimeSec == now.Sec && stat.Mtim.Nsec > now.Nsec) {
		return ModKey{}, modKeyUnusable
	}

	return ModKey{
		inode:     uint64(stat.Ino),
		size:      stat.Size,
		mtimeSec:  int64(stat.Mtim.Sec),
		mtimeNsec: int64(stat.Mtim.Nsec),
		mode:      uint32(stat.Mode),
		uid:       stat.Uid,
	}, nil
}
