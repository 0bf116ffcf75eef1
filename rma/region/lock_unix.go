//go:build unix

package region

import (
	"errors"

	"golang.org/x/sys/unix"
)

func flock(fd int) error {
	for {
		err := unix.Flock(fd, unix.LOCK_EX)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}

func tryFlock(fd int) (bool, error) {
	err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
	if errors.Is(err, unix.EWOULDBLOCK) {
		return false, nil
	}
	return err == nil, err
}

func funlock(fd int) error {
	return unix.Flock(fd, unix.LOCK_UN)
}
