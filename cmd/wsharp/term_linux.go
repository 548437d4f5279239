//go:build linux

package main

import (
	"fortio.org/safecast"
	"golang.org/x/sys/unix"
)

func isTerminal(fd uintptr) bool {
	n, err := safecast.Conv[int](fd)
	if err != nil {
		return false
	}
	_, err = unix.IoctlGetTermios(n, unix.TCGETS)
	return err == nil
}
