package main

import (
	"os"

	"golang.org/x/sys/unix"
)

const (
	getTermios = unix.TCGETS
	setTermios = unix.TCSETS
)

func tcget(fd uintptr) (*unix.Termios, error) {
	return unix.IoctlGetTermios(int(fd), getTermios)
}

func tcset(fd uintptr, p *unix.Termios) error {
	return unix.IoctlSetTermios(int(fd), setTermios, p)
}

// enableRawConsole puts stdin into character-at-a-time, unechoed mode
// for the duration of a run, so TRAP-driven console I/O sees keys as
// they're typed rather than after a line is buffered by the tty
// driver. It returns a func that restores the prior mode; on any
// ioctl failure (stdin isn't a terminal, e.g. under a test harness or
// when piped) it's a no-op.
func enableRawConsole() func() {
	fd := os.Stdin.Fd()
	saved, err := tcget(fd)
	if err != nil {
		return func() {}
	}

	raw := *saved
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := tcset(fd, &raw); err != nil {
		return func() {}
	}

	return func() {
		tcset(fd, saved)
	}
}
