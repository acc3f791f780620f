//go:build !windows
// +build !windows

package repl

import (
	"os"
	"syscall"
	"unsafe"
)

// rawState holds the termios settings to restore on exit from raw mode.
type rawState struct {
	termios syscall.Termios
}

func enterRawMode() (*rawState, error) {
	fd := os.Stdin.Fd()

	var old syscall.Termios
	if _, _, errno := syscall.Syscall6(
		syscall.SYS_IOCTL, fd, uintptr(termiosGet), uintptr(unsafe.Pointer(&old)), 0, 0, 0,
	); errno != 0 {
		return nil, errno
	}

	raw := old
	raw.Lflag &^= syscall.ECHO | syscall.ICANON | syscall.ISIG
	raw.Iflag &^= syscall.IXON | syscall.ICRNL
	raw.Cc[syscall.VMIN] = 1
	raw.Cc[syscall.VTIME] = 0

	if _, _, errno := syscall.Syscall6(
		syscall.SYS_IOCTL, fd, uintptr(termiosSet), uintptr(unsafe.Pointer(&raw)), 0, 0, 0,
	); errno != 0 {
		return nil, errno
	}
	return &rawState{termios: old}, nil
}

func (s *rawState) restore() {
	fd := os.Stdin.Fd()
	syscall.Syscall6(
		syscall.SYS_IOCTL, fd, uintptr(termiosSet), uintptr(unsafe.Pointer(&s.termios)), 0, 0, 0,
	)
}
