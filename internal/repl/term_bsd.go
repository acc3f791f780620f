//go:build darwin || freebsd || openbsd || netbsd

package repl

import "syscall"

var (
	termiosGet = uintptr(syscall.TIOCGETA)
	termiosSet = uintptr(syscall.TIOCSETA)
)
