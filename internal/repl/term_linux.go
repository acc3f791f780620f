//go:build linux

package repl

import "syscall"

var (
	termiosGet = uintptr(syscall.TCGETS)
	termiosSet = uintptr(syscall.TCSETS)
)
