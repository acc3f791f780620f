//go:build windows

package repl

import "errors"

type rawState struct{}

func enterRawMode() (*rawState, error) {
	return nil, errors.New("raw mode is not supported on windows; using buffered input")
}

func (s *rawState) restore() {}
