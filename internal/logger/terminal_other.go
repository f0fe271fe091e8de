//go:build !linux && !windows && !darwin && !freebsd && !netbsd && !openbsd

package logger

func isTerminal(uintptr) bool {
	return false
}
