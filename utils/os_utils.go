package utils

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

func WaitTerminate() <-chan os.Signal {
	c := make(chan os.Signal, 3)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	return c
}

// RedirectFile points fd `from` at the file behind `to`. Dup3 is used since
// dup2 is missing on some linux archs (arm64).
func RedirectFile(from, to *os.File) {
	if err := unix.Dup3(int(to.Fd()), int(from.Fd()), 0); err != nil {
		LogFatal("failed to redirect %v to %v: %v", from.Name(), to.Name(), err)
	}
}
