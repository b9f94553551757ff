package main

import goisatty "github.com/mattn/go-isatty"

// isatty returns true if the given file descriptor is a terminal
func isatty(fd uintptr) bool {
	return goisatty.IsTerminal(fd) || goisatty.IsCygwinTerminal(fd)
}
