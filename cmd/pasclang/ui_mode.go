package main

import "os"

// shouldUseUI decides whether the build runs behind the progress TUI.
func shouldUseUI(mode string) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}
