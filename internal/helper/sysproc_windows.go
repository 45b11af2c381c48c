//go:build windows

package helper

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// hideWindow keeps the helper's console hidden and hands it the exact quoted
// command line.
func hideWindow(cmd *exec.Cmd, inv Invocation) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
		CmdLine:       inv.CommandLine(),
	}
}
