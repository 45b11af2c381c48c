//go:build !windows

package helper

import "os/exec"

func hideWindow(*exec.Cmd, Invocation) {}
