// Package helper resolves and runs regsvr32.exe, the system tool that
// performs COM registration. Each variant has its own helper binary: the
// native one in System32 for 64-bit components and the WOW64 one in SysWOW64
// for 32-bit components. Runs block until the helper exits and never poll.
package helper
