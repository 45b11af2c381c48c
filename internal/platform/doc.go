// Package platform answers host questions the registration flow depends on:
// whether the process runs elevated, whether the host is a 64-bit system, and
// whether candidate files exist. Windows answers come from
// golang.org/x/sys/windows; other hosts get portable approximations so the
// CLI still builds and its diagnostics still run there.
package platform
