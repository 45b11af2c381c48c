// Package winreg is a read-only view of HKEY_LOCAL_MACHINE. On Windows it is
// backed by golang.org/x/sys/windows/registry using the 64-bit registry view,
// so WOW6432Node paths are addressed explicitly. MemStore provides the same
// behaviour in memory for tests and for hosts without a registry.
package winreg
