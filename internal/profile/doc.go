// Package profile describes the component being registered: its CLSIDs per
// variant, where the 32-bit and 64-bit DLLs live relative to the artifact
// directory, and display text. Profiles are YAML documents validated against
// an embedded JSON schema. A built-in profile for virtual-audio-device is
// used when none is supplied.
package profile
