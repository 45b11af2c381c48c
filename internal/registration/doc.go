// Package registration inspects and changes the COM registration of a
// component's 32-bit and 64-bit builds.
//
// Inspector reads registration state from the registry without side effects.
// Transitioner performs one register or unregister for one variant by running
// the matching regsvr32.exe and classifying its result. Session holds the
// "include 32 bit" toggle and orchestrates the two: it checks preconditions,
// decides which variants take part, runs transitions one after another, and
// re-reads the registry to report the final state.
package registration
