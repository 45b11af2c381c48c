// Package component defines the data model shared by registry inspection and
// helper invocation: architecture variants, transition directions, derived
// registration records, transition requests and their outcomes, and the error
// kinds surfaced to the user.
package component
