// Package version holds the compiler version string.
package version

// Version is the compiler version, overridable at link time with
// -ldflags "-X pasclang/internal/version.Version=...".
var Version = "0.3.0"
