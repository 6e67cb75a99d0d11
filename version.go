package pmmif

// SpecVersion is the PMMIF format version this package reads and writes.
const SpecVersion = "0.1"

// libraryVersion tracks the release of this implementation, independently of
// the format version. The packaging pipeline reads it via Version().
const libraryVersion = "0.1.0"

// Version returns the version of this library.
func Version() string { return libraryVersion }

// SupportedVersion reports whether v names a format version this package can
// handle.
func SupportedVersion(v string) bool { return v == SpecVersion }
