package platform

// Package platform contains OS integration glue: file helpers for the profile
// data directory, sandbox detection, open/reveal in the desktop environment,
// and content-type icon naming.
