package extension

// Package extension bootstraps the web extension that runs inside each
// rendering process. Initialize reads the startup parameters handed over by
// the UI process, prepares file helpers and settings, and binds a single
// Extension to the host process and the UI process D-Bus endpoint.
