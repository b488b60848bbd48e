package model

// Package model defines data structures shared across the shell: the startup
// parameters handed to the web extension and the lifecycle states of a
// download as the UI sees them.
