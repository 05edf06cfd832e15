package platform

// Package platform contains OS/platform integration: filesystem helpers for
// saved downloads, OS open/reveal, and classification of media hosts that need
// a logged-in session.
