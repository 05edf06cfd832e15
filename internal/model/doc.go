package model

// Package model defines domain data structures shared by the client: workflow
// states, media metadata returned by the backend, cookie entries, push events,
// local save tasks and history entries. Structures are designed for direct
// binding in the views and explicit state transitions.
