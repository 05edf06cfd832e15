// Package ui contains the Fyne-based desktop user interface for the client.
// It renders the analyze/download workflow, the cookie section, the account
// and contact forms, the admin panel, saved files and history. Every view
// method is safe to call from worker goroutines; updates are marshalled onto
// the Fyne main goroutine with fyne.Do.
package ui
