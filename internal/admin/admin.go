// Package admin holds the admin panel helpers: local filtering of the user
// table and inbox, the read/unread toggle and reply prefill, and reloading
// both lists from the server-rendered admin pages.
package admin

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ytget/eliot-client/internal/api"
)

// Inbox filter values
const (
	FilterAll    = "all"
	FilterRead   = api.StatusRead
	FilterUnread = api.StatusUnread
)

// ReplySubjectPrefix starts every reply subject
const ReplySubjectPrefix = "Re: Message from "

// UserRow is one row of the user table
type UserRow struct {
	Username string
	Email    string
}

// Message is one inbox item
type Message struct {
	ID      string
	Status  string
	Name    string
	Email   string
	Preview string
}

// IsRead reports whether the message is marked read
func (m Message) IsRead() bool {
	return m.Status == api.StatusRead
}

// Reply is the prefilled reply form
type Reply struct {
	To      string
	Subject string
}

// ReplyFor prefills a reply to the sender of a message
func ReplyFor(email, name string) Reply {
	return Reply{To: email, Subject: ReplySubjectPrefix + name}
}

// MatchUser reports whether the row matches the search term. Matching is a
// case-insensitive substring test over username and email.
func MatchUser(row UserRow, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(row.Username), term) ||
		strings.Contains(strings.ToLower(row.Email), term)
}

// FilterUsers returns the rows matching term, in order
func FilterUsers(rows []UserRow, term string) []UserRow {
	out := make([]UserRow, 0, len(rows))
	for _, r := range rows {
		if MatchUser(r, term) {
			out = append(out, r)
		}
	}
	return out
}

// MatchStatus reports whether a message passes the inbox filter
func MatchStatus(m Message, filter string) bool {
	return filter == FilterAll || m.Status == filter
}

// FilterMessages returns the messages passing filter, in order
func FilterMessages(msgs []Message, filter string) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if MatchStatus(m, filter) {
			out = append(out, m)
		}
	}
	return out
}

// View renders the admin panel lists
type View interface {
	RenderUsers(rows []UserRow)
	RenderMessages(msgs []Message)
}

// Backend is the subset of the HTTP client used by the admin panel
type Backend interface {
	SetMessageStatus(ctx context.Context, messageID, status string) error
	FetchPage(ctx context.Context, path string) ([]byte, error)
}

// Panel keeps the last loaded lists and the active filters
type Panel struct {
	backend Backend
	view    View

	mu       sync.Mutex
	users    []UserRow
	messages []Message
	search   string
	filter   string
}

// NewPanel creates an admin panel
func NewPanel(backend Backend, view View) *Panel {
	return &Panel{backend: backend, view: view, filter: FilterAll}
}

// Search filters the user table by term
func (p *Panel) Search(term string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.search = term
	p.view.RenderUsers(FilterUsers(p.users, term))
}

// SetFilter filters the inbox by status
func (p *Panel) SetFilter(filter string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filter = filter
	p.view.RenderMessages(FilterMessages(p.messages, filter))
}

// Filter returns the active inbox filter
func (p *Panel) Filter() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

// ToggleStatus marks a message read or unread and reloads the panel when the
// server accepts. Failures are logged only.
func (p *Panel) ToggleStatus(ctx context.Context, messageID string, markRead bool) error {
	status := api.StatusUnread
	if markRead {
		status = api.StatusRead
	}
	if err := p.backend.SetMessageStatus(ctx, messageID, status); err != nil {
		log.Error().Err(err).Str("message_id", messageID).Msg("[admin] error updating message status")
		return err
	}
	return p.Reload(ctx)
}

// Reload fetches the user and inbox pages again and re-renders both lists
// with the active filters.
func (p *Panel) Reload(ctx context.Context) error {
	usersPage, err := p.backend.FetchPage(ctx, api.PathAdminUsers)
	if err != nil {
		log.Error().Err(err).Msg("[admin] reload users")
		return err
	}
	inboxPage, err := p.backend.FetchPage(ctx, api.PathAdminInbox)
	if err != nil {
		log.Error().Err(err).Msg("[admin] reload inbox")
		return err
	}
	users, err := ParseUsers(bytes.NewReader(usersPage))
	if err != nil {
		return err
	}
	msgs, err := ParseMessages(bytes.NewReader(inboxPage))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.users = users
	p.messages = msgs
	p.view.RenderUsers(FilterUsers(users, p.search))
	p.view.RenderMessages(FilterMessages(msgs, p.filter))
	log.Debug().Int("users", len(users)).Int("messages", len(msgs)).Msg("[admin] reloaded")
	return nil
}
