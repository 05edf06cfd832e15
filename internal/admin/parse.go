package admin

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Class names and attributes used by the admin templates
const (
	classUserRow     = "user-row"
	classUserName    = "user-name"
	classMessageItem = "message-item"
	classMarkRead    = "mark-read"
	classMarkUnread  = "mark-unread"
	classReplyBtn    = "reply-btn"
	attrStatus       = "data-status"
	attrMessageID    = "data-message-id"
	attrEmail        = "data-email"
	attrName         = "data-name"
)

// ParseUsers extracts the rows of the admin user table: the username from the
// .user-name cell and the email from the second cell of each .user-row.
func ParseUsers(r io.Reader) ([]UserRow, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse users page: %w", err)
	}
	var rows []UserRow
	walk(doc, func(n *html.Node) bool {
		if !hasClass(n, classUserRow) {
			return true
		}
		row := UserRow{}
		if name := findFirst(n, func(c *html.Node) bool { return hasClass(c, classUserName) }); name != nil {
			row.Username = text(name)
		}
		if td := nthChildElement(n, "td", 2); td != nil {
			row.Email = text(td)
		}
		rows = append(rows, row)
		return false
	})
	return rows, nil
}

// ParseMessages extracts the inbox items with their status, id and sender
func ParseMessages(r io.Reader) ([]Message, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse inbox page: %w", err)
	}
	var msgs []Message
	walk(doc, func(n *html.Node) bool {
		if !hasClass(n, classMessageItem) {
			return true
		}
		m := Message{
			Status: attr(n, attrStatus),
			ID:     attr(n, attrMessageID),
		}
		if body := findFirst(n, func(c *html.Node) bool { return c.Data == "p" }); body != nil {
			m.Preview = text(body)
		}
		if m.ID == "" {
			if btn := findFirst(n, func(c *html.Node) bool {
				return hasClass(c, classMarkRead) || hasClass(c, classMarkUnread)
			}); btn != nil {
				m.ID = attr(btn, attrMessageID)
			}
		}
		if btn := findFirst(n, func(c *html.Node) bool { return hasClass(c, classReplyBtn) }); btn != nil {
			m.Email = attr(btn, attrEmail)
			m.Name = attr(btn, attrName)
		}
		msgs = append(msgs, m)
		return false
	})
	return msgs, nil
}

// walk visits n depth-first; returning false skips the node's children
func walk(n *html.Node, visit func(*html.Node) bool) {
	if n.Type == html.ElementNode && !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// nthChildElement returns the nth (1-based) child element of n, which must
// have the given tag.
func nthChildElement(n *html.Node, tag string, nth int) *html.Node {
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		i++
		if i == nth {
			if c.Data == tag {
				return c
			}
			return nil
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// text returns the whitespace-collapsed text content of n
func text(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
