package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"

	"github.com/ytget/eliot-client/internal/model"
)

// Endpoint paths
const (
	PathLogin          = "/login"
	PathRegister       = "/register"
	PathContact        = "/contact"
	PathChangePassword = "/admin/change_password"
	PathMessageStatus  = "/admin/message/%s/status"
	PathVideoInfo      = "/get_video_info"
	PathStartDownload  = "/start_download"
	PathCancelDownload = "/cancel_download/%s"
	PathDownloadFile   = "/download_file/%s"
	PathCookies        = "/get_available_cookies"
	PathUploadCookies  = "/upload_cookies"
	PathDeleteCookies  = "/delete_cookies/%s"
	PathBypassStatus   = "/bypass-status"
	PathAdminUsers     = "/admin/users"
	PathAdminInbox     = "/admin/inbox"
)

// Header and form names
const (
	HeaderRequestID = "X-Request-ID"
	CookieFileField = "cookie_file"
	contentTypeJSON = "application/json"
)

// Client talks to one backend. The zero timeout is intentional: requests end
// when the server answers or the caller's context is done.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for baseURL with a cookie jar so the login session is
// kept across calls.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: u.String(),
		http:    &http.Client{Jar: jar},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server root without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DownloadURL returns the absolute save link for a finished session
func (c *Client) DownloadURL(sessionID string) string {
	return c.baseURL + fmt.Sprintf(PathDownloadFile, url.PathEscape(sessionID))
}

// Login posts credentials and returns the server-chosen redirect path
func (c *Client) Login(ctx context.Context, req LoginRequest) (string, error) {
	env, err := c.postJSON(ctx, PathLogin, req)
	if err != nil {
		return "", err
	}
	return env.Redirect, nil
}

// Register creates an account and returns the server message
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	env, err := c.postJSON(ctx, PathRegister, req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// Contact submits the contact form and returns the server message
func (c *Client) Contact(ctx context.Context, req ContactRequest) (string, error) {
	env, err := c.postJSON(ctx, PathContact, req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ChangePassword changes the admin password and returns the server message
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) (string, error) {
	env, err := c.postJSON(ctx, PathChangePassword, req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// SetMessageStatus marks an inbox message read or unread. Only the HTTP
// status matters; the body is ignored.
func (c *Client) SetMessageStatus(ctx context.Context, messageID, status string) error {
	body, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return err
	}
	p := fmt.Sprintf(PathMessageStatus, url.PathEscape(messageID))
	resp, err := c.send(ctx, http.MethodPost, p, bytes.NewReader(body), contentTypeJSON)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &AppError{Status: resp.StatusCode}
	}
	return nil
}

// GetVideoInfo asks the backend to analyze a media URL
func (c *Client) GetVideoInfo(ctx context.Context, req InfoRequest) (*model.MediaInfo, error) {
	env, err := c.postJSON(ctx, PathVideoInfo, req)
	if err != nil {
		return nil, err
	}
	if env.Info == nil {
		return nil, transportError("get video info", fmt.Errorf("response has no info"))
	}
	return env.Info, nil
}

// StartDownload queues a download and returns its session id
func (c *Client) StartDownload(ctx context.Context, req StartRequest) (string, error) {
	env, err := c.postJSON(ctx, PathStartDownload, req)
	if err != nil {
		return "", err
	}
	if env.SessionID == "" {
		return "", transportError("start download", fmt.Errorf("response has no session id"))
	}
	return env.SessionID, nil
}

// CancelDownload requests cancellation of a session. The outcome arrives as
// a push event.
func (c *Client) CancelDownload(ctx context.Context, sessionID string) error {
	_, err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf(PathCancelDownload, url.PathEscape(sessionID)), nil, "")
	return err
}

// FileDownload is an open response body of a finished session's file
type FileDownload struct {
	Body     io.ReadCloser
	Size     int64 // -1 when unknown
	Filename string
}

// DownloadFile opens the finished file of a session. The caller closes Body.
func (c *Client) DownloadFile(ctx context.Context, sessionID string) (*FileDownload, error) {
	resp, err := c.send(ctx, http.MethodGet, fmt.Sprintf(PathDownloadFile, url.PathEscape(sessionID)), nil, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &AppError{Status: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	fd := &FileDownload{Body: resp.Body, Size: resp.ContentLength}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		fd.Filename = path.Base(params["filename"])
	}
	return fd, nil
}

// ListCookies returns the cookie files known to the backend
func (c *Client) ListCookies(ctx context.Context) ([]model.CookieEntry, error) {
	// This endpoint has no success flag.
	var out struct {
		Cookies []model.CookieEntry `json:"cookies"`
	}
	if err := c.getJSON(ctx, PathCookies, &out); err != nil {
		return nil, err
	}
	return out.Cookies, nil
}

// UploadCookies uploads a cookie file as multipart field cookie_file
func (c *Client) UploadCookies(ctx context.Context, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(CookieFileField, filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("read cookie file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	env, err := c.doJSON(ctx, http.MethodPost, PathUploadCookies, &buf, mw.FormDataContentType())
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// DeleteCookies removes an uploaded cookie file
func (c *Client) DeleteCookies(ctx context.Context, name string) (string, error) {
	env, err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf(PathDeleteCookies, url.PathEscape(name)), nil, "")
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// BypassStatus returns backend capability information
func (c *Client) BypassStatus(ctx context.Context) (*BypassStatus, error) {
	var st BypassStatus
	if err := c.getJSON(ctx, PathBypassStatus, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// FetchPage returns a server-rendered HTML page
func (c *Client) FetchPage(ctx context.Context, p string) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, p, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError("read page", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &AppError{Status: resp.StatusCode}
	}
	return body, nil
}

// getJSON decodes a GET reply that carries no success envelope
func (c *Client) getJSON(ctx context.Context, p string, out any) error {
	resp, err := c.send(ctx, http.MethodGet, p, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var env envelope
		_ = json.NewDecoder(resp.Body).Decode(&env)
		return &AppError{Status: resp.StatusCode, Message: env.Error}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return transportError("GET "+p, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, p string, payload any) (*envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.doJSON(ctx, http.MethodPost, p, bytes.NewReader(body), contentTypeJSON)
}

// doJSON sends a request and decodes the envelope regardless of HTTP status
func (c *Client) doJSON(ctx context.Context, method, p string, body io.Reader, contentType string) (*envelope, error) {
	resp, err := c.send(ctx, method, p, body, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, transportError(method+" "+p, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err))
	}
	if !env.Success {
		return nil, &AppError{Status: resp.StatusCode, Message: env.Error, Fields: env.Errors}
	}
	return &env, nil
}

func (c *Client) send(ctx context.Context, method, p string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+p, body)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)
	req.Header.Set("Accept", contentTypeJSON)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("request_id", requestID).Str("method", method).Str("path", p).Msg("[api] request failed")
		return nil, transportError(method+" "+p, err)
	}
	log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", p).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("[api] request")
	return resp, nil
}
