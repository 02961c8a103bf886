// Package enhance implements the client side of the /api/enhance
// endpoint: one request per call, a bounded wait, and a small error
// taxonomy the UI layers can branch on.
package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hasanabusheikh26/superprompt/internal/utils"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

// ErrorKind classifies enhancement failures. The panel shows them all
// the same way (generic retry), but they stay distinguishable for logs.
type ErrorKind int

const (
	ErrInvalidInput ErrorKind = iota
	ErrTooLong
	ErrNetwork
	ErrTimeout
	ErrServer
	ErrRateLimited
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidInput:
		return "invalid_input"
	case ErrTooLong:
		return "too_long"
	case ErrNetwork:
		return "network"
	case ErrTimeout:
		return "timeout"
	case ErrServer:
		return "server_error"
	case ErrRateLimited:
		return "rate_limited"
	}
	return "unknown"
}

// Error carries the kind plus a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("enhance: %s: %s", e.Kind, e.Message)
}

// Kind extracts the ErrorKind from an error returned by this package.
// Errors from elsewhere map to ErrNetwork.
func Kind(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrNetwork
}

const (
	DefaultMaxTextLength = 5000
	DefaultTimeout       = 30 * time.Second
)

// Config controls the enhancement client.
type Config struct {
	Endpoint      string // full URL of the enhance endpoint
	APIKey        string // optional bearer token
	MaxTextLength int    // rune limit enforced before any network I/O
	Timeout       time.Duration
	HTTPClient    *http.Client // injectable for tests; nil builds one
}

// Client issues enhancement requests. It performs no automatic retries:
// retrying is a user action in the panel.
type Client struct {
	cfg    Config
	client *http.Client
}

func New(cfg Config) *Client {
	if cfg.MaxTextLength <= 0 {
		cfg.MaxTextLength = DefaultMaxTextLength
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		retryClient := retryablehttp.NewClient()
		retryClient.Logger = log.New(io.Discard, "", 0)
		retryClient.RetryMax = 0 // retries are manual, driven by the panel
		retryClient.HTTPClient.Timeout = cfg.Timeout
		httpClient = retryClient.StandardClient()
	}
	return &Client{cfg: cfg, client: httpClient}
}

type enhanceRequest struct {
	Text        string `json:"text"`
	Instruction string `json:"instruction,omitempty"`
}

// Enhance sends one request with the selected text and an instruction
// or style name, and returns the rewritten text. Input validation
// happens before any network side effect.
func (c *Client) Enhance(ctx context.Context, text, instruction string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &Error{Kind: ErrInvalidInput, Message: "text is empty"}
	}
	if n := utf8.RuneCountInString(text); n > c.cfg.MaxTextLength {
		return "", &Error{Kind: ErrTooLong, Message: fmt.Sprintf("text is %d characters, limit is %d", n, c.cfg.MaxTextLength)}
	}

	body, err := json.Marshal(enhanceRequest{Text: text, Instruction: instruction})
	if err != nil {
		return "", &Error{Kind: ErrInvalidInput, Message: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: ErrNetwork, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", &Error{Kind: ErrTimeout, Message: "no response within " + c.cfg.Timeout.String()}
		}
		return "", &Error{Kind: ErrNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: ErrNetwork, Message: err.Error()}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &Error{Kind: ErrRateLimited, Message: serverMessage(raw, "rate limit exceeded")}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serverMessage(raw, fmt.Sprintf("unexpected status %d", resp.StatusCode))
		utils.Log.Debugf("enhance: server error (%d): %s", resp.StatusCode, msg)
		return "", &Error{Kind: ErrServer, Message: msg}
	}

	parsed := gjson.ParseBytes(raw)
	if !parsed.Get("success").Bool() {
		msg := parsed.Get("error").String()
		if msg == "" {
			msg = "malformed response body"
		}
		return "", &Error{Kind: ErrServer, Message: msg}
	}
	enhanced := parsed.Get("enhancedText").String()
	if enhanced == "" {
		return "", &Error{Kind: ErrServer, Message: "response missing enhancedText"}
	}
	return enhanced, nil
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// serverMessage digs a displayable message out of a failure body. JSON
// bodies carry {"error": "..."}; proxies and gateways often answer with
// an HTML page instead, in which case the <title> is the best we get.
func serverMessage(raw []byte, fallback string) string {
	if msg := gjson.GetBytes(raw, "error").String(); msg != "" {
		return msg
	}
	if title, ok := htmlTitle(raw); ok && title != "" {
		return title
	}
	return fallback
}

func htmlTitle(raw []byte) (string, bool) {
	if !bytes.Contains(bytes.ToLower(raw[:min(len(raw), 256)]), []byte("<")) {
		return "", false
	}
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return "", false
	}
	return traverse(doc)
}

func isTitleElement(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "title"
}

func traverse(n *html.Node) (string, bool) {
	if isTitleElement(n) {
		if n.FirstChild != nil {
			return strings.TrimSpace(n.FirstChild.Data), true
		}
		return "", true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result, ok := traverse(c); ok {
			return result, ok
		}
	}
	return "", false
}
