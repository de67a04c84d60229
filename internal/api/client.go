package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const tokenPath = "/authentication/token/"

// TokenSource supplies the current bearer token; an empty string means no
// session.
type TokenSource interface {
	Token() string
}

// Config holds the connection settings for the remote API.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client wraps resty with bearer-token injection and global 401 handling.
// Every authenticated request carries Authorization: Bearer <token>; any 401
// outside the token endpoint fires the unauthorized hook so the session owner
// can tear the session down, whatever view issued the call.
type Client struct {
	http           *resty.Client
	log            *zap.Logger
	onUnauthorized func()
}

// New builds a Client. tokens may be nil for unauthenticated use in tests.
func New(cfg Config, tokens TokenSource, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	c := &Client{log: log}

	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	restyClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if tokens == nil {
			return nil
		}
		if tok := tokens.Token(); tok != "" {
			req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", tok))
		}
		return nil
	})

	restyClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if resp.StatusCode() == http.StatusUnauthorized && !strings.HasSuffix(resp.Request.URL, tokenPath) {
			log.Warn("unauthorized response, invalidating session", zap.String("url", resp.Request.URL))
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		}
		return nil
	})

	c.http = restyClient
	return c
}

// SetUnauthorizedHook registers the forced-logout callback. Single owner: the
// session module.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// Login exchanges credentials for a token pair. A 401 maps to
// ErrInvalidCredentials and never fires the unauthorized hook.
func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	var pair TokenPair
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&pair).
		Post(tokenPath)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return TokenPair{}, ErrInvalidCredentials
	}
	if resp.IsError() {
		return TokenPair{}, &StatusError{Code: resp.StatusCode()}
	}
	if pair.Access == "" {
		return TokenPair{}, ErrInvalidCredentials
	}
	return pair, nil
}

// ListParams are the query parameters every collection endpoint accepts.
type ListParams struct {
	Page      int
	PageSize  int
	Ordering  string
	Search    string
	IsActive  *bool
	StartDate string
	EndDate   string
}

// Values encodes the non-zero parameters.
func (p ListParams) Values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.Ordering != "" {
		q.Set("ordering", p.Ordering)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.IsActive != nil {
		q.Set("is_active", strconv.FormatBool(*p.IsActive))
	}
	if p.StartDate != "" {
		q.Set("start_date", p.StartDate)
	}
	if p.EndDate != "" {
		q.Set("end_date", p.EndDate)
	}
	return q
}

type apiDetail struct {
	Detail string `json:"detail"`
}

// get decodes a GET response into out.
func get(ctx context.Context, c *Client, path string, query url.Values, out any) error {
	req := c.http.R().SetContext(ctx).SetResult(out)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	resp, err := req.Get(path)
	return c.check(resp, err)
}

// send issues a write request (POST/PUT/PATCH/DELETE) with an optional body
// and optional result.
func send(ctx context.Context, c *Client, method, path string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Execute(method, path)
	return c.check(resp, err)
}

func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		c.log.Warn("request failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.IsError() {
		var detail apiDetail
		_ = json.Unmarshal(resp.Body(), &detail)
		return &StatusError{Code: resp.StatusCode(), Detail: detail.Detail}
	}
	return nil
}
