// Package adminclient is a Go client for the employee admin HTTP API, plus the
// session state a front end keeps between page loads.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
)

const defaultCookieName = "token"

// Admin is the identity returned by the API.
type Admin struct {
	ID          string `json:"id"`
	UserName    string `json:"userName"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile"`
	Designation string `json:"designation"`
	IsAdmin     bool   `json:"isAdmin"`
}

// Employee is an employee record as returned by the API.
type Employee struct {
	ID          string    `json:"id"`
	UniqueID    string    `json:"uniqueId"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Mobile      string    `json:"mobile"`
	Designation string    `json:"designation"`
	Gender      string    `json:"gender"`
	Course      string    `json:"course"`
	ProfilePic  string    `json:"profilePic"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EmployeeList is one page of the employee list.
type EmployeeList struct {
	Employees []Employee `json:"employees"`
	Total     int64      `json:"total"`
}

// ListOptions filters and pages ListEmployees. Zero values are omitted.
type ListOptions struct {
	Search string
	Page   int
	Limit  int
}

// Picture is a profile picture sent as a multipart file part.
type Picture struct {
	Filename string
	Data     []byte
}

// FieldError is one rejected field of a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non 2xx response.
type APIError struct {
	Status  int
	Message string
	Errors  []FieldError
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("api error %d: %s: %s", e.Status, e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsUnauthenticated reports whether err means the session is missing or no
// longer valid.
func IsUnauthenticated(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Status {
	case fasthttp.StatusUnauthorized, fasthttp.StatusForbidden, fasthttp.StatusNotFound:
		return true
	}
	return false
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying fasthttp client.
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCookieName sets the session cookie name. Defaults to "token".
func WithCookieName(name string) Option {
	return func(c *Client) { c.cookieName = name }
}

// WithTimeout bounds requests whose context carries no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// Client talks to the admin API and carries the session cookie between calls.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	http       *fasthttp.Client
	cookieName string
	timeout    time.Duration

	mu    sync.RWMutex
	token string
}

// NewClient creates a client for the API mounted at baseURL, e.g.
// "http://localhost:3000/api/admin".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		cookieName: defaultCookieName,
		timeout:    10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &fasthttp.Client{
			ReadTimeout:  c.timeout,
			WriteTimeout: c.timeout,
		}
	}
	return c
}

// Token returns the session cookie value currently held.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken installs a previously saved session cookie value.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Login authenticates and stores the session cookie.
func (c *Client) Login(ctx context.Context, userName, password string) (*Admin, error) {
	var out struct {
		Admin *Admin `json:"admin"`
	}
	body := map[string]string{"userName": userName, "password": password}
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/login", body, &out); err != nil {
		return nil, err
	}
	return out.Admin, nil
}

// Me returns the admin the held session belongs to.
func (c *Client) Me(ctx context.Context) (*Admin, error) {
	var out struct {
		Admin *Admin `json:"admin"`
	}
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/me", nil, &out); err != nil {
		return nil, err
	}
	return out.Admin, nil
}

// Logout ends the session on the server and drops the held cookie.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, fasthttp.MethodPost, "/logout", nil, nil)
	c.SetToken("")
	return err
}

// CreateEmployee creates an employee. fields uses the API's field names;
// picture is optional.
func (c *Client) CreateEmployee(ctx context.Context, fields map[string]string, picture *Picture) (*Employee, error) {
	var out struct {
		Employee *Employee `json:"employee"`
	}
	if err := c.doMultipart(ctx, fasthttp.MethodPost, "/employee-create", fields, picture, &out); err != nil {
		return nil, err
	}
	return out.Employee, nil
}

// ListEmployees returns one page of employees.
func (c *Client) ListEmployees(ctx context.Context, opts ListOptions) (*EmployeeList, error) {
	q := url.Values{}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	path := "/employees"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out EmployeeList
	if err := c.doJSON(ctx, fasthttp.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEmployee returns one employee.
func (c *Client) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	var out struct {
		Employee *Employee `json:"employee"`
	}
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/employee/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out.Employee, nil
}

// EditEmployee changes only the given fields and, when set, the picture.
func (c *Client) EditEmployee(ctx context.Context, id string, fields map[string]string, picture *Picture) (*Employee, error) {
	var out struct {
		Employee *Employee `json:"employee"`
	}
	if err := c.doMultipart(ctx, fasthttp.MethodPut, "/employee/"+url.PathEscape(id), fields, picture, &out); err != nil {
		return nil, err
	}
	return out.Employee, nil
}

// DeleteEmployee removes an employee.
func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	return c.doJSON(ctx, fasthttp.MethodDelete, "/employee/"+url.PathEscape(id), nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = b
	}
	return c.do(ctx, method, path, "application/json", body, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, picture *Picture, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	if picture != nil {
		part, err := w.CreateFormFile("profilePic", picture.Filename)
		if err != nil {
			return err
		}
		if _, err := part.Write(picture.Data); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.do(ctx, method, path, w.FormDataContentType(), buf.Bytes(), out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	if body != nil {
		req.Header.SetContentType(contentType)
		req.SetBody(body)
	}
	if token := c.Token(); token != "" {
		req.Header.SetCookie(c.cookieName, token)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.captureCookie(resp)

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		apiErr := &APIError{Status: status}
		_ = json.Unmarshal(resp.Body(), &struct {
			Message *string       `json:"message"`
			Errors  *[]FieldError `json:"errors"`
		}{&apiErr.Message, &apiErr.Errors})
		return apiErr
	}

	if out != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// captureCookie tracks Set-Cookie for the session cookie. An expired or empty
// cookie clears the held token.
func (c *Client) captureCookie(resp *fasthttp.Response) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(c.cookieName)
	if !resp.Header.Cookie(cookie) {
		return
	}
	value := string(cookie.Value())
	expired := cookie.MaxAge() < 0 ||
		(!cookie.Expire().IsZero() && !cookie.Expire().Equal(fasthttp.CookieExpireUnlimited) && cookie.Expire().Before(time.Now()))
	if value == "" || expired {
		value = ""
	}
	c.SetToken(value)
}
