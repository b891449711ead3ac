// Iris HTTP API client written in Go
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const DefaultUserAgent = "IrisConsoleClient"

// TokenSource supplies the bearer credential attached to outbound requests.
// The session store implements it; a source returning "" sends the request
// unauthenticated and leaves rejection to the server.
type TokenSource interface {
	AuthToken() string
}

// HTTP configuration for connecting to the Iris server.
type Config struct {
	// The URL of the Iris server.
	URL string

	// Timeout for API requests, defaults to no timeout.
	Timeout time.Duration

	// UserAgent is the http User Agent, defaults to "IrisConsoleClient".
	UserAgent string

	// Credentials supplies the bearer token per request. Optional.
	Credentials TokenSource

	// InsecureSkipVerify gets passed to the http client, if true, it will
	// skip https certificate verification. Defaults to false.
	InsecureSkipVerify bool

	// TLSConfig allows the user to set their own TLS config for the HTTP
	// Client. If set, this option overrides InsecureSkipVerify.
	TLSConfig *tls.Config
}

// Basic HTTP client
type Client struct {
	url         *url.URL
	userAgent   string
	credentials TokenSource
	httpClient  *http.Client
}

// Create a new client.
func New(conf Config) (*Client, error) {
	if conf.UserAgent == "" {
		conf.UserAgent = DefaultUserAgent
	}

	u, err := url.Parse(conf.URL)
	if err != nil {
		return nil, err
	} else if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf(
			"Unsupported protocol scheme: %s, your address must start with http:// or https://",
			u.Scheme,
		)
	}

	tr := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: conf.InsecureSkipVerify,
		},
	}
	if conf.TLSConfig != nil {
		tr.TLSClientConfig = conf.TLSConfig
	}
	return &Client{
		url:         u,
		userAgent:   conf.UserAgent,
		credentials: conf.Credentials,
		httpClient: &http.Client{
			Timeout:   conf.Timeout,
			Transport: tr,
		},
	}, nil
}

// URL returns the address of the server this client talks to.
func (c *Client) URL() string {
	return c.url.String()
}

// Error carried back for any non-success response, with the
// server-provided message when one could be extracted.
type Error struct {
	Code    int
	Message string
}

func (e Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "HTTP " + strconv.Itoa(e.Code)
}

// Perform the request.
// The bearer credential is read from the token source at call time, so
// concurrent calls never share stale state. If result is not nil the
// response body is JSON decoded into result. Codes is a list of valid
// response codes; any other status is normalized into an *Error and no
// body is returned.
func (c *Client) do(req *http.Request, result interface{}, codes ...int) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.credentials != nil {
		if token := c.credentials.AuthToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	valid := false
	for _, code := range codes {
		if resp.StatusCode == code {
			valid = true
			break
		}
	}
	if !valid {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "reading error response")
		}
		apiErr := &Error{Code: resp.StatusCode}
		// The server reports failures as {"message": ...} or
		// {"error": ...}; anything else falls back to the status code.
		fields := map[string]interface{}{}
		if err := json.Unmarshal(body, &fields); err == nil {
			if msg, ok := fields["message"].(string); ok && msg != "" {
				apiErr.Message = msg
			} else if msg, ok := fields["error"].(string); ok {
				apiErr.Message = msg
			}
		}
		return nil, apiErr
	}
	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return nil, errors.Wrap(err, "decoding response body")
		}
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}, codes ...int) error {
	u := *c.url
	u.Path = path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, result, codes...)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, result interface{}, codes ...int) error {
	u := *c.url
	u.Path = path
	u.RawQuery = query.Encode()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return err
	}
	_, err = c.do(req, result, codes...)
	return err
}

// Ping the server for a liveness response.
// Ping returns how long the request took and an error if one occurred.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	now := time.Now()
	err := c.get(ctx, "/healthy", nil, nil, http.StatusOK)
	return time.Since(now), err
}

// Ready reports whether the server can reach its backing services.
func (c *Client) Ready(ctx context.Context) error {
	return c.get(ctx, "/ready", nil, nil, http.StatusOK)
}

// A single-use captcha challenge gating one login attempt.
type CaptchaChallenge struct {
	ID  string `json:"id"`
	B64 string `json:"b64"`
}

// GenerateCaptcha asks the server for a fresh challenge.
func (c *Client) GenerateCaptcha(ctx context.Context) (CaptchaChallenge, error) {
	type response struct {
		Status string           `json:"status"`
		Data   CaptchaChallenge `json:"data"`
	}
	r := &response{}
	err := c.get(ctx, "/v0/captcha/generate", nil, r, http.StatusOK)
	return r.Data, err
}

// Signin submits credentials plus the captcha answer for the given
// challenge. On success the returned token is the new session credential;
// the client itself never stores it.
func (c *Client) Signin(ctx context.Context, username, password, captchaID, captchaAnswer string) (string, error) {
	v := url.Values{}
	v.Add("captcha_id", captchaID)

	body := map[string]string{
		"username":       username,
		"password":       password,
		"captcha_answer": captchaAnswer,
	}
	type response struct {
		Status string `json:"status"`
		Token  string `json:"token"`
	}
	r := &response{}
	err := c.send(ctx, "POST", "/v0/users/signin", v, body, r, http.StatusOK)
	if err != nil {
		return "", err
	}
	return r.Token, nil
}

// A console user as reported by the server.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
	Status    string `json:"status"`
}

// Fields accepted when creating a user. The write-side field names differ
// from the read side (firstname vs firstName); the wire is the contract.
type CreateUser struct {
	Username        string `json:"username"`
	FirstName       string `json:"firstname,omitempty"`
	LastName        string `json:"lastname,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm-password"`
	Mobile          string `json:"mobile_number,omitempty"`
	Email           string `json:"email,omitempty"`
}

// Fields accepted when updating a user. Username selects the user; empty
// fields are left unchanged.
type UpdateUser struct {
	Username  string `json:"username"`
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname,omitempty"`
	Password  string `json:"password,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Me returns the user the current session belongs to.
func (c *Client) Me(ctx context.Context) (User, error) {
	type response struct {
		Status string `json:"status"`
		User   User   `json:"user"`
		UserID string `json:"user_id"`
	}
	r := &response{}
	err := c.get(ctx, "/v0/users/me", nil, r, http.StatusOK)
	if err != nil {
		return User{}, err
	}
	u := r.User
	u.ID = r.UserID
	return u, nil
}

// ListUsers returns all users.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	type response struct {
		Status string `json:"status"`
		Users  []User `json:"users"`
		Count  int    `json:"count"`
	}
	r := &response{}
	err := c.get(ctx, "/v0/users", nil, r, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return r.Users, nil
}

// AddUser creates a user.
func (c *Client) AddUser(ctx context.Context, u CreateUser) error {
	return c.send(ctx, "POST", "/v0/users", nil, u, nil, http.StatusCreated)
}

// UpdateUser updates the non-empty fields of a user.
func (c *Client) UpdateUser(ctx context.Context, u UpdateUser) error {
	return c.send(ctx, "PUT", "/v0/users", nil, u, nil, http.StatusOK)
}

// DeleteUser deletes a user by username.
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	body := map[string]string{"username": username}
	return c.send(ctx, "DELETE", "/v0/users", nil, body, nil, http.StatusOK)
}

// VerifyUser marks a pending user as verified.
func (c *Client) VerifyUser(ctx context.Context, username string) error {
	body := map[string]string{"username": username}
	return c.send(ctx, "PUT", "/v0/users/verify", nil, body, nil, http.StatusOK)
}

// A notification group.
type Group struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Summary information about a group.
type GroupSummary struct {
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
}

// ListGroups returns summaries of all groups.
func (c *Client) ListGroups(ctx context.Context) ([]GroupSummary, error) {
	type response struct {
		Status string         `json:"status"`
		Data   []GroupSummary `json:"data"`
	}
	r := &response{}
	err := c.get(ctx, "/v0/groups", nil, r, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return r.Data, nil
}

// Group returns complete information about one group.
func (c *Client) Group(ctx context.Context, id string) (Group, error) {
	v := url.Values{}
	v.Add("id", id)

	type response struct {
		Status string `json:"status"`
		Data   Group  `json:"data"`
	}
	r := &response{}
	err := c.get(ctx, "/v0/groups", v, r, http.StatusOK)
	if err != nil {
		return Group{}, err
	}
	return r.Data, nil
}

// CreateGroup creates a group.
func (c *Client) CreateGroup(ctx context.Context, name, description string) error {
	body := map[string]string{"name": name}
	if description != "" {
		body["description"] = description
	}
	return c.send(ctx, "POST", "/v0/groups", nil, body, nil, http.StatusCreated)
}

// DeleteGroup deletes a group.
func (c *Client) DeleteGroup(ctx context.Context, g Group) error {
	return c.send(ctx, "DELETE", "/v0/groups", nil, g, nil, http.StatusOK)
}

// GroupUsers returns the ids of the users in a group.
func (c *Client) GroupUsers(ctx context.Context, groupID string) ([]string, error) {
	type response struct {
		Status string   `json:"status"`
		Users  []string `json:"users"`
	}
	r := &response{}
	err := c.get(ctx, "/v0/groups/"+groupID+"/users", nil, r, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return r.Users, nil
}

// AddUserToGroup adds a user to a group.
func (c *Client) AddUserToGroup(ctx context.Context, groupID, userID string) error {
	body := map[string]string{"user_id": userID}
	return c.send(ctx, "POST", "/v0/groups/"+groupID+"/users", nil, body, nil, http.StatusOK)
}

// An alert as tracked by the server.
type Alert struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Count of firing alerts for one severity.
type SeverityCount struct {
	Severity string `json:"severity"`
	Count    int64  `json:"count"`
}

// Filter options for listing alerts. Zero values are omitted from the
// query.
type ListAlertsOptions struct {
	Status   string
	Severity string
	Limit    int
	Page     int
}

func (o ListAlertsOptions) values() url.Values {
	v := url.Values{}
	if o.Status != "" {
		v.Add("status", o.Status)
	}
	if o.Severity != "" {
		v.Add("severity", o.Severity)
	}
	if o.Limit > 0 {
		v.Add("limit", strconv.Itoa(o.Limit))
	}
	if o.Page > 0 {
		v.Add("page", strconv.Itoa(o.Page))
	}
	return v
}

// ListAlerts returns alerts matching the filter options.
func (c *Client) ListAlerts(ctx context.Context, opts ListAlertsOptions) ([]Alert, error) {
	type response struct {
		Status string  `json:"status"`
		Alerts []Alert `json:"alerts"`
		Count  int     `json:"count"`
	}
	r := &response{}
	err := c.get(ctx, "/v0/alerts", opts.values(), r, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return r.Alerts, nil
}

// FiringCount returns the number of firing alerts per severity.
func (c *Client) FiringCount(ctx context.Context) ([]SeverityCount, error) {
	// "severites" is the field the server actually sends.
	type response struct {
		Status     string          `json:"status"`
		Severities []SeverityCount `json:"severites"`
	}
	r := &response{}
	err := c.get(ctx, "/v0/alerts/firingCount", nil, r, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return r.Severities, nil
}

// A notification provider.
type Provider struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Enabled     bool   `json:"enabled"`
}

// ListProviders returns all notification providers.
func (c *Client) ListProviders(ctx context.Context) ([]Provider, error) {
	type response struct {
		Status    string     `json:"status"`
		Providers []Provider `json:"providers"`
	}
	r := &response{}
	err := c.get(ctx, "/v0/providers", nil, r, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return r.Providers, nil
}

// Provider looks up one provider by name or, when byID is true, by id.
func (c *Client) Provider(ctx context.Context, identifier string, byID bool) (Provider, error) {
	v := url.Values{}
	if byID {
		v.Add("id", identifier)
	} else {
		v.Add("name", identifier)
	}
	type response struct {
		Status   string   `json:"status"`
		Provider Provider `json:"provider"`
	}
	r := &response{}
	err := c.get(ctx, "/v0/providers", v, r, http.StatusOK)
	if err != nil {
		return Provider{}, err
	}
	return r.Provider, nil
}

// UpdateProvider changes a provider's priority, enabled state, or both.
// The provider is selected by name; nil fields are left unchanged.
func (c *Client) UpdateProvider(ctx context.Context, name string, priority *int, enabled *bool) error {
	body := map[string]interface{}{"name": name}
	if priority != nil {
		body["priority"] = *priority
	}
	if enabled != nil {
		body["status"] = *enabled
	}
	return c.send(ctx, "PUT", "/v0/providers", nil, body, nil, http.StatusOK)
}
