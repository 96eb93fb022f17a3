package kismet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a thin HTTP client for the Kismet REST API.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

// NewClient creates a client for the given base URL (e.g. http://host:2501).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetLogin stores credentials for subsequent requests. Empty credentials
// mean anonymous access.
func (c *Client) SetLogin(username, password string) {
	c.username = username
	c.password = password
}

// CheckSession reports whether the server accepts the configured
// credentials. A 401/403 response means the login is invalid; any other
// non-2xx status is an error.
func (c *Client) CheckSession(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/session/check_session", nil)
	if err != nil {
		return false, err
	}

	res, err := c.do(req)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return false, nil
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return false, statusError(res)
	}
	return true, nil
}

// Datasources fetches a fresh snapshot of all data sources known to the
// server. No caching; every call hits the server.
func (c *Client) Datasources(ctx context.Context) ([]Datasource, error) {
	var sources []Datasource
	if err := c.getJSON(ctx, "/datasources/all_sources.json", &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// SetChannel asks the server to retune a data source. The response body
// is an opaque acknowledgement suitable only for logging.
func (c *Client) SetChannel(ctx context.Context, uuid string, channel int) (string, error) {
	endpoint := "/datasources/by-uuid/" + url.PathEscape(uuid) + "/set_channel.cmd"
	return c.postCommand(ctx, endpoint, setChannelCommand{Channel: strconv.Itoa(channel)})
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	res, err := c.do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return statusError(res)
	}

	decoder := json.NewDecoder(res.Body)
	return decoder.Decode(out)
}

// postCommand sends a Kismet command endpoint request: the JSON command
// object is form-encoded under the "json" field.
func (c *Client) postCommand(ctx context.Context, path string, cmd any) (string, error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("json", string(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", statusError(res)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	return c.http.Do(req)
}

func statusError(res *http.Response) error {
	body, _ := io.ReadAll(res.Body)
	msg := strings.TrimSpace(string(body))
	if msg != "" {
		return fmt.Errorf("request failed: %s: %s", res.Status, msg)
	}
	return fmt.Errorf("request failed: %s", res.Status)
}
