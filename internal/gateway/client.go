// Package gateway implements the typed REST client for the task API. All
// response decoding happens here, at one normalization boundary per
// endpoint: a body that does not fit the documented shape is a typed
// parse error, never a silent empty value.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gestorhub/taskdesk/internal/apierrors"
)

const defaultTimeout = 30 * time.Second

// Client performs authenticated requests against the task API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a Client for the given base URL and bearer token. A nil
// httpClient gets a default with a request timeout.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

func pageValues(page, pageSize int) url.Values {
	v := url.Values{}
	if page > 0 {
		v.Set("pageNumber", strconv.Itoa(page))
		v.Set("pageSize", strconv.Itoa(pageSize))
	}
	return v
}

func (c *Client) url(path string, values url.Values) string {
	u := c.baseURL + path
	if len(values) > 0 {
		u += "?" + values.Encode()
	}
	return u
}

// doJSON issues a request with an optional JSON body and decodes the JSON
// response into out (when out is non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, values url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, values), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	return decodeBody(resp.Body, out, path)
}

// decodeBody is the normalization boundary: the documented shape or a
// typed parse error.
func decodeBody(r io.Reader, out interface{}, endpoint string) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return apierrors.BadPayload(endpoint, err)
	}
	return nil
}

// doRaw issues a request and streams the response body into w, for blob
// endpoints (PDF and spreadsheet exports).
func (c *Client) doRaw(ctx context.Context, method, path string, values url.Values, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path, values), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.send(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, apierrors.Transportf("failed to read export body: %v", err)
	}
	return n, nil
}

// send attaches auth, performs the request and classifies failures. The
// caller owns the response body on success.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.Transportf("%s %s: %v", req.Method, req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, apierrors.FromResponse(resp)
	}

	return resp, nil
}
