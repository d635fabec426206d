package cloud

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/dmitrijs2005/sbxcloud/internal/common"
)

const (
	loginPath  = "/api/user/v1/login"
	folderPath = "/api/content/v1/folder"
	uploadPath = "/api/content/v1/upload"
)

// Config holds HTTPClient settings.
type Config struct {
	BaseURL string
	// Timeout bounds each call, including the full upload of one file.
	// Zero disables the per-call timeout.
	Timeout time.Duration
	// Fs is where uploaded files are read from. Defaults to the OS filesystem.
	Fs afero.Fs
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// HTTPClient implements Client against the sbxcloud REST API.
type HTTPClient struct {
	baseURL    string
	timeout    time.Duration
	fs         afero.Fs
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

var _ Client = (*HTTPClient)(nil)

// New creates a new HTTPClient.
func New(cfg Config) *HTTPClient {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		fs:         cfg.Fs,
		httpClient: hc,
	}
}

// SetToken sets the bearer token used for every call after login.
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) applyAuth(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *HTTPClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// envelope is the common shape of every API response.
type envelope struct {
	Success bool            `json:"success"`
	Error   json.RawMessage `json:"error,omitempty"`
}

func (e envelope) message() string {
	if len(e.Error) == 0 || string(e.Error) == "null" {
		return "unknown error"
	}
	var s string
	if err := json.Unmarshal(e.Error, &s); err == nil {
		return s
	}
	return string(e.Error)
}

// httpStatusError carries a non-200 response.
type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("invalid response code: %d", e.Code)
	}
	return fmt.Sprintf("invalid response code: %d: %s", e.Code, e.Body)
}

// do sends req and decodes the (possibly gzip-encoded) JSON body into out.
// It returns the raw decoded body as well.
func (c *HTTPClient) do(req *http.Request, out any) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	c.applyAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gunzip response: %w", err)
		}
		defer gr.Close()
		reader = gr
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return body, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return body, fmt.Errorf("decode response: %w", err)
		}
	}
	return body, nil
}

// remoteErr wraps err with ErrRemoteCall and, for 404/409, with ErrNotFound
// or ErrConflict too.
func remoteErr(op string, err error) error {
	var se *httpStatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s: %w: %v", common.ErrRemoteCall, op, common.ErrNotFound, err)
		case http.StatusConflict:
			return fmt.Errorf("%w: %s: %w: %v", common.ErrRemoteCall, op, common.ErrConflict, err)
		}
	}
	return fmt.Errorf("%w: %s: %w", common.ErrRemoteCall, op, err)
}

type loginResponse struct {
	envelope
	Session
}

// Login exchanges credentials for a session and stores its token for all
// subsequent calls.
func (c *HTTPClient) Login(ctx context.Context, creds Credentials) (*Session, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	q := url.Values{}
	q.Set("login", creds.Login)
	q.Set("password", string(creds.Password))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(loginPath, q), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAuth, err)
	}

	var resp loginResponse
	if _, err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrAuth, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s", common.ErrAuth, resp.message())
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: empty token", common.ErrAuth)
	}

	session := resp.Session
	c.SetToken(session.Token)
	return &session, nil
}

type folderResponse struct {
	envelope
	Folder *RemoteFolder `json:"folder"`
}

func (c *HTTPClient) folderCall(req *http.Request, op string) (*RemoteFolder, error) {
	var resp folderResponse
	if _, err := c.do(req, &resp); err != nil {
		return nil, remoteErr(op, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s: %s", common.ErrRemoteCall, op, resp.message())
	}
	if resp.Folder == nil {
		return nil, fmt.Errorf("%w: %s: response has no folder", common.ErrRemoteCall, op)
	}
	return resp.Folder, nil
}

// ListFolder fetches a fresh snapshot of the folder and its children.
func (c *HTTPClient) ListFolder(ctx context.Context, key string) (*RemoteFolder, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	op := "list folder " + key
	q := url.Values{}
	q.Set("key", key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(folderPath, q), nil)
	if err != nil {
		return nil, remoteErr(op, err)
	}
	return c.folderCall(req, op)
}

// CreateFolder creates an empty folder named name under parentKey. The server
// is authoritative on name clashes.
func (c *HTTPClient) CreateFolder(ctx context.Context, parentKey, name string) (*RemoteFolder, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	op := fmt.Sprintf("create folder %q in %s", name, parentKey)
	q := url.Values{}
	q.Set("name", name)
	q.Set("parent_key", parentKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(folderPath, q), nil)
	if err != nil {
		return nil, remoteErr(op, err)
	}
	folder, err := c.folderCall(req, op)
	if err != nil {
		return nil, err
	}
	folder.Contents = []RemoteEntry{}
	return folder, nil
}
