package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/sercha-indexer/internal/core/domain"
)

// Ensure RPCClient implements the interface.
var _ Client = (*RPCClient)(nil)

// rpcMethod is the JSON-RPC method behind all administrative commands.
const rpcMethod = "Workspace.administer"

// RPCClient talks JSON-RPC 1.1 over HTTP to the workspace service.
// A client is safe for concurrent stateless calls; a client created by
// WithResponseFile is bound to one response and must not be shared.
type RPCClient struct {
	url          string
	httpClient   *http.Client
	tokens       oauth2.TokenSource
	rateLimiter  *RateLimiter
	responseFile string
}

// NewRPCClient creates a workspace client from configuration.
// tokens may be nil, in which case cfg.Token is used as a static token.
func NewRPCClient(cfg *Config, tokens oauth2.TokenSource) (*RPCClient, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, ErrConfigMissingURL
	}
	if strings.HasPrefix(strings.ToLower(cfg.URL), "http://") && !cfg.AllowInsecure {
		return nil, ErrInsecureURL
	}
	if tokens == nil && cfg.Token != "" {
		tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	}
	return &RPCClient{
		url:         cfg.URL,
		httpClient:  newHTTPClient(cfg),
		tokens:      tokens,
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond),
	}, nil
}

func newHTTPClient(cfg *Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &http.Client{Transport: transport, Timeout: cfg.Timeout}
}

// URL returns the service endpoint.
func (c *RPCClient) URL() string {
	return c.url
}

// WithResponseFile returns a client with its own HTTP transport whose next
// response body is written to path before being decoded.
func (c *RPCClient) WithResponseFile(path string) (Client, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: response file path is empty", domain.ErrInvalidInput)
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &RPCClient{
		url:          c.url,
		httpClient:   &http.Client{Transport: transport, Timeout: c.httpClient.Timeout},
		tokens:       c.tokens,
		rateLimiter:  c.rateLimiter,
		responseFile: path,
	}, nil
}

type rpcRequest struct {
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	Version string `json:"version"`
	ID      string `json:"id"`
}

type administerCommand struct {
	Command string `json:"command"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	Version string            `json:"version"`
	Result  []json.RawMessage `json:"result"`
	Error   *rpcError         `json:"error"`
}

type rpcError struct {
	Name    string  `json:"name"`
	Code    int     `json:"code"`
	Message *string `json:"message"`
	Error   string  `json:"error"`
}

// Administer runs an administrative command.
func (c *RPCClient) Administer(ctx context.Context, command string, params any, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(rpcRequest{
		Method:  rpcMethod,
		Params:  []any{administerCommand{Command: command, Params: params}},
		Version: "1.1",
		ID:      uuid.New().String(),
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return &UnauthorizedError{Message: err.Error()}
		}
		// the workspace expects the bare token, not a Bearer scheme
		req.Header.Set("Authorization", tok.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return &UnauthorizedError{Message: resp.Status}
	}

	var r io.Reader = resp.Body
	if c.responseFile != "" {
		f, err := c.spool(resp.Body)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	return decodeResponse(r, resp, out)
}

// spool writes the response body to the response file and rewinds it.
// The binding is consumed: later calls read from the network directly.
func (c *RPCClient) spool(body io.Reader) (*os.File, error) {
	path := c.responseFile
	c.responseFile = ""

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create response file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return nil, fmt.Errorf("spool response: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("rewind response file: %w", err)
	}
	return f, nil
}

func decodeResponse(r io.Reader, resp *http.Response, out any) error {
	var rr rpcResponse
	if err := json.NewDecoder(r).Decode(&rr); err != nil {
		if resp.StatusCode >= http.StatusInternalServerError {
			return &HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status}
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.EOF) {
			msg := "could not decode workspace response: " + err.Error()
			return &ServerError{Name: "JSONClientError", Code: resp.StatusCode, Message: &msg}
		}
		// truncated or reset body
		return fmt.Errorf("read response: %w", err)
	}

	if rr.Error != nil {
		return &ServerError{
			Name:    rr.Error.Name,
			Code:    rr.Error.Code,
			Message: rr.Error.Message,
			Data:    rr.Error.Error,
		}
	}
	if resp.StatusCode != http.StatusOK {
		return &HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if out == nil {
		return nil
	}
	if len(rr.Result) == 0 {
		msg := "workspace response has no result"
		return &ServerError{Name: "JSONClientError", Code: resp.StatusCode, Message: &msg}
	}
	if err := json.Unmarshal(rr.Result[0], out); err != nil {
		msg := "could not decode workspace result: " + err.Error()
		return &ServerError{Name: "JSONClientError", Code: resp.StatusCode, Message: &msg}
	}
	return nil
}
