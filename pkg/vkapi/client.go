package vkapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Adda-Baaj/vk-fetch/pkg/httpclient"
)

const (
	DefaultBaseURL = "https://api.vk.com/method/"
	DefaultVersion = "5.131"
	DefaultTimeout = 10 * time.Second

	paramAccessToken = "access_token"
	paramVersion     = "v"
)

// Params are the caller-supplied method parameters. Values may be strings,
// integers, floats, bools or string slices; nil values are dropped.
type Params map[string]any

// Client calls methods of the VK HTTP API. It holds only read-only
// configuration, so a single Client may be shared between goroutines.
type Client struct {
	token   string
	version string
	baseURL string
	timeout time.Duration
	http    httpclient.Client
	log     Logger
	diag    io.Writer
}

// New constructs a Client for the given access token. It performs no I/O and
// does not validate the token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		version: DefaultVersion,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		log:     noopLogger{},
		diag:    os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(c.timeout)
	}
	return c
}

// Version returns the protocol version sent with every call.
func (c *Client) Version() string { return c.version }

// Call invokes a remote method and returns the `response` payload of the
// envelope untouched. Every failure is an *APIError.
func (c *Client) Call(ctx context.Context, method string, params Params) (json.RawMessage, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, requestFailed(errors.New("method name is empty"))
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.http.Get(ctx, c.methodURL(method), c.requestParams(params), nil)
	if err != nil {
		apiErr := translateTransportError(err)
		c.log.DebugObj("vk call transport failure", "vk_call", map[string]any{
			"method":     method,
			"elapsed_ms": time.Since(start).Milliseconds(),
			"error":      err.Error(),
		})
		return nil, apiErr
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, httpFailed(resp.Status())
	}

	payload, apiErr := unwrapEnvelope(resp.Body())
	c.log.DebugObj("vk call completed", "vk_call", map[string]any{
		"method":      method,
		"status_code": resp.StatusCode(),
		"elapsed_ms":  time.Since(start).Milliseconds(),
		"api_error":   apiErr != nil,
	})
	if apiErr != nil {
		return nil, apiErr
	}
	return payload, nil
}

func (c *Client) methodURL(method string) string {
	return strings.TrimRight(c.baseURL, "/") + "/" + url.PathEscape(method)
}

// requestParams renders caller params and then applies the credential and
// version, so those two keys always carry the client's values.
func (c *Client) requestParams(params Params) map[string]string {
	out := make(map[string]string, len(params)+2)
	for k, v := range params {
		if strings.TrimSpace(k) == "" || v == nil {
			continue
		}
		out[k] = formatParam(v)
	}
	out[paramAccessToken] = c.token
	out[paramVersion] = c.version
	return out
}

func formatParam(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case []string:
		return strings.Join(val, ",")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

type apiErrorBody struct {
	Message string `json:"error_msg"`
}

// unwrapEnvelope returns the `response` member, or the APIError described by
// the `error` member when one is present.
func unwrapEnvelope(body []byte) (json.RawMessage, *APIError) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, requestFailed(fmt.Errorf("decode response: %w", err))
	}

	if raw, ok := env["error"]; ok && !isNull(raw) {
		var errBody apiErrorBody
		// a malformed error member still reports the default message
		_ = json.Unmarshal(raw, &errBody)
		return nil, envelopeFailed(strings.TrimSpace(errBody.Message))
	}

	payload, ok := env["response"]
	if !ok {
		return nil, requestFailed(errors.New("decode response: envelope has no response field"))
	}
	return payload, nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// decodePayload maps a payload shape mismatch onto APIError so that the
// convenience operations degrade the same way as for transport failures.
func decodePayload(method string, raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return requestFailed(fmt.Errorf("decode %s payload: %w", method, err))
	}
	return nil
}
