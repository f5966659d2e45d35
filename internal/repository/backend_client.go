package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/fee-tracker-console/pkg/config"
	appErrors "github.com/noah-isme/fee-tracker-console/pkg/errors"
)

// Remote call outcomes recorded by the observer.
const (
	OutcomeSuccess        = "success"
	OutcomeRemoteError    = "remote_error"
	OutcomeTransportError = "transport_error"
)

// CredentialSource yields the bearer credential used for authenticated remote calls.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
}

// RemoteObserver receives timings for every remote call.
type RemoteObserver interface {
	ObserveRemoteCall(operation, outcome string, duration time.Duration)
}

type bearerKey struct{}

// WithBearerToken overrides the stored credential for calls made with ctx.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func bearerFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(bearerKey{}).(string)
	return token, ok && token != ""
}

// BackendClient performs JSON requests against the remote fee service.
type BackendClient struct {
	baseURL     string
	client      *http.Client
	credentials CredentialSource
	observer    RemoteObserver
	logger      *zap.Logger
}

// NewBackendClient constructs a client. A zero timeout leaves requests bounded only by ctx.
func NewBackendClient(cfg config.BackendConfig, credentials CredentialSource, observer RemoteObserver, logger *zap.Logger) *BackendClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackendClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		client:      &http.Client{Timeout: cfg.Timeout},
		credentials: credentials,
		observer:    observer,
		logger:      logger,
	}
}

type remoteCall struct {
	operation string
	method    string
	path      string
	body      interface{}
	auth      bool
}

// do executes the call and returns the raw response body of a 2xx response.
func (c *BackendClient) do(ctx context.Context, call remoteCall) ([]byte, error) {
	start := time.Now()
	payload, status, err := c.send(ctx, call)
	duration := time.Since(start)

	outcome := OutcomeSuccess
	switch {
	case appErrors.IsCode(err, appErrors.ErrTransport.Code):
		outcome = OutcomeTransportError
	case err != nil:
		outcome = OutcomeRemoteError
	}
	if c.observer != nil {
		c.observer.ObserveRemoteCall(call.operation, outcome, duration)
	}

	fields := []zap.Field{
		zap.String("operation", call.operation),
		zap.String("method", call.method),
		zap.String("path", call.path),
		zap.Int("status", status),
		zap.Duration("latency", duration),
	}
	if err != nil {
		c.logger.Warn("remote call failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	c.logger.Debug("remote call", fields...)
	return payload, nil
}

func (c *BackendClient) send(ctx context.Context, call remoteCall) ([]byte, int, error) {
	var reader io.Reader
	if call.body != nil {
		raw, err := json.Marshal(call.body)
		if err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, call.method, c.baseURL+call.path, reader)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if call.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if call.auth {
		token, err := c.token(ctx)
		if err != nil {
			return nil, 0, err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, appErrors.ErrTransport.Message)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to read fee service response")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, resp.StatusCode, appErrors.Remote(resp.StatusCode, remoteMessage(resp.StatusCode, payload))
	}
	return payload, resp.StatusCode, nil
}

func (c *BackendClient) token(ctx context.Context) (string, error) {
	if token, ok := bearerFromContext(ctx); ok {
		return token, nil
	}
	if c.credentials == nil {
		return "", nil
	}
	token, err := c.credentials.Token(ctx)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read bearer credential")
	}
	return strings.TrimSpace(token), nil
}

// remoteMessage extracts a human readable message from a failed response.
func remoteMessage(status int, payload []byte) string {
	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err == nil {
		for _, key := range []string{"error", "message"} {
			if msg, ok := body[key].(string); ok && strings.TrimSpace(msg) != "" {
				return msg
			}
		}
	}
	if text := strings.TrimSpace(string(payload)); text != "" {
		return text
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("fee service returned status %d", status)
}

// decodeJSON unmarshals a response body, treating an empty body as absent.
func decodeJSON(payload []byte, dest interface{}) (bool, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "unexpected fee service response")
	}
	return true, nil
}

// IsNotFound reports whether err is a remote 404 or a local not-found error.
func IsNotFound(err error) bool {
	var appErr *appErrors.Error
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == appErrors.ErrNotFound.Code || (appErr.Code == appErrors.ErrRemote.Code && appErr.Status == http.StatusNotFound)
}
