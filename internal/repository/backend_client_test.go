package repository

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fee-tracker-console/pkg/config"
	appErrors "github.com/noah-isme/fee-tracker-console/pkg/errors"
)

type staticCredentials struct {
	token string
	err   error
}

func (s staticCredentials) Token(context.Context) (string, error) { return s.token, s.err }

type recordedCall struct {
	operation string
	outcome   string
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *recordingObserver) ObserveRemoteCall(operation, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{operation: operation, outcome: outcome})
}

func newTestBackend(t *testing.T, handler http.HandlerFunc, creds CredentialSource) (*BackendClient, *recordingObserver) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	observer := &recordingObserver{}
	client := NewBackendClient(config.BackendConfig{BaseURL: srv.URL + "/"}, creds, observer, nil)
	return client, observer
}

func TestBackendClientRemoteErrorMessage(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "error field", status: http.StatusBadRequest, body: `{"error":"admission taken","message":"ignored"}`, message: "admission taken"},
		{name: "message field", status: http.StatusConflict, body: `{"message":"duplicate"}`, message: "duplicate"},
		{name: "raw text", status: http.StatusInternalServerError, body: "database down", message: "database down"},
		{name: "status text", status: http.StatusNotFound, body: "", message: "Not Found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, observer := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}, nil)

			_, err := client.do(context.Background(), remoteCall{operation: "probe", method: http.MethodGet, path: "/probe"})
			require.Error(t, err)
			var appErr *appErrors.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, appErrors.ErrRemote.Code, appErr.Code)
			assert.Equal(t, tc.status, appErr.Status)
			assert.Equal(t, tc.message, appErr.Message)
			assert.Equal(t, []recordedCall{{operation: "probe", outcome: OutcomeRemoteError}}, observer.calls)
		})
	}
}

func TestBackendClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	observer := &recordingObserver{}
	client := NewBackendClient(config.BackendConfig{BaseURL: url}, nil, observer, nil)
	_, err := client.do(context.Background(), remoteCall{operation: "probe", method: http.MethodGet, path: "/"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrTransport))
	assert.Equal(t, OutcomeTransportError, observer.calls[0].outcome)
}

func TestBackendClientBearerHeader(t *testing.T) {
	var (
		mu  sync.Mutex
		got []string
	)
	handler := func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, r.Header.Get("Authorization"))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}

	client, _ := newTestBackend(t, handler, staticCredentials{token: "stored"})
	ctx := context.Background()

	_, err := client.do(ctx, remoteCall{operation: "a", method: http.MethodPost, path: "/", auth: true})
	require.NoError(t, err)
	_, err = client.do(WithBearerToken(ctx, "override"), remoteCall{operation: "b", method: http.MethodPost, path: "/", auth: true})
	require.NoError(t, err)
	_, err = client.do(ctx, remoteCall{operation: "c", method: http.MethodGet, path: "/"})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Bearer stored", "Bearer override", ""}, got)
}

func TestBackendClientOmitsEmptyBearer(t *testing.T) {
	headers := make(chan []string, 1)
	client, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Values("Authorization")
	}, staticCredentials{token: "  "})

	_, err := client.do(context.Background(), remoteCall{operation: "a", method: http.MethodPost, path: "/", auth: true})
	require.NoError(t, err)
	assert.Empty(t, <-headers)
}

func TestBackendClientHonoursCancellation(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, nil)
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.do(ctx, remoteCall{operation: "slow", method: http.MethodGet, path: "/"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
