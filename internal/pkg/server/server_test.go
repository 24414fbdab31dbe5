package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/anicoll/aksm-integration/internal/pkg/aksm"
)

type mockClient struct {
	SendFunc func(ctx context.Context, target aksm.Target, body string) (*aksm.Response, error)
}

func (m *mockClient) Send(ctx context.Context, target aksm.Target, body string) (*aksm.Response, error) {
	return m.SendFunc(ctx, target, body)
}

func newTestHandler(t *testing.T, client deviceClient) http.Handler {
	t.Helper()
	original := zap.L()
	zap.ReplaceGlobals(zaptest.NewLogger(t))
	t.Cleanup(func() { zap.ReplaceGlobals(original) })

	resolver := StaticResolver{
		"store-12": {Host: "10.1.2.3", Port: 443, Credentials: aksm.Credentials{Username: "svc", Password: "pw"}},
	}
	return New(client, resolver).Handler()
}

func TestPostCommand_PassthroughVerbatim(t *testing.T) {
	var gotTarget aksm.Target
	var gotBody string
	client := &mockClient{SendFunc: func(_ context.Context, target aksm.Target, body string) (*aksm.Response, error) {
		gotTarget = target
		gotBody = body
		return &aksm.Response{StatusCode: 200, Body: `<resp action="read_devices" error="2"/>`}, nil
	}}
	handler := newTestHandler(t, client)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/buildings/store-12/command", strings.NewReader(`<cmd action="read_devices" />`))
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "10.1.2.3", gotTarget.Host)
	assert.Equal(t, "svc", gotTarget.Credentials.Username)
	assert.Equal(t, `<cmd action="read_devices" />`, gotBody)

	// A device-reported error code is data, not an HTTP failure.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, `<resp action="read_devices" error="2"/>`, rec.Body.String())
}

func TestPostCommand_DeviceStatusForwarded(t *testing.T) {
	client := &mockClient{SendFunc: func(_ context.Context, _ aksm.Target, _ string) (*aksm.Response, error) {
		return &aksm.Response{StatusCode: http.StatusServiceUnavailable, Body: "busy"}, nil
	}}
	handler := newTestHandler(t, client)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/buildings/store-12/command", strings.NewReader("<cmd />")))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "busy", rec.Body.String())
}

func TestPostCommand_TimeoutIs504(t *testing.T) {
	client := &mockClient{SendFunc: func(_ context.Context, _ aksm.Target, _ string) (*aksm.Response, error) {
		return nil, &aksm.TransportError{Kind: aksm.ErrTimeout, URL: "https://10.1.2.3:443/html/xml.cgi", Err: errors.New("deadline exceeded")}
	}}
	handler := newTestHandler(t, client)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/buildings/store-12/command", strings.NewReader("<cmd />")))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Contains(t, rec.Body.String(), "deadline exceeded")
}

func TestPostCommand_UnreachableIs502(t *testing.T) {
	client := &mockClient{SendFunc: func(_ context.Context, _ aksm.Target, _ string) (*aksm.Response, error) {
		return nil, &aksm.TransportError{Kind: aksm.ErrUnreachable, URL: "https://10.1.2.3:443/html/xml.cgi", Err: errors.New("connection refused")}
	}}
	handler := newTestHandler(t, client)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/buildings/store-12/command", strings.NewReader("<cmd />")))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestPostCommand_UnknownBuilding(t *testing.T) {
	client := &mockClient{SendFunc: func(_ context.Context, _ aksm.Target, _ string) (*aksm.Response, error) {
		t.Fatal("must not reach the device")
		return nil, nil
	}}
	handler := newTestHandler(t, client)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/buildings/nope/command", strings.NewReader("<cmd />")))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostCommand_EmptyBody(t *testing.T) {
	client := &mockClient{SendFunc: func(_ context.Context, _ aksm.Target, _ string) (*aksm.Response, error) {
		t.Fatal("must not reach the device")
		return nil, nil
	}}
	handler := newTestHandler(t, client)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/buildings/store-12/command", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStaticResolver(t *testing.T) {
	resolver := StaticResolver{"a": {Host: "h", Port: 1}}

	target, err := resolver.Resolve(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "h", target.Host)

	_, err = resolver.Resolve(context.Background(), "b")
	assert.ErrorIs(t, err, ErrUnknownBuilding)
}
