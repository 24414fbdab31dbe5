package panels

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/anicoll/aksm-integration/internal/pkg/aksm"
)

// mockClient routes each outbound command to a canned response keyed by
// the encoded action.
type mockClient struct {
	SendFunc func(ctx context.Context, target aksm.Target, body string) (*aksm.Response, error)
	calls    atomic.Int32
}

func (m *mockClient) Send(ctx context.Context, target aksm.Target, body string) (*aksm.Response, error) {
	m.calls.Add(1)
	return m.SendFunc(ctx, target, body)
}

func newTestService(t *testing.T, client deviceClient) *Service {
	t.Helper()
	original := zap.L()
	zap.ReplaceGlobals(zaptest.NewLogger(t))
	t.Cleanup(func() { zap.ReplaceGlobals(original) })
	return New(client)
}

func respondByAction(responses map[string]string) func(context.Context, aksm.Target, string) (*aksm.Response, error) {
	return func(_ context.Context, _ aksm.Target, body string) (*aksm.Response, error) {
		for action, res := range responses {
			if strings.Contains(body, `action="`+action+`"`) {
				return &aksm.Response{StatusCode: 200, Body: res}, nil
			}
		}
		return &aksm.Response{StatusCode: 200, Body: `<resp error="0"/>`}, nil
	}
}

func TestSnapshot_AllPanels(t *testing.T) {
	client := &mockClient{SendFunc: respondByAction(map[string]string{
		aksm.ActionReadDevices: `<resp action="read_devices" error="0">` +
			`<device nodetype="255" name="Rack A"/>` +
			`<device nodetype="16" name="Freezer A1" value="-18.2" alarm="0"/>` +
			`</resp>`,
		aksm.ActionReadDeviceAlarms: `<resp action="read_device_alarms" error="0">` +
			`<val n="1" descr="High temp" state="1"/>` +
			`<val n="2" descr="Cleared" state="0"/>` +
			`</resp>`,
		aksm.ActionReadInputs: `<resp action="read_inputs" error="0"><val n="1" descr="Door" val="0"/></resp>`,
	})}

	svc := newTestService(t, client)
	snap, err := svc.Snapshot(context.Background(), aksm.Target{Host: "h", Port: 443})
	require.NoError(t, err)

	assert.Len(t, snap.Devices, 2)
	assert.Len(t, snap.Alarms, 2)
	assert.Len(t, snap.Inputs, 1)
	assert.Empty(t, snap.DeviceErrors)
	assert.Equal(t, int32(3), client.calls.Load())

	controllers := snap.Controllers()
	require.Len(t, controllers, 1)
	assert.Equal(t, "Freezer A1", controllers[0].Name)
	assert.Equal(t, 1, snap.ActiveAlarms())
}

func TestSnapshot_DeviceErrorIsDataNotFailure(t *testing.T) {
	client := &mockClient{SendFunc: respondByAction(map[string]string{
		aksm.ActionReadDevices:      `<resp action="read_devices" error="0"><device name="a" nodetype="16"/></resp>`,
		aksm.ActionReadDeviceAlarms: `<resp action="read_device_alarms" error="3"/>`,
		aksm.ActionReadInputs:       `<resp action="read_inputs" error="0"/>`,
	})}

	svc := newTestService(t, client)
	snap, err := svc.Snapshot(context.Background(), aksm.Target{Host: "h", Port: 443})
	require.NoError(t, err)

	assert.Len(t, snap.Devices, 1)
	assert.Equal(t, "device error: 3", snap.DeviceErrors["alarms"])
}

func TestSnapshot_TransportErrorFailsSnapshot(t *testing.T) {
	client := &mockClient{SendFunc: func(_ context.Context, _ aksm.Target, body string) (*aksm.Response, error) {
		if strings.Contains(body, aksm.ActionReadInputs) {
			return nil, &aksm.TransportError{Kind: aksm.ErrTimeout, URL: "https://h:443/html/xml.cgi", Err: errors.New("deadline exceeded")}
		}
		return &aksm.Response{StatusCode: 200, Body: `<resp error="0"/>`}, nil
	}}

	svc := newTestService(t, client)
	_, err := svc.Snapshot(context.Background(), aksm.Target{Host: "h", Port: 443})
	require.Error(t, err)
	assert.True(t, errors.Is(err, aksm.ErrTimeout))
}

func TestSnapshot_GarbageBodyFailsSnapshot(t *testing.T) {
	client := &mockClient{SendFunc: func(_ context.Context, _ aksm.Target, body string) (*aksm.Response, error) {
		if strings.Contains(body, aksm.ActionReadDevices) {
			return &aksm.Response{StatusCode: 200, Body: "<<<not xml"}, nil
		}
		return &aksm.Response{StatusCode: 200, Body: `<resp error="0"/>`}, nil
	}}

	svc := newTestService(t, client)
	_, err := svc.Snapshot(context.Background(), aksm.Target{Host: "h", Port: 443})
	require.Error(t, err)

	var pe *aksm.ParseError
	assert.True(t, errors.As(err, &pe))
}
