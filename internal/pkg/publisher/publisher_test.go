package publisher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/anicoll/aksm-integration/internal/pkg/aksm"
)

type mockPublisher struct {
	writes     [][]map[string]any
	registered []string
}

func (m *mockPublisher) Write(_ context.Context, data []map[string]any) error {
	m.writes = append(m.writes, data)
	return nil
}

func (m *mockPublisher) RegisterDevice(building string, device aksm.DeviceRecord) error {
	m.registered = append(m.registered, building+"/"+device.Name)
	return nil
}

func resetRegistry(t *testing.T) {
	t.Helper()
	registeredPublishers = make(map[string]publisher)
	sensors.Range(func(key, _ any) bool {
		sensors.Delete(key)
		return true
	})
	original := zap.L()
	zap.ReplaceGlobals(zaptest.NewLogger(t))
	t.Cleanup(func() { zap.ReplaceGlobals(original) })
}

func TestRegisterPublisher_Duplicate(t *testing.T) {
	resetRegistry(t)
	m := &mockPublisher{}
	require.NoError(t, RegisterPublisher("mock", m))
	assert.ErrorIs(t, RegisterPublisher("mock", m), errAlreadyRegistered)
}

func TestPublishSnapshot_SkipsGroupsAndDedupes(t *testing.T) {
	resetRegistry(t)
	m := &mockPublisher{}
	require.NoError(t, RegisterPublisher("mock", m))

	devices := []aksm.DeviceRecord{
		{Name: "Rack A", NodeType: "255", IsGroup: true},
		{Name: "Freezer A1", Value: "-18.2", Status: "ok"},
		{Value: "1.0"}, // unnamed, skipped
	}

	require.NoError(t, PublishSnapshot(context.Background(), "store-12", devices))
	require.Len(t, m.writes, 1)
	require.Len(t, m.writes[0], 1)
	row := m.writes[0][0]
	assert.Equal(t, "store_12_freezer_a1", row["identifier"])
	assert.Equal(t, "freezer_a1", row["slug"])
	assert.Equal(t, "-18.2", row["value"])

	// Unchanged snapshot publishes no rows.
	require.NoError(t, PublishSnapshot(context.Background(), "store-12", devices))
	require.Len(t, m.writes, 2)
	assert.Empty(t, m.writes[1])

	// A changed value goes through again.
	devices[1].Value = "-17.9"
	require.NoError(t, PublishSnapshot(context.Background(), "store-12", devices))
	require.Len(t, m.writes, 3)
	assert.Len(t, m.writes[2], 1)
}

func TestRegisterDevice_FansOut(t *testing.T) {
	resetRegistry(t)
	m := &mockPublisher{}
	require.NoError(t, RegisterPublisher("mock", m))

	require.NoError(t, RegisterDevice("store-12", aksm.DeviceRecord{Name: "Freezer A1"}))
	assert.Equal(t, []string{"store-12/Freezer A1"}, m.registered)
}
