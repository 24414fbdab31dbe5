package publisher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/anicoll/aksm-integration/internal/pkg/aksm"
)

var errAlreadyRegistered = errors.New("publisher already registered")

var (
	registeredPublishers = make(map[string]publisher)
	sensors              sync.Map
)

type publisher interface {
	// Write pushes the changed device rows to the adapter.
	Write(ctx context.Context, data []map[string]any) error
	RegisterDevice(building string, device aksm.DeviceRecord) error
}

func RegisterPublisher(name string, p publisher) error {
	if _, ok := registeredPublishers[name]; ok {
		return errAlreadyRegistered
	}
	registeredPublishers[name] = p
	return nil
}

// Slug is the stable identity a device row publishes under. Group
// header rows have no identity of their own.
func Slug(name string) string {
	return strings.Replace(slug.Make(name), "-", "_", -1)
}

// PublishSnapshot hands the changed rows of one refrigeration overview
// to every registered publisher. Group headers and unnamed rows are
// skipped, and rows whose value fingerprint is unchanged since the last
// publish are dropped.
func PublishSnapshot(ctx context.Context, building string, devices []aksm.DeviceRecord) error {
	identifierPrefix := Slug(building)
	data := make([]map[string]any, 0)
	count := 0
	for _, device := range devices {
		if device.IsGroup || device.Name == "" {
			continue
		}
		deviceSlug := Slug(device.Name)
		identifier := fmt.Sprintf("%s_%s", identifierPrefix, deviceSlug)

		fingerprint := strings.Join([]string{device.Value, device.Status, device.Alarm, device.Defrost, device.Online}, "|")
		if !shouldUpdate(identifier, deviceSlug, fingerprint) {
			continue
		}
		count++
		data = append(data, map[string]any{
			"identifier": identifier,
			"slug":       deviceSlug,
			"value":      device.Value,
			"status":     device.Status,
			"alarm":      device.Alarm,
			"online":     device.Online,
			"defrost":    device.Defrost,
			"timestamp":  time.Now(),
		})
	}
	for name, p := range registeredPublishers {
		if err := p.Write(ctx, data); err != nil {
			zap.L().Error("failed to publish data", zap.Error(err), zap.String("publisher", name))
			continue
		}
		zap.L().Debug("updated devices", zap.Int("count", count), zap.String("publisher", name))
	}
	return nil
}

func RegisterDevice(building string, device aksm.DeviceRecord) error {
	for name, p := range registeredPublishers {
		if err := p.RegisterDevice(building, device); err != nil {
			zap.L().Error("failed to register device", zap.Error(err), zap.String("publisher", name))
			continue
		}
		zap.L().Debug("registered device", zap.String("device", device.Name), zap.String("publisher", name))
	}
	return nil
}

func shouldUpdate(identifier, slug, newValue string) bool {
	key := fmt.Sprintf("%s_%s", identifier, slug)
	oldValue, exists := sensors.Load(key)
	if exists && strings.EqualFold(newValue, oldValue.(string)) {
		return false
	}
	if !exists {
		zap.L().Info("configured device row", zap.String("identifier", identifier), zap.String("slug", slug))
	}
	sensors.Store(key, newValue)
	return true
}
