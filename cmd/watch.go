package cmd

import (
	"context"
	"errors"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anicoll/aksm-integration/internal/pkg/aksm"
	"github.com/anicoll/aksm-integration/internal/pkg/config"
	"github.com/anicoll/aksm-integration/internal/pkg/mqtt"
	"github.com/anicoll/aksm-integration/internal/pkg/panels"
	"github.com/anicoll/aksm-integration/internal/pkg/publisher"
)

var errNoBroker = errors.New("mqtt broker is required (--mqtt-host or MQTT_HOST)")

// WatchCommand polls the dashboard panels and publishes the flattened
// device records to MQTT.
func WatchCommand(ctx *cli.Context) error {
	cfg, err := configFromCli(ctx)
	if err != nil {
		return err
	}
	if cfg.Mqtt.Host == "" {
		return errNoBroker
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	opts := paho_mqtt.NewClientOptions().
		AddBroker(cfg.Mqtt.Host).
		SetUsername(cfg.Mqtt.Username).
		SetPassword(cfg.Mqtt.Password).
		SetClientID("aksm-controller")
	mqttSvc := mqtt.New(paho_mqtt.NewClient(opts))
	if err := mqttSvc.Connect(); err != nil {
		return err
	}
	if err := publisher.RegisterPublisher("mqtt", mqttSvc); err != nil {
		return err
	}

	panelSvc := panels.New(aksm.NewClient(cfg.Device.Timeout))
	target := targetFromConfig(cfg)

	eg, egCtx := errgroup.WithContext(ctx.Context)
	eg.Go(func() error {
		return watchLoop(egCtx, cfg, panelSvc, target, logger)
	})
	return eg.Wait()
}

func watchLoop(ctx context.Context, cfg *config.Config, panelSvc *panels.Service, target aksm.Target, logger *zap.Logger) error {
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := pollOnce(ctx, cfg, panelSvc, target, logger); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// pollOnce is one cadence tick. Transport and parse failures are the
// polling layer's to absorb: they are logged and the next tick tries
// again; the protocol core itself never retries.
func pollOnce(ctx context.Context, cfg *config.Config, panelSvc *panels.Service, target aksm.Target, logger *zap.Logger) error {
	snap, err := panelSvc.Snapshot(ctx, target)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		logger.Warn("snapshot failed, will retry next tick", zap.Error(err))
		return nil
	}

	for _, device := range snap.Controllers() {
		if err := publisher.RegisterDevice(cfg.Building, device); err != nil {
			logger.Error("failed to register device", zap.String("device", device.Name), zap.Error(err))
		}
	}
	if err := publisher.PublishSnapshot(ctx, cfg.Building, snap.Devices); err != nil {
		logger.Error("failed to publish snapshot", zap.Error(err))
	}

	logger.Info("panels polled",
		zap.Int("devices", len(snap.Devices)),
		zap.Int("active_alarms", snap.ActiveAlarms()),
		zap.Int("inputs", len(snap.Inputs)),
		zap.Int("panel_errors", len(snap.DeviceErrors)))
	return nil
}
