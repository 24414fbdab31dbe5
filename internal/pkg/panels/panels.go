package panels

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anicoll/aksm-integration/internal/pkg/aksm"
)

// deviceClient is the slice of the transport gateway this package
// needs.
type deviceClient interface {
	Send(ctx context.Context, target aksm.Target, body string) (*aksm.Response, error)
}

// Service fetches the dashboard panel set for a building target. It is
// stateless; one Service may serve concurrent snapshots of different
// targets.
type Service struct {
	client deviceClient
	logger *zap.Logger
}

func New(client deviceClient) *Service {
	return &Service{client: client, logger: zap.L()}
}

// Snapshot is one poll of the three dashboard panels.
type Snapshot struct {
	Devices []aksm.DeviceRecord
	Alarms  []aksm.ValRecord
	Inputs  []aksm.ValRecord
	// DeviceErrors holds device-reported failures per panel. They are
	// data, not snapshot failure: the device answered, it just said no.
	DeviceErrors map[string]string
}

// Controllers returns the leaf devices, dropping group header rows.
func (s *Snapshot) Controllers() []aksm.DeviceRecord {
	return lo.Filter(s.Devices, func(d aksm.DeviceRecord, _ int) bool {
		return !d.IsGroup
	})
}

// ActiveAlarms counts alarm rows with a non-zero state.
func (s *Snapshot) ActiveAlarms() int {
	return lo.CountBy(s.Alarms, func(v aksm.ValRecord) bool {
		return v.State != "" && v.State != "0"
	})
}

const (
	panelDevices = "devices"
	panelAlarms  = "alarms"
	panelInputs  = "inputs"
)

// Snapshot polls the refrigeration overview, alarm and input panels
// concurrently. A transport or parse failure on any panel fails the
// whole snapshot; a device-reported error is recorded per panel
// instead. No panel is retried; the caller owns the polling cadence.
func (s *Service) Snapshot(ctx context.Context, target aksm.Target) (*Snapshot, error) {
	snap := &Snapshot{DeviceErrors: map[string]string{}}
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		raw, err := s.fetch(ctx, target, panelDevices, aksm.ActionReadDevices)
		if err != nil {
			return err
		}
		devices := aksm.ExtractDevices(raw)
		mu.Lock()
		defer mu.Unlock()
		snap.Devices = devices
		s.noteDeviceError(snap, panelDevices, raw)
		return nil
	})
	eg.Go(func() error {
		raw, err := s.fetch(ctx, target, panelAlarms, aksm.ActionReadDeviceAlarms)
		if err != nil {
			return err
		}
		alarms := aksm.ExtractVals(raw)
		mu.Lock()
		defer mu.Unlock()
		snap.Alarms = alarms
		s.noteDeviceError(snap, panelAlarms, raw)
		return nil
	})
	eg.Go(func() error {
		raw, err := s.fetch(ctx, target, panelInputs, aksm.ActionReadInputs)
		if err != nil {
			return err
		}
		inputs := aksm.ExtractVals(raw)
		mu.Lock()
		defer mu.Unlock()
		snap.Inputs = inputs
		s.noteDeviceError(snap, panelInputs, raw)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// noteDeviceError records a non-zero device error for a panel. Callers
// must hold the snapshot mutex.
func (s *Service) noteDeviceError(snap *Snapshot, panel, raw string) {
	if msg, ok := aksm.DeviceError(raw); ok {
		s.logger.Warn("panel reported device error",
			zap.String("panel", panel),
			zap.String("message", msg))
		snap.DeviceErrors[panel] = msg
	}
}

func (s *Service) fetch(ctx context.Context, target aksm.Target, panel, action string) (string, error) {
	res, err := s.client.Send(ctx, target, aksm.Encode(aksm.CommandRequest{Action: action}))
	if err != nil {
		return "", fmt.Errorf("%s panel: %w", panel, err)
	}
	// Validate the payload up front so a garbage body fails the panel
	// distinctly from a transport error.
	if _, err := aksm.Decode(res.Body); err != nil {
		return "", fmt.Errorf("%s panel: %w", panel, err)
	}
	return res.Body, nil
}
