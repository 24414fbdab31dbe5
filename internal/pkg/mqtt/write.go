package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anicoll/aksm-integration/internal/pkg/aksm"
	"github.com/anicoll/aksm-integration/internal/pkg/publisher"
)

var configuredDevices = make(map[string]struct{})

func (s *service) Write(ctx context.Context, data []map[string]any) error {
	for _, d := range data {
		if err := s.publishState(d); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDevice announces a device row to Home Assistant once per
// process lifetime. Group rows never reach this point.
func (s *service) RegisterDevice(building string, device aksm.DeviceRecord) error {
	identifier := fmt.Sprintf("%s_%s", publisher.Slug(building), publisher.Slug(device.Name))
	if _, exists := configuredDevices[identifier]; exists {
		return nil
	}

	registerMessage := defaultRegisterMsg(identifier, building, device)
	topic := fmt.Sprintf("homeassistant/sensor/%s/config", identifier)

	payload, err := json.Marshal(registerMessage)
	if err != nil {
		return err
	}
	token := s.client.Publish(topic, 1, true, payload)
	if err := token.Error(); err != nil {
		return err
	}
	if res := token.WaitTimeout(time.Second * 5); res {
		configuredDevices[identifier] = struct{}{}
		return nil
	}
	return nil
}

func (s *service) publishState(data map[string]any) error {
	topic := fmt.Sprintf("homeassistant/sensor/%s/%s/state", data["identifier"], data["slug"])

	payload := map[string]string{
		"value":   asString(data["value"]),
		"status":  asString(data["status"]),
		"alarm":   asString(data["alarm"]),
		"online":  asString(data["online"]),
		"defrost": asString(data["defrost"]),
	}

	publishData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	token := s.client.Publish(topic, 0, false, publishData)
	res := token.WaitTimeout(time.Second * 10)
	if res {
		return nil
	}
	if err := token.Error(); err != nil {
		return err
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func defaultRegisterMsg(identifier, building string, device aksm.DeviceRecord) RegisterMessage {
	name := fmt.Sprintf("%s %s", building, device.Name)
	model := device.ModelName
	if model == "" {
		model = "AK-SM"
	}

	return RegisterMessage{
		Tilda:      fmt.Sprintf("homeassistant/sensor/%s", identifier),
		Name:       name,
		ID:         identifier,
		StateTopic: "~/state",
		Device: RegisterDevice{
			Name:         name,
			Identifiers:  []string{identifier},
			Model:        model,
			Manufacturer: "Danfoss",
		},
	}
}
