//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
)

// createDeviceAndQueue requests a device from adapterID and retrieves its
// default queue. Kept as free functions (rather than Backend methods) so
// they can be unit tested without a live adapter by substituting the
// core.* calls in a later revision.
func createDeviceAndQueue(adapterID core.AdapterID) (core.DeviceID, core.QueueID, error) {
	deviceID, err := core.RequestDevice(adapterID, &gputypes.DeviceDescriptor{
		Label: "icondecomp-device",
	})
	if err != nil {
		return core.DeviceID{}, core.QueueID{}, fmt.Errorf("request device: %w", err)
	}

	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		_ = core.ReleaseDevice(deviceID)
		return core.DeviceID{}, core.QueueID{}, fmt.Errorf("get queue: %w", err)
	}
	return deviceID, queueID, nil
}

func releaseDevice(id core.DeviceID) error {
	if id.IsZero() {
		return nil
	}
	return core.ReleaseDevice(id)
}

func releaseAdapter(id core.AdapterID) error {
	if id.IsZero() {
		return nil
	}
	return core.ReleaseAdapter(id)
}
