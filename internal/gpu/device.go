//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu"

	// Register every HAL backend available on this platform.
	_ "github.com/gogpu/wgpu/hal/allbackends"
)

// Device is an open GPU device and its queue. A Device either owns its
// instance (OpenStandalone) or borrows a device from a host window
// (DeviceFromProvider), in which case Close leaves the device alive.
type Device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	name     string
	external bool // shared device (don't release on Close)
}

// OpenStandalone creates an instance and opens the high-performance adapter.
// It fails with ErrUnavailable when the machine has no real GPU.
func OpenStandalone() (*Device, error) {
	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrUnavailable, err)
	}
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("%w: request adapter: %w", ErrUnavailable, err)
	}
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: request device: %w", ErrUnavailable, err)
	}
	info := adapter.Info()
	// Without a usable backend wgpu falls back to a mock adapter that
	// records nothing.
	if device.HalDevice() == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: adapter %q has no backend device", ErrUnavailable, info.Name)
	}
	slogger().Info("gpu: adapter selected", "name", info.Name, "type", info.DeviceType)
	return &Device{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.Queue(),
		name:     info.Name,
	}, nil
}

// DeviceFromProvider borrows the device of a host window. gogpu hands out
// *wgpu.Device and *wgpu.Queue behind the gpucontext type tokens.
func DeviceFromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	if provider == nil {
		return nil, fmt.Errorf("gpu: nil device provider")
	}
	device, ok := provider.Device().(*wgpu.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpu: provider device %T is not *wgpu.Device", provider.Device())
	}
	queue, ok := provider.Queue().(*wgpu.Queue)
	if !ok || queue == nil {
		queue = device.Queue()
	}
	if queue == nil {
		return nil, fmt.Errorf("gpu: provider device has no queue")
	}
	name := provider.AdapterInfo().Name
	if name == "" {
		name = "shared"
	}
	return &Device{device: device, queue: queue, name: name, external: true}, nil
}

// Name returns the adapter name.
func (d *Device) Name() string { return d.name }

// Close releases the device if it is owned.
func (d *Device) Close() {
	if d == nil {
		return
	}
	if !d.external {
		if d.device != nil {
			d.device.Release()
		}
		if d.adapter != nil {
			d.adapter.Release()
		}
		if d.instance != nil {
			d.instance.Release()
		}
	}
	d.device = nil
	d.queue = nil
	d.adapter = nil
	d.instance = nil
}
