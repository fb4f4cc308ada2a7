package printer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"
)

// GATT identifiers commonly advertised by BLE receipt printers. The scan is
// scoped to these services first; the characteristic set decides which
// endpoints count as writable, since the host stack does not expose write
// property flags for remote characteristics.
var (
	printerServiceUUIDs = []bluetooth.UUID{
		bluetooth.New16BitUUID(0x18F0), // common ESC/POS printer service
		bluetooth.New16BitUUID(0xFF00),
		bluetooth.New16BitUUID(0xFFE0),
	}
	writableCharUUIDs = map[bluetooth.UUID]bool{
		bluetooth.New16BitUUID(0x2AF1): true, // printer data in
		bluetooth.New16BitUUID(0xFF02): true,
		bluetooth.New16BitUUID(0xFFE1): true,
		bluetooth.New16BitUUID(0xAE01): true,
	}
)

// RadioConfig selects the peripheral and bounds the scan.
type RadioConfig struct {
	// DeviceName matches peripherals whose advertised name contains this
	// string (case-insensitive). Empty matches the first device found.
	DeviceName string
	// ScanTimeout bounds one discovery pass.
	ScanTimeout time.Duration
}

// bleRadio is the tinygo-bluetooth backed Radio.
type bleRadio struct {
	cfg RadioConfig

	enableOnce sync.Once
	enableErr  error
	adapter    *bluetooth.Adapter

	mu         sync.Mutex
	onDropByID map[string]func()
}

// NewRadio creates a Radio over the host's default Bluetooth adapter.
func NewRadio(cfg RadioConfig) Radio {
	if cfg.ScanTimeout <= 0 {
		cfg.ScanTimeout = 10 * time.Second
	}
	return &bleRadio{
		cfg:        cfg,
		adapter:    bluetooth.DefaultAdapter,
		onDropByID: make(map[string]func()),
	}
}

// Supported reports whether the default adapter can be enabled. The result
// is cached: a host either has a usable stack or it does not.
func (r *bleRadio) Supported() bool {
	return r.enable() == nil
}

func (r *bleRadio) enable() error {
	r.enableOnce.Do(func() {
		r.enableErr = r.adapter.Enable()
		if r.enableErr == nil {
			r.adapter.SetConnectHandler(func(dev bluetooth.Device, connected bool) {
				if connected {
					return
				}
				r.mu.Lock()
				cb := r.onDropByID[dev.Address.String()]
				delete(r.onDropByID, dev.Address.String())
				r.mu.Unlock()
				if cb != nil {
					cb()
				}
			})
		}
	})
	return r.enableErr
}

// Find scans for a printer peripheral and connects to it.
func (r *bleRadio) Find(ctx context.Context, filtered bool) (Device, error) {
	if err := r.enable(); err != nil {
		return nil, ErrNotSupported
	}

	result, err := r.scan(ctx, filtered)
	if err != nil {
		return nil, err
	}

	dev, err := r.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("printer: connect to %s: %w", result.Address.String(), err)
	}

	name := result.LocalName()
	if name == "" {
		name = result.Address.String()
	}
	return &bleDevice{radio: r, dev: dev, name: name, filtered: filtered}, nil
}

func (r *bleRadio) scan(ctx context.Context, filtered bool) (bluetooth.ScanResult, error) {
	found := make(chan bluetooth.ScanResult, 1)
	timer := time.AfterFunc(r.cfg.ScanTimeout, func() { _ = r.adapter.StopScan() })
	defer timer.Stop()

	stop := context.AfterFunc(ctx, func() { _ = r.adapter.StopScan() })
	defer stop()

	err := r.adapter.Scan(func(adapter *bluetooth.Adapter, res bluetooth.ScanResult) {
		if !r.matches(res, filtered) {
			return
		}
		_ = adapter.StopScan()
		select {
		case found <- res:
		default:
		}
	})
	if err != nil {
		return bluetooth.ScanResult{}, fmt.Errorf("printer: bluetooth scan: %w", err)
	}

	select {
	case res := <-found:
		return res, nil
	default:
	}
	if ctx.Err() != nil {
		return bluetooth.ScanResult{}, fmt.Errorf("printer: device selection cancelled: %w", ctx.Err())
	}
	return bluetooth.ScanResult{}, ErrDeviceNotFound
}

func (r *bleRadio) matches(res bluetooth.ScanResult, filtered bool) bool {
	if r.cfg.DeviceName != "" &&
		!strings.Contains(strings.ToLower(res.LocalName()), strings.ToLower(r.cfg.DeviceName)) {
		return false
	}
	if !filtered {
		return true
	}
	for _, uuid := range printerServiceUUIDs {
		if res.HasServiceUUID(uuid) {
			return true
		}
	}
	return false
}

// bleDevice adapts a connected tinygo device to the Device seam.
type bleDevice struct {
	radio    *bleRadio
	dev      bluetooth.Device
	name     string
	filtered bool
}

func (d *bleDevice) Name() string { return d.name }

func (d *bleDevice) Services() ([]DeviceService, error) {
	// Scoped service discovery on the filtered path; the fallback path
	// enumerates everything the device offers.
	var filter []bluetooth.UUID
	if d.filtered {
		filter = printerServiceUUIDs
	}
	svcs, err := d.dev.DiscoverServices(filter)
	if err != nil {
		return nil, fmt.Errorf("printer: discover services: %w", err)
	}
	out := make([]DeviceService, 0, len(svcs))
	for _, svc := range svcs {
		out = append(out, &bleService{svc: svc})
	}
	return out, nil
}

func (d *bleDevice) OnDisconnect(cb func()) {
	d.radio.mu.Lock()
	d.radio.onDropByID[d.dev.Address.String()] = cb
	d.radio.mu.Unlock()
}

func (d *bleDevice) Close() error {
	d.radio.mu.Lock()
	delete(d.radio.onDropByID, d.dev.Address.String())
	d.radio.mu.Unlock()
	return d.dev.Disconnect()
}

type bleService struct {
	svc bluetooth.DeviceService
}

func (s *bleService) Characteristics() ([]Characteristic, error) {
	chars, err := s.svc.DiscoverCharacteristics(nil)
	if err != nil {
		return nil, fmt.Errorf("printer: discover characteristics: %w", err)
	}
	out := make([]Characteristic, 0, len(chars))
	for _, c := range chars {
		out = append(out, &bleCharacteristic{char: c})
	}
	return out, nil
}

type bleCharacteristic struct {
	char bluetooth.DeviceCharacteristic
}

func (c *bleCharacteristic) Writable() bool {
	return writableCharUUIDs[c.char.UUID()]
}

func (c *bleCharacteristic) Write(p []byte) error {
	_, err := c.char.WriteWithoutResponse(p)
	return err
}
