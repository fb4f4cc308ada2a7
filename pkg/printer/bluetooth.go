package printer

import (
	"context"
	"sync"
	"time"
)

// The Bluetooth stack is consumed through the narrow seam below. The
// connection manager, formatter and transport never see the concrete host
// API, so the whole connect/print flow can be driven by fakes in tests.

// Characteristic is a writable GATT endpoint on a peripheral.
type Characteristic interface {
	// Writable reports whether the characteristic accepts writes (with or
	// without acknowledgement).
	Writable() bool
	// Write sends one chunk of bytes to the characteristic.
	Write(p []byte) error
}

// DeviceService is a GATT service exposing characteristics.
type DeviceService interface {
	Characteristics() ([]Characteristic, error)
}

// Device is a connected peripheral.
type Device interface {
	Name() string
	Services() ([]DeviceService, error)
	// OnDisconnect registers a single observer invoked when the peripheral
	// drops the connection. The manager uses it to clear its handle.
	OnDisconnect(func())
	Close() error
}

// Radio finds and connects peripherals.
type Radio interface {
	// Supported reports whether the host has a usable Bluetooth adapter.
	Supported() bool
	// Find scans for a printer peripheral and connects to it. When filtered
	// is true the scan is scoped to known printer service UUIDs; otherwise
	// any matching paired device is accepted.
	Find(ctx context.Context, filtered bool) (Device, error)
}

// BluetoothConfig tunes the connection manager and its transport.
type BluetoothConfig struct {
	ChunkSize  int
	WriteDelay time.Duration
}

// BluetoothPrinter manages a single connection to a Bluetooth thermal
// printer: Disconnected -> Connecting -> Connected -> Disconnected. At most
// one device handle is live at a time, and print jobs against it are
// serialized. There is no automatic reconnect; after an unexpected drop the
// caller must Connect again.
type BluetoothPrinter struct {
	radio      radioIface
	chunkSize  int
	writeDelay time.Duration

	// mu guards the connection state; printMu serializes whole print jobs
	// so the state can still be observed (and cleared by a remote
	// disconnect) while a transmission is in flight.
	mu         sync.Mutex
	printMu    sync.Mutex
	connecting bool
	device     Device
	char       Characteristic
}

// radioIface is what the manager actually needs; identical to Radio but kept
// unexported so tests can hand in minimal fakes.
type radioIface interface {
	Supported() bool
	Find(ctx context.Context, filtered bool) (Device, error)
}

// NewBluetoothPrinter creates a connection manager over the given radio.
func NewBluetoothPrinter(radio Radio, cfg BluetoothConfig) *BluetoothPrinter {
	return newBluetoothPrinter(radio, cfg)
}

func newBluetoothPrinter(radio radioIface, cfg BluetoothConfig) *BluetoothPrinter {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.WriteDelay <= 0 {
		cfg.WriteDelay = DefaultWriteDelay
	}
	return &BluetoothPrinter{
		radio:      radio,
		chunkSize:  cfg.ChunkSize,
		writeDelay: cfg.WriteDelay,
	}
}

// Supported reports whether Bluetooth printing can work on this host.
func (p *BluetoothPrinter) Supported() bool {
	return p.radio.Supported()
}

// Connect establishes a connection to a thermal printer. It tries a
// discovery scan scoped to known printer service UUIDs first and falls back
// to an unfiltered scan, then walks every service's characteristics and
// selects the first writable one. A second Connect while one is in flight is
// rejected with ErrConnectInProgress.
func (p *BluetoothPrinter) Connect(ctx context.Context) error {
	if !p.radio.Supported() {
		return ErrNotSupported
	}

	p.mu.Lock()
	if p.connecting {
		p.mu.Unlock()
		return ErrConnectInProgress
	}
	if p.device != nil && p.char != nil {
		p.mu.Unlock()
		return nil
	}
	p.connecting = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.connecting = false
		p.mu.Unlock()
	}()

	dev, err := p.radio.Find(ctx, true)
	if err != nil {
		dev, err = p.radio.Find(ctx, false)
		if err != nil {
			return err
		}
	}

	char, err := firstWritableCharacteristic(dev)
	if err != nil {
		_ = dev.Close()
		return err
	}

	p.mu.Lock()
	p.device = dev
	p.char = char
	p.mu.Unlock()

	dev.OnDisconnect(func() {
		// Remote drop: clear the handle so IsConnected flips immediately.
		// An in-flight transmission is not aborted; its next chunk write
		// will fail on its own.
		p.mu.Lock()
		if p.device == dev {
			p.device = nil
			p.char = nil
		}
		p.mu.Unlock()
	})

	return nil
}

func firstWritableCharacteristic(dev Device) (Characteristic, error) {
	services, err := dev.Services()
	if err != nil {
		return nil, err
	}
	for _, svc := range services {
		chars, err := svc.Characteristics()
		if err != nil {
			continue
		}
		for _, c := range chars {
			if c.Writable() {
				return c, nil
			}
		}
	}
	return nil, ErrNoWritableCharacteristic
}

// Disconnect terminates the link. It is idempotent: disconnecting while
// already disconnected is a successful no-op.
func (p *BluetoothPrinter) Disconnect() error {
	p.mu.Lock()
	dev := p.device
	p.device = nil
	p.char = nil
	p.mu.Unlock()

	if dev == nil {
		return nil
	}
	return dev.Close()
}

// IsConnected is true only while both the device handle and its writable
// characteristic are present.
func (p *BluetoothPrinter) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.device != nil && p.char != nil
}

// DeviceName returns the display name of the connected peripheral, and false
// when nothing is connected.
func (p *BluetoothPrinter) DeviceName() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.device == nil {
		return "", false
	}
	return p.device.Name(), true
}

// Print sends raw ESC/POS bytes to the connected printer in chunks. The
// whole job is one blocking sequence; overlapping Print calls are serialized
// on the connection. Once chunk transmission begins it runs to completion or
// failure; a transport error does not force a disconnect.
func (p *BluetoothPrinter) Print(data []byte) error {
	p.printMu.Lock()
	defer p.printMu.Unlock()

	p.mu.Lock()
	char := p.char
	connected := p.device != nil && char != nil
	p.mu.Unlock()
	if !connected {
		return ErrNotConnected
	}

	return WriteChunked(char, data, p.chunkSize, p.writeDelay)
}

// Close implements Printer by disconnecting.
func (p *BluetoothPrinter) Close() error {
	return p.Disconnect()
}
