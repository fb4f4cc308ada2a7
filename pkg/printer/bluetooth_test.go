package printer

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

// --- Fakes for the radio seam ---

type fakeChar struct {
	writable bool
	writes   [][]byte
	failNext bool
}

func (c *fakeChar) Writable() bool { return c.writable }

func (c *fakeChar) Write(p []byte) error {
	if c.failNext {
		return errors.New("peripheral rejected write")
	}
	chunk := make([]byte, len(p))
	copy(chunk, p)
	c.writes = append(c.writes, chunk)
	return nil
}

func (c *fakeChar) joined() []byte {
	var out []byte
	for _, w := range c.writes {
		out = append(out, w...)
	}
	return out
}

type fakeService struct {
	chars []Characteristic
}

func (s *fakeService) Characteristics() ([]Characteristic, error) { return s.chars, nil }

type fakeDevice struct {
	name     string
	services []DeviceService
	onDrop   func()
	closed   bool
}

func (d *fakeDevice) Name() string                      { return d.name }
func (d *fakeDevice) Services() ([]DeviceService, error) { return d.services, nil }
func (d *fakeDevice) OnDisconnect(cb func())            { d.onDrop = cb }
func (d *fakeDevice) Close() error                      { d.closed = true; return nil }

type fakeRadio struct {
	supported   bool
	filteredDev *fakeDevice
	anyDev      *fakeDevice
	filteredErr error
	anyErr      error
	findCalls   []bool
	entered     chan struct{} // signalled once per Find call
	block       chan struct{} // when set, Find waits until closed
}

func (r *fakeRadio) Supported() bool { return r.supported }

func (r *fakeRadio) Find(ctx context.Context, filtered bool) (Device, error) {
	r.findCalls = append(r.findCalls, filtered)
	if r.entered != nil {
		r.entered <- struct{}{}
	}
	if r.block != nil {
		<-r.block
	}
	if filtered {
		if r.filteredErr != nil {
			return nil, r.filteredErr
		}
		return r.filteredDev, nil
	}
	if r.anyErr != nil {
		return nil, r.anyErr
	}
	return r.anyDev, nil
}

func deviceWithWritableChar(name string) (*fakeDevice, *fakeChar) {
	char := &fakeChar{writable: true}
	dev := &fakeDevice{
		name: name,
		services: []DeviceService{
			&fakeService{chars: []Characteristic{&fakeChar{writable: false}, char}},
		},
	}
	return dev, char
}

// --- Tests ---

func TestConnectFilteredDiscovery(t *testing.T) {
	dev, _ := deviceWithWritableChar("RPP02N")
	radio := &fakeRadio{supported: true, filteredDev: dev}
	p := newBluetoothPrinter(radio, BluetoothConfig{})

	if err := p.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !p.IsConnected() {
		t.Fatalf("expected connected state")
	}
	if len(radio.findCalls) != 1 || !radio.findCalls[0] {
		t.Fatalf("expected a single filtered discovery, got %v", radio.findCalls)
	}
	name, ok := p.DeviceName()
	if !ok || name != "RPP02N" {
		t.Fatalf("expected device name RPP02N, got %q (%v)", name, ok)
	}
}

func TestConnectFallsBackToUnfilteredDiscovery(t *testing.T) {
	dev, _ := deviceWithWritableChar("generic")
	radio := &fakeRadio{
		supported:   true,
		filteredErr: ErrDeviceNotFound,
		anyDev:      dev,
	}
	p := newBluetoothPrinter(radio, BluetoothConfig{})

	if err := p.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if len(radio.findCalls) != 2 || radio.findCalls[0] != true || radio.findCalls[1] != false {
		t.Fatalf("expected filtered then unfiltered discovery, got %v", radio.findCalls)
	}
}

func TestConnectNoWritableCharacteristic(t *testing.T) {
	dev := &fakeDevice{
		name: "mute",
		services: []DeviceService{
			&fakeService{chars: []Characteristic{&fakeChar{writable: false}}},
			&fakeService{},
		},
	}
	radio := &fakeRadio{supported: true, filteredDev: dev}
	p := newBluetoothPrinter(radio, BluetoothConfig{})

	err := p.Connect(context.Background())
	if !errors.Is(err, ErrNoWritableCharacteristic) {
		t.Fatalf("expected ErrNoWritableCharacteristic, got %v", err)
	}
	if p.IsConnected() {
		t.Fatalf("must not report connected after failed connect")
	}
	if !dev.closed {
		t.Fatalf("device should be released when no characteristic is usable")
	}
}

func TestConnectNotSupported(t *testing.T) {
	radio := &fakeRadio{supported: false}
	p := newBluetoothPrinter(radio, BluetoothConfig{})

	if err := p.Connect(context.Background()); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported, got %v", err)
	}
	if len(radio.findCalls) != 0 {
		t.Fatalf("no device interaction may happen on an unsupported host")
	}
}

func TestConcurrentConnectRejected(t *testing.T) {
	dev, _ := deviceWithWritableChar("printer")
	radio := &fakeRadio{
		supported:   true,
		filteredDev: dev,
		entered:     make(chan struct{}, 2),
		block:       make(chan struct{}),
	}
	p := newBluetoothPrinter(radio, BluetoothConfig{})

	first := make(chan error, 1)
	go func() { first <- p.Connect(context.Background()) }()

	// Wait for the first attempt to enter discovery.
	<-radio.entered

	if err := p.Connect(context.Background()); !errors.Is(err, ErrConnectInProgress) {
		t.Fatalf("expected ErrConnectInProgress for overlapping connect, got %v", err)
	}

	close(radio.block)
	if err := <-first; err != nil {
		t.Fatalf("first connect: %v", err)
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	dev, _ := deviceWithWritableChar("printer")
	radio := &fakeRadio{supported: true, filteredDev: dev}
	p := newBluetoothPrinter(radio, BluetoothConfig{})

	if err := p.Disconnect(); err != nil {
		t.Fatalf("disconnect while disconnected must no-op, got %v", err)
	}
	if err := p.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := p.Disconnect(); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if !dev.closed {
		t.Fatalf("expected device closed")
	}
	if p.IsConnected() {
		t.Fatalf("expected disconnected state")
	}
	if err := p.Disconnect(); err != nil {
		t.Fatalf("second disconnect must no-op, got %v", err)
	}
}

func TestRemoteDisconnectClearsState(t *testing.T) {
	dev, _ := deviceWithWritableChar("printer")
	radio := &fakeRadio{supported: true, filteredDev: dev}
	p := newBluetoothPrinter(radio, BluetoothConfig{})

	if err := p.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !p.IsConnected() {
		t.Fatalf("expected connected state")
	}

	// Peripheral drops the link on its own.
	dev.onDrop()

	if p.IsConnected() {
		t.Fatalf("IsConnected must flip false after a remote disconnect")
	}
	if _, ok := p.DeviceName(); ok {
		t.Fatalf("device name must be absent after a remote disconnect")
	}
}

func TestPrintRequiresConnection(t *testing.T) {
	radio := &fakeRadio{supported: true}
	p := newBluetoothPrinter(radio, BluetoothConfig{})

	if err := p.Print([]byte{1, 2, 3}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestPrintChunksThroughCharacteristic(t *testing.T) {
	dev, char := deviceWithWritableChar("printer")
	radio := &fakeRadio{supported: true, filteredDev: dev}
	p := newBluetoothPrinter(radio, BluetoothConfig{ChunkSize: 20, WriteDelay: 1})

	if err := p.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	data := make([]byte, 50)
	for i := range data {
		data[i] = byte(i)
	}
	if err := p.Print(data); err != nil {
		t.Fatalf("print: %v", err)
	}
	if len(char.writes) != 3 {
		t.Fatalf("expected 3 chunk writes for 50 bytes, got %d", len(char.writes))
	}
	if !bytes.Equal(char.joined(), data) {
		t.Fatalf("transmitted bytes differ from the command buffer")
	}
}

func TestPrintFailureLeavesConnectionIntact(t *testing.T) {
	dev, char := deviceWithWritableChar("printer")
	radio := &fakeRadio{supported: true, filteredDev: dev}
	p := newBluetoothPrinter(radio, BluetoothConfig{})

	if err := p.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	char.failNext = true
	if err := p.Print([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected transport error")
	}
	// A transport error does not force a disconnect.
	if !p.IsConnected() {
		t.Fatalf("connection must remain in its previous state after a transport error")
	}
}
