package printer

import "errors"

// Sentinel errors for printer connection and transport failures.
var (
	// ErrNotSupported means the host has no usable Bluetooth stack. Every
	// other Bluetooth operation fails fast with this error before any
	// device interaction is attempted.
	ErrNotSupported = errors.New("printer: bluetooth is not supported on this host")

	// ErrNotConnected is returned by print operations attempted without a
	// live connection. No bytes are built or sent.
	ErrNotConnected = errors.New("printer: no printer connected")

	// ErrConnectInProgress is returned when Connect is called while another
	// connect attempt is still in flight.
	ErrConnectInProgress = errors.New("printer: connect already in progress")

	// ErrNoWritableCharacteristic means both discovery strategies ran out
	// without finding a characteristic we can write to.
	ErrNoWritableCharacteristic = errors.New("printer: no writable characteristic found on device")

	// ErrDeviceNotFound means scanning finished without a matching peripheral.
	ErrDeviceNotFound = errors.New("printer: no matching bluetooth device found")
)
