package printer

import (
	"fmt"
	"time"
)

// Transport defaults. 20 bytes stays conservatively below the ATT payload
// most BLE thermal printers negotiate; the delay keeps the peripheral's
// receive buffer from overrunning on long receipts.
const (
	DefaultChunkSize  = 20
	DefaultWriteDelay = 30 * time.Millisecond
)

// Link is the narrow write surface the transport needs from a connected
// peripheral.
type Link interface {
	Write(p []byte) error
}

// WriteChunked delivers data to the link in fixed-size chunks, strictly in
// order, pausing after each write. It blocks until the whole buffer is
// drained or a write fails. There is no per-chunk retry and no resume: on
// failure the remaining chunks are abandoned and a single transport error is
// returned. Chunks already accepted by the link are not retracted.
func WriteChunked(link Link, data []byte, chunkSize int, delay time.Duration) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	for off := 0; off < len(data); off += chunkSize {
		end := off + chunkSize
		if end > len(data) {
			end = len(data)
		}
		if err := link.Write(data[off:end]); err != nil {
			return fmt.Errorf("printer: print failed at byte %d of %d: %w", off, len(data), err)
		}
		if delay > 0 && end < len(data) {
			time.Sleep(delay)
		}
	}
	return nil
}
