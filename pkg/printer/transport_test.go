package printer

import (
	"bytes"
	"errors"
	"testing"
)

type recordingLink struct {
	writes  [][]byte
	failAt  int // fail on the nth write (1-based), 0 = never
	written int
}

func (l *recordingLink) Write(p []byte) error {
	l.written++
	if l.failAt > 0 && l.written == l.failAt {
		return errors.New("gatt write rejected")
	}
	chunk := make([]byte, len(p))
	copy(chunk, p)
	l.writes = append(l.writes, chunk)
	return nil
}

func TestWriteChunkedChunkingLaw(t *testing.T) {
	tests := []struct {
		length     int
		wantWrites int
	}{
		{0, 0},
		{1, 1},
		{19, 1},
		{20, 1},
		{21, 2},
		{40, 2},
		{41, 3},
		{100, 5},
	}

	for _, tt := range tests {
		data := make([]byte, tt.length)
		for i := range data {
			data[i] = byte(i % 251)
		}
		link := &recordingLink{}
		if err := WriteChunked(link, data, 20, 0); err != nil {
			t.Fatalf("len %d: unexpected error: %v", tt.length, err)
		}
		if len(link.writes) != tt.wantWrites {
			t.Fatalf("len %d: expected %d writes, got %d", tt.length, tt.wantWrites, len(link.writes))
		}
		var joined []byte
		for _, w := range link.writes {
			if len(w) > 20 {
				t.Fatalf("len %d: chunk exceeds 20 bytes: %d", tt.length, len(w))
			}
			joined = append(joined, w...)
		}
		if !bytes.Equal(joined, data) {
			t.Fatalf("len %d: chunks do not concatenate back to the original buffer", tt.length)
		}
	}
}

func TestWriteChunkedPreservesOrder(t *testing.T) {
	data := []byte("abcdefghijklmnopqrstuvwxyz0123456789")
	link := &recordingLink{}
	if err := WriteChunked(link, data, 10, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(link.writes[0]) != "abcdefghij" || string(link.writes[3]) != "456789" {
		t.Fatalf("chunks out of order: %q", link.writes)
	}
}

func TestWriteChunkedAbortsOnFailure(t *testing.T) {
	data := make([]byte, 100)
	link := &recordingLink{failAt: 3}
	err := WriteChunked(link, data, 20, 0)
	if err == nil {
		t.Fatalf("expected transport error")
	}
	// Two chunks were accepted before the failure; nothing after it.
	if len(link.writes) != 2 {
		t.Fatalf("expected transmission aborted after 2 accepted chunks, got %d", len(link.writes))
	}
	if link.written != 3 {
		t.Fatalf("expected no retry of failed chunk, got %d write attempts", link.written)
	}
}

func TestWriteChunkedDefaultsChunkSize(t *testing.T) {
	data := make([]byte, 45)
	link := &recordingLink{}
	if err := WriteChunked(link, data, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(link.writes) != 3 {
		t.Fatalf("expected default 20-byte chunking (3 writes), got %d", len(link.writes))
	}
}
