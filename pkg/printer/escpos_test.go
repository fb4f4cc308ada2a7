package printer

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewDocumentStartsWithInit(t *testing.T) {
	d := NewDocument(32)
	got := d.Bytes()
	if !bytes.Equal(got, []byte{ESC, '@'}) {
		t.Fatalf("expected ESC @ init sequence, got %v", got)
	}
}

func TestCommandOpcodes(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Document)
		want  []byte
	}{
		{"align center", func(d *Document) { d.SetAlign(AlignCenter) }, []byte{ESC, 'a', 1}},
		{"align right", func(d *Document) { d.SetAlign(AlignRight) }, []byte{ESC, 'a', 2}},
		{"bold on", func(d *Document) { d.SetBold(true) }, []byte{ESC, 'E', 1}},
		{"bold off", func(d *Document) { d.SetBold(false) }, []byte{ESC, 'E', 0}},
		{"font double", func(d *Document) { d.SetFontSize(FontDouble) }, []byte{GS, '!', 0x11}},
		{"full cut", func(d *Document) { d.Cut() }, []byte{GS, 'V', 0}},
		{"partial cut", func(d *Document) { d.PartialCut() }, []byte{GS, 'V', 1}},
		{"line feed", func(d *Document) { d.LineFeed() }, []byte{LF}},
	}

	for _, tt := range tests {
		d := NewDocument(32)
		tt.build(d)
		got := d.Bytes()[2:] // skip init
		if !bytes.Equal(got, tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestSeparatorFillsWidth(t *testing.T) {
	d := NewDocument(32)
	d.Separator('=')
	line := string(d.Bytes()[2:])
	if line != strings.Repeat("=", 32)+"\n" {
		t.Fatalf("unexpected separator line %q", line)
	}
}

func TestFeedLines(t *testing.T) {
	d := NewDocument(32)
	d.FeedLines(3)
	if got := d.Bytes()[2:]; !bytes.Equal(got, []byte{LF, LF, LF}) {
		t.Fatalf("expected 3 line feeds, got %v", got)
	}
}

func TestKeyValueLinesAreExactlyWidth(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"Bill No:", "INV-0042"},
		{"Customer:", "Asha"},
		{"A:", "B"},
		{"Payment:", "UPI"},
	}
	for _, tt := range tests {
		d := NewDocument(32)
		d.KeyValue(tt.key, tt.value)
		line := strings.TrimSuffix(string(d.Bytes()[2:]), "\n")
		if len(line) != 32 {
			t.Fatalf("KeyValue(%q, %q) produced %d chars: %q", tt.key, tt.value, len(line), line)
		}
		if !strings.HasPrefix(line, tt.key) {
			t.Fatalf("line %q does not start with key %q", line, tt.key)
		}
		if !strings.HasSuffix(line, tt.value) {
			t.Fatalf("value's last character must land at column 32, got %q", line)
		}
	}
}

func TestKeyValueTruncatesLongKey(t *testing.T) {
	d := NewDocument(32)
	key := strings.Repeat("k", 40)
	d.KeyValue(key, "VALUE")
	line := strings.TrimSuffix(string(d.Bytes()[2:]), "\n")
	if len(line) != 32 {
		t.Fatalf("expected 32 chars, got %d: %q", len(line), line)
	}
	if !strings.HasSuffix(line, " VALUE") {
		t.Fatalf("expected single space then value at line end, got %q", line)
	}
	if !strings.HasPrefix(line, strings.Repeat("k", 26)) {
		t.Fatalf("expected key truncated to 26 chars, got %q", line)
	}
}

func TestKeyValueOversizedValue(t *testing.T) {
	d := NewDocument(32)
	d.KeyValue("Key:", strings.Repeat("v", 40))
	line := strings.TrimSuffix(string(d.Bytes()[2:]), "\n")
	if len(line) != 32 {
		t.Fatalf("expected value clamped to 32 chars, got %d", len(line))
	}
}

func TestResetReinitializes(t *testing.T) {
	d := NewDocument(32)
	d.Text("hello").Separator('-')
	d.Reset()
	if got := d.Bytes(); !bytes.Equal(got, []byte{ESC, '@'}) {
		t.Fatalf("expected buffer reset to init sequence, got %v", got)
	}
}
