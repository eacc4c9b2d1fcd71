//go:build fuzz
// +build fuzz

package codec

import (
	"testing"

	"github.com/ssargent/coincidence/pkg/frequency"
)

// FuzzRecordCodec_RoundTrip tests encode/decode round-trip with random inputs
func FuzzRecordCodec_RoundTrip(f *testing.F) {
	codec := NewRecordCodec()

	f.Add("", []byte(""))
	f.Add("stdin", []byte("the quick brown fox"))
	f.Add("api", []byte{0x00, 0x61, 0xff, 0x7a})

	f.Fuzz(func(t *testing.T, source string, text []byte) {
		if len(source) > MaxSourceSize {
			t.Skip("source too large")
		}

		occ := frequency.Count(text)
		encoded, err := codec.Encode(NewRecord(source, uint64(len(text)), occ))
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}

		record, err := codec.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if err := record.Validate(); err != nil {
			t.Fatalf("Record validation failed: %v", err)
		}

		if record.Occurrences != occ {
			t.Errorf("Occurrences mismatch: got %v, want %v", record.Occurrences, occ)
		}
		if record.Source != source {
			t.Errorf("Source mismatch: got %q, want %q", record.Source, source)
		}
	})
}

// FuzzRecordCodec_Decode checks that arbitrary bytes never panic the decoder
func FuzzRecordCodec_Decode(f *testing.F) {
	codec := NewRecordCodec()

	f.Add([]byte{})
	f.Add(make([]byte, HeaderSize))

	f.Fuzz(func(t *testing.T, data []byte) {
		record, err := codec.Decode(data)
		if err != nil {
			return
		}
		_ = record.Validate()
	})
}
