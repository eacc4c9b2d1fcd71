package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/ssargent/coincidence/pkg/frequency"
)

const (
	countsSize = frequency.AlphabetSize * 8
	// HeaderSize is CRC32(4) + Timestamp(8) + InputSize(8) + Counts(208) + SourceSize(4).
	HeaderSize = 4 + 8 + 8 + countsSize + 4
	// MaxSourceSize bounds the source label.
	MaxSourceSize = 4096
)

var (
	ErrShortRecord    = errors.New("data too short for record")
	ErrChecksum       = errors.New("CRC32 mismatch")
	ErrSourceTooLarge = errors.New("source label too large")
)

// Record represents one stored analysis
type Record struct {
	CRC32       uint32                // CRC32 checksum for integrity
	Timestamp   uint64                // Unix timestamp in nanoseconds
	InputSize   uint64                // Number of bytes analyzed
	Occurrences frequency.Occurrences // Letter counts
	Source      string                // Where the text came from
}

// RecordCodec handles serialization and deserialization of records
type RecordCodec struct{}

// NewRecordCodec creates a new record codec instance
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{}
}

// NewRecord creates a new record with current timestamp
func NewRecord(source string, inputSize uint64, occ frequency.Occurrences) *Record {
	return &Record{
		Timestamp:   uint64(time.Now().UnixNano()),
		InputSize:   inputSize,
		Occurrences: occ,
		Source:      source,
	}
}

// Encode serializes a record, filling in its checksum
func (c *RecordCodec) Encode(r *Record) ([]byte, error) {
	if len(r.Source) > MaxSourceSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrSourceTooLarge, len(r.Source), MaxSourceSize)
	}

	buf := make([]byte, r.Size())
	r.putBody(buf[4:])
	r.CRC32 = crc32.ChecksumIEEE(buf[4:])
	binary.LittleEndian.PutUint32(buf[0:], r.CRC32)

	return buf, nil
}

// Decode deserializes a binary record into a Record struct
func (c *RecordCodec) Decode(data []byte) (*Record, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: header needs %d bytes, got %d", ErrShortRecord, HeaderSize, len(data))
	}

	r := &Record{}
	r.CRC32 = binary.LittleEndian.Uint32(data[0:4])
	r.Timestamp = binary.LittleEndian.Uint64(data[4:12])
	r.InputSize = binary.LittleEndian.Uint64(data[12:20])
	for i := range r.Occurrences {
		offset := 20 + i*8
		r.Occurrences[i] = binary.LittleEndian.Uint64(data[offset : offset+8])
	}

	sourceSize := binary.LittleEndian.Uint32(data[HeaderSize-4 : HeaderSize])
	if sourceSize > MaxSourceSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrSourceTooLarge, sourceSize, MaxSourceSize)
	}
	if len(data) < HeaderSize+int(sourceSize) {
		return nil, fmt.Errorf("%w: source needs %d bytes, got %d", ErrShortRecord, sourceSize, len(data)-HeaderSize)
	}
	r.Source = string(data[HeaderSize : HeaderSize+int(sourceSize)])

	return r, nil
}

// Validate checks the integrity of a record using CRC32
func (r *Record) Validate() error {
	if sum := r.calculateCRC32(); r.CRC32 != sum {
		return fmt.Errorf("%w: %d != %d", ErrChecksum, r.CRC32, sum)
	}
	return nil
}

// Size returns the total size of the record when encoded
func (r *Record) Size() int {
	return HeaderSize + len(r.Source)
}

// Analysis derives the statistics of the stored table
func (r *Record) Analysis() frequency.Analysis {
	return frequency.FromOccurrences(r.Occurrences, r.InputSize)
}

// Time returns the record timestamp
func (r *Record) Time() time.Time {
	return time.Unix(0, int64(r.Timestamp))
}

// putBody writes every field after the CRC32 into buf
func (r *Record) putBody(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:], r.Timestamp)
	binary.LittleEndian.PutUint64(buf[8:], r.InputSize)
	for i, n := range r.Occurrences {
		binary.LittleEndian.PutUint64(buf[16+i*8:], n)
	}
	binary.LittleEndian.PutUint32(buf[16+countsSize:], uint32(len(r.Source)))
	copy(buf[20+countsSize:], r.Source)
}

// calculateCRC32 computes CRC32 checksum for record data (excluding the CRC field itself)
func (r *Record) calculateCRC32() uint32 {
	buf := make([]byte, r.Size()-4)
	r.putBody(buf)
	return crc32.ChecksumIEEE(buf)
}
