// Package codec provides record serialization and deserialization for stored
// analyses.
//
// A record keeps the letter occurrence table of an analyzed text rather than
// the derived statistics. Kappa plaintext, the index of coincidence and the
// language guess are recomputed from the table after decoding, so degenerate
// results (NaN) survive a round trip exactly and the format does not depend on
// any floating point encoding.
//
// # Record Format
//
// Records are serialized in a binary format with the following structure:
//
//	[CRC32(4)][Timestamp(8)][InputSize(8)][Counts(26*8)][SourceSize(4)][Source]
//
// Fields:
//   - CRC32: 32-bit CRC checksum for integrity validation (little-endian)
//   - Timestamp: 64-bit Unix timestamp in nanoseconds (little-endian)
//   - InputSize: 64-bit number of bytes that were analyzed (little-endian)
//   - Counts: 26 64-bit letter counters, 'a' first (little-endian)
//   - SourceSize: 32-bit length of the source label in bytes (little-endian)
//   - Source: Variable-length label naming where the text came from
//
// The total record size is: 232 bytes (header) + len(source)
//
// The CRC32 checksum is calculated over every field that follows it.
//
// # Usage
//
//	codec := codec.NewRecordCodec()
//
//	encoded, err := codec.Encode(codec.NewRecord("stdin", uint64(len(text)), frequency.Count(text)))
//	if err != nil {
//	    return err
//	}
//
//	record, err := codec.Decode(encoded)
//	if err != nil {
//	    return err
//	}
//	if err := record.Validate(); err != nil {
//	    return err // Record is corrupted
//	}
//
// # Thread Safety
//
// RecordCodec instances are safe for concurrent use. Decoded records copy
// nothing out of the input buffer except the source label.
package codec
