package dense

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/janelia-flyem/densevdb/vdb"
)

// chunkValues bounds the temporary encoding buffer used when streaming values.
const chunkValues = 1 << 16

// writeValues encodes values little-endian in storage order, a chunk at a time.
func writeValues[T vdb.Value](w io.Writer, data []T) error {
	for beg := 0; beg < len(data); beg += chunkValues {
		end := beg + chunkValues
		if end > len(data) {
			end = len(data)
		}
		if err := binary.Write(w, binary.LittleEndian, data[beg:end]); err != nil {
			return err
		}
	}
	return nil
}

// Checksum returns the xxhash of the little-endian encoding of the values in
// storage order.  Buffers with equal values and layout have equal checksums.
func (d *Dense[T]) Checksum() uint64 {
	h := xxhash.New()
	if err := writeValues(h, d.data); err != nil {
		vdb.Errorf("unable to checksum %s: %v\n", d, err) // hash.Hash never errors
	}
	return h.Sum64()
}

// Codec is the compression applied to a raw value stream.
type Codec uint8

const (
	Uncompressed Codec = iota
	Zstd
	Snappy
)

func (codec Codec) String() string {
	switch codec {
	case Uncompressed:
		return "none"
	case Zstd:
		return "zstd"
	case Snappy:
		return "snappy"
	default:
		return fmt.Sprintf("codec(%d)", uint8(codec))
	}
}

// ParseCodec converts "none", "zstd" or "snappy" into a Codec.  An empty string
// means no compression.
func ParseCodec(s string) (Codec, error) {
	switch s {
	case "", "none":
		return Uncompressed, nil
	case "zstd":
		return Zstd, nil
	case "snappy":
		return Snappy, nil
	default:
		return 0, fmt.Errorf("unknown raw codec %q, expected none, zstd or snappy", s)
	}
}

// WriteRaw writes the buffer's values little-endian in storage order through the
// given codec.  The bounding box, layout and codec are not recorded.
func WriteRaw[T vdb.Value](w io.Writer, d *Dense[T], codec Codec) error {
	switch codec {
	case Uncompressed:
		return writeValues(w, d.data)
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("creating zstd encoder: %w", err)
		}
		if err := writeValues(enc, d.data); err != nil {
			enc.Close()
			return fmt.Errorf("writing zstd values: %w", err)
		}
		return enc.Close()
	case Snappy:
		enc := snappy.NewBufferedWriter(w)
		if err := writeValues(enc, d.data); err != nil {
			enc.Close()
			return fmt.Errorf("writing snappy values: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("illegal %s when writing %s", codec, d)
	}
}

// ReadRaw reads a buffer written by WriteRaw with the same codec.  The stream
// must hold exactly the number of values in bbox.
func ReadRaw[T vdb.Value](r io.Reader, bbox vdb.CoordBBox, layout Layout, codec Codec) (*Dense[T], error) {
	var zero T
	d, err := NewWithLayout(bbox, layout, zero)
	if err != nil {
		return nil, err
	}
	switch codec {
	case Uncompressed:
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer dec.Close()
		r = dec
	case Snappy:
		r = snappy.NewReader(r)
	default:
		return nil, fmt.Errorf("illegal %s when reading %s", codec, bbox)
	}
	for beg := 0; beg < len(d.data); beg += chunkValues {
		end := beg + chunkValues
		if end > len(d.data) {
			end = len(d.data)
		}
		if err := binary.Read(r, binary.LittleEndian, d.data[beg:end]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("raw data ends before %d values of %s", len(d.data), bbox)
			}
			return nil, err
		}
	}
	var extra [1]byte
	if n, _ := io.ReadFull(r, extra[:]); n != 0 {
		return nil, fmt.Errorf("raw data holds more than %d values of %s", len(d.data), bbox)
	}
	return d, nil
}
