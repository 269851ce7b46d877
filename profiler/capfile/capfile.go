// Package capfile reads and writes captures in profview's own file format.
//
// A file starts with the magic string "profview capture\x00" and a version byte. The rest of the file is a single
// snappy-compressed block. Uncompressed, the block holds the tick unit in nanoseconds, the name table and the events.
// Events reference names by index, store timestamps as zigzag-encoded deltas to the previous event and thread IDs as
// zigzag-encoded varints, which keeps typical captures small even before compression.
package capfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"honnef.co/go/profview/profiler"

	"github.com/golang/snappy"
)

const Magic = "profview capture\x00"

const Version = 1

var (
	ErrBadMagic = errors.New("capfile: not a profview capture")
	ErrVersion  = errors.New("capfile: unsupported version")
	ErrCorrupt  = errors.New("capfile: corrupt capture")
)

// Sniff reports whether data begins like a capture file.
func Sniff(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Magic))
}

// Encode writes c to w.
func Encode(w io.Writer, c profiler.Capture) error {
	var names []string
	nameIdx := map[string]uint64{}
	for _, ev := range c.Events {
		if _, ok := nameIdx[ev.Name]; !ok {
			nameIdx[ev.Name] = uint64(len(names))
			names = append(names, ev.Name)
		}
	}

	var buf []byte
	buf = binary.AppendUvarint(buf, uint64(c.Unit))
	buf = binary.AppendUvarint(buf, uint64(len(names)))
	for _, name := range names {
		buf = binary.AppendUvarint(buf, uint64(len(name)))
		buf = append(buf, name...)
	}
	buf = binary.AppendUvarint(buf, uint64(len(c.Events)))
	var prev int64
	for _, ev := range c.Events {
		buf = append(buf, byte(ev.Phase))
		buf = binary.AppendUvarint(buf, ev.ID)
		buf = binary.AppendUvarint(buf, nameIdx[ev.Name])
		buf = binary.AppendVarint(buf, ev.Timestamp-prev)
		buf = binary.AppendVarint(buf, ev.ThreadID)
		prev = ev.Timestamp
	}

	if _, err := io.WriteString(w, Magic); err != nil {
		return err
	}
	if _, err := w.Write([]byte{Version}); err != nil {
		return err
	}
	_, err := w.Write(snappy.Encode(nil, buf))
	return err
}

// Decode reads a capture from r.
func Decode(r io.Reader) (profiler.Capture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return profiler.Capture{}, err
	}
	if !Sniff(data) {
		return profiler.Capture{}, ErrBadMagic
	}
	data = data[len(Magic):]
	if len(data) == 0 {
		return profiler.Capture{}, fmt.Errorf("%w: missing version", ErrCorrupt)
	}
	if v := data[0]; v != Version {
		return profiler.Capture{}, fmt.Errorf("%w %d", ErrVersion, v)
	}
	block, err := snappy.Decode(nil, data[1:])
	if err != nil {
		return profiler.Capture{}, fmt.Errorf("%w: %s", ErrCorrupt, err)
	}
	return decodeBlock(block)
}

type reader struct {
	data []byte
	err  error
}

func (r *reader) uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.data)
	if n <= 0 {
		r.err = ErrCorrupt
		return 0
	}
	r.data = r.data[n:]
	return v
}

func (r *reader) varint() int64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Varint(r.data)
	if n <= 0 {
		r.err = ErrCorrupt
		return 0
	}
	r.data = r.data[n:]
	return v
}

func (r *reader) u8() byte {
	if r.err != nil {
		return 0
	}
	if len(r.data) == 0 {
		r.err = ErrCorrupt
		return 0
	}
	b := r.data[0]
	r.data = r.data[1:]
	return b
}

func (r *reader) str(n uint64) string {
	if r.err != nil {
		return ""
	}
	if uint64(len(r.data)) < n {
		r.err = ErrCorrupt
		return ""
	}
	s := string(r.data[:n])
	r.data = r.data[n:]
	return s
}

func decodeBlock(block []byte) (profiler.Capture, error) {
	r := &reader{data: block}
	c := profiler.Capture{Unit: time.Duration(r.uvarint())}

	numNames := r.uvarint()
	// Every name needs at least one byte for its length.
	if numNames > uint64(len(r.data)) {
		return profiler.Capture{}, fmt.Errorf("%w: name table too large", ErrCorrupt)
	}
	names := make([]string, 0, numNames)
	for i := uint64(0); i < numNames && r.err == nil; i++ {
		names = append(names, r.str(r.uvarint()))
	}

	numEvents := r.uvarint()
	// Every event needs at least 5 bytes.
	if numEvents > uint64(len(r.data))/5 {
		return profiler.Capture{}, fmt.Errorf("%w: event table too large", ErrCorrupt)
	}
	if numEvents > 0 {
		c.Events = make([]profiler.Event, 0, numEvents)
	}
	var ts int64
	for i := uint64(0); i < numEvents && r.err == nil; i++ {
		phase := profiler.Phase(r.u8())
		id := r.uvarint()
		name := r.uvarint()
		ts += r.varint()
		tid := r.varint()
		if r.err != nil {
			break
		}
		if !phase.Valid() {
			return profiler.Capture{}, fmt.Errorf("%w: event %d has invalid phase %d", ErrCorrupt, i, phase)
		}
		if name >= uint64(len(names)) {
			return profiler.Capture{}, fmt.Errorf("%w: event %d references unknown name %d", ErrCorrupt, i, name)
		}
		c.Events = append(c.Events, profiler.Event{
			ID:        id,
			Name:      names[name],
			Phase:     phase,
			Timestamp: ts,
			ThreadID:  tid,
		})
	}
	if r.err != nil {
		return profiler.Capture{}, r.err
	}
	if len(r.data) != 0 {
		return profiler.Capture{}, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(r.data))
	}
	return c, nil
}
