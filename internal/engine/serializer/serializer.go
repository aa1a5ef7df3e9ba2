// Package serializer implements the ordered record stream used to save and
// restore scene state. Values are written little-endian, each top-level field
// prefixed by its label; labels are verified on read so a misaligned stream
// fails fast instead of silently corrupting state.
package serializer

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Writer writes a labeled, ordered record stream.
// The first write error sticks; check Err once after a batch of writes.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered, if any.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) writeRaw(v any) {
	if w.err != nil {
		return
	}
	w.err = binary.Write(w.w, binary.LittleEndian, v)
}

func (w *Writer) writeLabel(label string) {
	if w.err != nil {
		return
	}
	if len(label) > 255 {
		w.err = fmt.Errorf("label too long: %q", label)
		return
	}
	w.writeRaw(uint8(len(label)))
	if w.err == nil {
		_, w.err = w.w.Write([]byte(label))
	}
}

func (w *Writer) writeString(s string) {
	w.writeRaw(uint16(len(s)))
	if w.err == nil {
		_, w.err = w.w.Write([]byte(s))
	}
}

// WriteInt32 writes a labeled int32 field.
func (w *Writer) WriteInt32(label string, v int32) {
	w.writeLabel(label)
	w.writeRaw(v)
}

// BeginArray starts a labeled array. Items follow unlabeled; the caller is
// expected to have written an element count as a separate field.
func (w *Writer) BeginArray(label string) {
	w.writeLabel(label)
}

// EndArray closes the current array. Present for call-site symmetry; the
// stream carries no terminator since counts are explicit.
func (w *Writer) EndArray() {}

// ItemInt32 writes an unlabeled array item.
func (w *Writer) ItemInt32(v int32) { w.writeRaw(v) }

// ItemInt64 writes an unlabeled array item.
func (w *Writer) ItemInt64(v int64) { w.writeRaw(v) }

// ItemFloat32 writes an unlabeled array item.
func (w *Writer) ItemFloat32(v float32) { w.writeRaw(v) }

// ItemBool writes an unlabeled array item.
func (w *Writer) ItemBool(v bool) {
	if v {
		w.writeRaw(uint8(1))
	} else {
		w.writeRaw(uint8(0))
	}
}

// ItemString writes an unlabeled, length-prefixed array item.
func (w *Writer) ItemString(s string) { w.writeString(s) }

// Reader reads a stream produced by Writer, verifying field labels.
// The first read error sticks and zero values are returned thereafter.
type Reader struct {
	r   io.Reader
	err error
}

// NewReader returns a Reader consuming from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) readRaw(v any) {
	if r.err != nil {
		return
	}
	r.err = binary.Read(r.r, binary.LittleEndian, v)
}

func (r *Reader) expectLabel(label string) {
	if r.err != nil {
		return
	}
	var n uint8
	r.readRaw(&n)
	if r.err != nil {
		return
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.err = err
		return
	}
	if string(buf) != label {
		r.err = fmt.Errorf("expected field %q, found %q", label, string(buf))
	}
}

func (r *Reader) readString() string {
	var n uint16
	r.readRaw(&n)
	if r.err != nil {
		return ""
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.err = err
		return ""
	}
	return string(buf)
}

// ReadInt32 reads a labeled int32 field.
func (r *Reader) ReadInt32(label string) int32 {
	r.expectLabel(label)
	var v int32
	r.readRaw(&v)
	return v
}

// BeginArray consumes a labeled array header.
func (r *Reader) BeginArray(label string) {
	r.expectLabel(label)
}

// EndArray closes the current array.
func (r *Reader) EndArray() {}

// ItemInt32 reads an unlabeled array item.
func (r *Reader) ItemInt32() int32 {
	var v int32
	r.readRaw(&v)
	return v
}

// ItemInt64 reads an unlabeled array item.
func (r *Reader) ItemInt64() int64 {
	var v int64
	r.readRaw(&v)
	return v
}

// ItemFloat32 reads an unlabeled array item.
func (r *Reader) ItemFloat32() float32 {
	var v float32
	r.readRaw(&v)
	return v
}

// ItemBool reads an unlabeled array item.
func (r *Reader) ItemBool() bool {
	var v uint8
	r.readRaw(&v)
	return v != 0
}

// ItemString reads an unlabeled, length-prefixed array item.
func (r *Reader) ItemString() string {
	return r.readString()
}
