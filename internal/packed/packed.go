// Package packed declares fixed-layout little-endian binary records.
//
// The records are described once, up front, as an ordered list of
// fixed-width fields (raw byte blocks, u32 or u64 scalars). Each record
// self-checks its total size against the caller-supplied constant at
// construction time, the same way github.com/bwesterb/go-xmssmt asserts
// Params.PrivateKeySize()/WotsSignatureSize() against the RFC's constants
// rather than trusting the arithmetic blind.
package packed

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash"
)

// registry caches declared Records by a non-cryptographic digest of their
// name, so repeated NewRecord calls for the same name (e.g. from package
// init in tests that import this package twice under different build tags)
// return the already-validated instance instead of re-running the
// self-check.
var (
	registryMu sync.Mutex
	registry   = map[uint64]*Record{}
)

func registryKey(name string) uint64 {
	return xxhash.Sum64String(name)
}

// FieldKind is the wire type of a single record field.
type FieldKind uint8

const (
	Bytes FieldKind = iota
	U32
	U64
)

// Field describes one named, fixed-width field of a Record.
type Field struct {
	Name string
	Kind FieldKind
	Size int // byte width; for U32/U64 must equal 4/8
}

// Record is a compile-time-known fixed-layout struct.
type Record struct {
	name   string
	fields []Field
	size   int
	offset map[string]int
}

// NewRecord declares a record from its ordered fields and asserts that its
// total encoded size equals want. A mismatch is a programmer error and
// panics immediately, the same way the teacher's init()-time parameter
// tables are checked eagerly rather than on first use.
func NewRecord(name string, want int, fields ...Field) *Record {
	key := registryKey(name)
	registryMu.Lock()
	if cached, ok := registry[key]; ok {
		registryMu.Unlock()
		return cached
	}
	registryMu.Unlock()

	r := &Record{name: name, fields: fields, offset: make(map[string]int, len(fields))}
	off := 0
	for _, f := range fields {
		switch f.Kind {
		case U32:
			if f.Size != 4 {
				panic(name + ": field " + f.Name + ": U32 must have Size 4")
			}
		case U64:
			if f.Size != 8 {
				panic(name + ": field " + f.Name + ": U64 must have Size 8")
			}
		}
		r.offset[f.Name] = off
		off += f.Size
	}
	r.size = off
	if r.size != want {
		panic(name + ": declared layout size " + itoa(r.size) + " does not match expected " + itoa(want))
	}

	registryMu.Lock()
	registry[key] = r
	registryMu.Unlock()
	return r
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Size is the fixed encoded size of the record, in bytes.
func (r *Record) Size() int { return r.size }

// Builder accumulates field values before Pack.
type Builder struct {
	rec *Record
	buf []byte
}

// NewBuilder starts a fresh, zero-filled builder for this record.
func (r *Record) NewBuilder() *Builder {
	return &Builder{rec: r, buf: make([]byte, r.size)}
}

func (b *Builder) fieldSize(name string) int {
	for _, f := range b.rec.fields {
		if f.Name == name {
			return f.Size
		}
	}
	panic(b.rec.name + ": no such field " + name)
}

// PutBytes writes v into the named byte-block field, right-padded with
// zeros. A value longer than the field is a caller error and panics.
func (b *Builder) PutBytes(name string, v []byte) *Builder {
	off, ok := b.rec.offset[name]
	if !ok {
		panic(b.rec.name + ": no such field " + name)
	}
	size := b.fieldSize(name)
	if len(v) > size {
		panic(b.rec.name + ": field " + name + ": value longer than field")
	}
	copy(b.buf[off:off+size], v)
	return b
}

// PutU32 writes a little-endian uint32 into the named field.
func (b *Builder) PutU32(name string, v uint32) *Builder {
	off := b.rec.offset[name]
	binary.LittleEndian.PutUint32(b.buf[off:off+4], v)
	return b
}

// PutU64 writes a little-endian uint64 into the named field.
func (b *Builder) PutU64(name string, v uint64) *Builder {
	off := b.rec.offset[name]
	binary.LittleEndian.PutUint64(b.buf[off:off+8], v)
	return b
}

// Bytes returns the packed record. The returned slice is owned by the
// caller; the builder must not be reused after this call.
func (b *Builder) Bytes() []byte { return b.buf }

// View reads fields back out of a packed buffer of exactly Size() bytes.
type View struct {
	rec *Record
	buf []byte
}

// Unpack wraps buf (which must be exactly Size() bytes) for field reads.
func (r *Record) Unpack(buf []byte) (*View, error) {
	if len(buf) != r.size {
		return nil, errBadSize(r.name, r.size, len(buf))
	}
	return &View{rec: r, buf: buf}, nil
}

func errBadSize(name string, want, got int) error {
	return &sizeError{name: name, want: want, got: got}
}

type sizeError struct {
	name      string
	want, got int
}

func (e *sizeError) Error() string {
	return e.name + ": expected " + itoa(e.want) + " bytes, got " + itoa(e.got)
}

// Bytes returns a copy of the named byte-block field.
func (v *View) Bytes(name string) []byte {
	off, ok := v.rec.offset[name]
	if !ok {
		panic(v.rec.name + ": no such field " + name)
	}
	size := v.fieldSize(name)
	out := make([]byte, size)
	copy(out, v.buf[off:off+size])
	return out
}

func (v *View) fieldSize(name string) int {
	for _, f := range v.rec.fields {
		if f.Name == name {
			return f.Size
		}
	}
	panic(v.rec.name + ": no such field " + name)
}

// U32 reads the named little-endian uint32 field.
func (v *View) U32(name string) uint32 {
	off := v.rec.offset[name]
	return binary.LittleEndian.Uint32(v.buf[off : off+4])
}

// U64 reads the named little-endian uint64 field.
func (v *View) U64(name string) uint64 {
	off := v.rec.offset[name]
	return binary.LittleEndian.Uint64(v.buf[off : off+8])
}
