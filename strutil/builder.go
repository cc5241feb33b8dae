package strutil

import (
	"fmt"

	"github.com/onagent/onagent/arena"
)

const minGrowthFactor = 1.5

// Builder is a heap-backed growable byte buffer, used for transient
// assembly: the streaming parser's internal buffers, the JSON
// serializer's output and the tool-description rendering. Converted to
// arena-backed views by copy via View.
type Builder struct {
	data []byte
}

// NewBuilder creates a Builder with the given initial capacity.
func NewBuilder(initialCapacity int) *Builder {
	if initialCapacity < 0 {
		initialCapacity = 0
	}
	return &Builder{data: make([]byte, 0, initialCapacity)}
}

// Len returns the number of bytes currently written.
func (b *Builder) Len() int {
	return len(b.data)
}

// Reserve ensures room for n more bytes; when it must grow, the new
// capacity is max(cap*1.5, len+n).
func (b *Builder) Reserve(n int) {
	need := len(b.data) + n
	if need <= cap(b.data) {
		return
	}
	grown := int(float64(cap(b.data)) * minGrowthFactor)
	if grown < need {
		grown = need
	}
	next := make([]byte, len(b.data), grown)
	copy(next, b.data)
	b.data = next
}

// WriteByte appends a single byte. A call with nothing to append is
// never a no-op by definition, but empty/null append elsewhere in this
// package is.
func (b *Builder) WriteByte(c byte) {
	b.Reserve(1)
	b.data = append(b.data, c)
}

// Write appends raw bytes. Empty input is a no-op.
func (b *Builder) Write(p []byte) {
	if len(p) == 0 {
		return
	}
	b.Reserve(len(p))
	b.data = append(b.data, p...)
}

// WriteString appends a string. Empty input is a no-op.
func (b *Builder) WriteString(s string) {
	if s == "" {
		return
	}
	b.Reserve(len(s))
	b.data = append(b.data, s...)
}

// WriteView appends the bytes referenced by an arena view.
func (b *Builder) WriteView(v arena.View) {
	b.Write(v.Bytes())
}

// Writef appends a printf-style formatted string.
func (b *Builder) Writef(format string, args ...any) {
	b.WriteString(fmt.Sprintf(format, args...))
}

// Bytes returns the accumulated bytes. The returned slice aliases the
// builder's internal buffer and must not be retained across further
// writes.
func (b *Builder) Bytes() []byte {
	return b.data
}

// String returns the accumulated bytes as a string (copies).
func (b *Builder) String() string {
	return string(b.data)
}

// HasSuffix reports whether the accumulated bytes end with suffix.
func (b *Builder) HasSuffix(suffix []byte) bool {
	if len(suffix) > len(b.data) {
		return false
	}
	tail := b.data[len(b.data)-len(suffix):]
	for i := range suffix {
		if tail[i] != suffix[i] {
			return false
		}
	}
	return true
}

// Reset clears the buffer without releasing capacity.
func (b *Builder) Reset() {
	b.data = b.data[:0]
}

// View copies the accumulated bytes into the arena and returns a view
// over the copy.
func (b *Builder) View(a *arena.Arena) arena.View {
	return a.StrdupN(b.data)
}
