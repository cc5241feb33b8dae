// Package arena implements a bump allocator with savepoints and
// non-owning string views, the shared allocation substrate for a
// single conversation turn's JSON values, parsed segments, and tool
// call argument trees.
package arena

const (
	alignment        = 8
	defaultBlockSize = 64 * 1024
)

type block struct {
	data []byte
	used int
}

// Arena is a linked list of byte blocks. Allocations bump a pointer in
// the current block; overflow allocates a new block sized at
// max(request, default). Every slice returned by Alloc remains valid
// until the next Reset.
type Arena struct {
	blocks      []*block
	current     int
	defaultSize int
}

// New creates an arena whose first block is at least initialSize
// bytes, or the 64KB default when initialSize is 0.
func New(initialSize int) *Arena {
	size := initialSize
	if size <= 0 {
		size = defaultBlockSize
	}
	a := &Arena{defaultSize: size}
	a.blocks = append(a.blocks, newBlock(size))
	return a
}

func newBlock(size int) *block {
	return &block{data: make([]byte, size)}
}

func alignSize(n int) int {
	return (n + alignment - 1) &^ (alignment - 1)
}

// Alloc returns n word-aligned bytes from the arena. Alloc(0) returns
// nil.
func (a *Arena) Alloc(n int) []byte {
	if n == 0 {
		return nil
	}
	aligned := alignSize(n)
	cur := a.blocks[a.current]

	if cur.used+aligned > len(cur.data) {
		size := a.defaultSize
		if aligned > size {
			size = aligned
		}
		cur = newBlock(size)
		a.blocks = append(a.blocks, cur)
		a.current = len(a.blocks) - 1
	}

	ptr := cur.data[cur.used : cur.used+n : cur.used+aligned]
	cur.used += aligned
	return ptr
}

// Calloc allocates count*size zeroed bytes. Go slices from Alloc are
// already zeroed, so this is Alloc with a multiplication helper kept
// for parity with the arena's C ancestor.
func (a *Arena) Calloc(count, size int) []byte {
	return a.Alloc(count * size)
}

// StrdupN copies b into the arena and returns a view over the copy.
func (a *Arena) StrdupN(b []byte) View {
	if len(b) == 0 {
		return View{}
	}
	dst := a.Alloc(len(b))
	copy(dst, b)
	return View{Data: dst, Length: len(b)}
}

// MakeView wraps b as a view without copying. b must already be
// arena-backed (or otherwise live for as long as the view is used) —
// callers that hold transient bytes should use StrdupN instead.
func MakeView(b []byte) View {
	return View{Data: b, Length: len(b)}
}

// Savepoint is an opaque token identifying a point in the arena's
// allocation history.
type Savepoint struct {
	blockIndex int
	used       int
}

// Savepoint captures the current block's used offset.
func (a *Arena) Savepoint() Savepoint {
	return Savepoint{blockIndex: a.current, used: a.blocks[a.current].used}
}

// Restore rewinds the arena to sp. This is only a correctness
// guarantee when no new block was appended since sp was taken; if a
// new block has since been appended, Restore is a best-effort no-op
// and callers must not rely on cross-block rollback.
func (a *Arena) Restore(sp Savepoint) {
	if sp.blockIndex != a.current {
		return
	}
	if sp.used > len(a.blocks[a.current].data) {
		return
	}
	a.blocks[a.current].used = sp.used
}

// Reset frees every block except the first and zeroes its used
// offset. Every pointer issued before Reset is invalid afterward.
func (a *Arena) Reset() {
	first := a.blocks[0]
	first.used = 0
	a.blocks = a.blocks[:1]
	a.current = 0
}

// Destroy releases the arena's backing memory. Go's GC reclaims the
// blocks once unreferenced; Destroy exists so callers have an explicit
// teardown point that mirrors the arena's reference implementation.
func (a *Arena) Destroy() {
	a.blocks = nil
	a.current = 0
}
