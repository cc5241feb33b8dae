package arena

import (
	"testing"

	"github.com/onagent/onagent/internal/testutil"
)

func TestAllocReturnsRequestedLength(t *testing.T) {
	a := New(0)
	b := a.Alloc(10)
	testutil.RequireEqual(t, len(b), 10, "alloc length")
}

func TestAllocZeroReturnsEmptySlice(t *testing.T) {
	a := New(0)
	b := a.Alloc(0)
	testutil.RequireEqual(t, len(b), 0, "zero alloc length")
}

// TestAllocInvariant exercises the arena invariant from spec.md §8:
// any allocation remains readable and equal in content until reset.
func TestAllocInvariant(t *testing.T) {
	a := New(0)
	first := a.Alloc(16)
	for i := range first {
		first[i] = byte(i + 1)
	}
	// Allocate more, unrelated memory; first must be untouched.
	_ = a.Alloc(32)
	_ = a.Alloc(64)
	for i := range first {
		testutil.RequireEqual(t, first[i], byte(i+1), "allocation content preserved")
	}
}

func TestSavepointRoundTrip(t *testing.T) {
	a := New(0)
	sp := a.Savepoint()
	a.Alloc(8)
	a.Alloc(8)
	a.Restore(sp)
	testutil.RequireEqual(t, a.blocks[a.current].used, sp.used, "restore rewinds used offset")
}

func TestAllocOverflowsToNewBlock(t *testing.T) {
	a := New(64)
	a.Alloc(48)
	testutil.RequireEqual(t, len(a.blocks), 1, "still one block")
	a.Alloc(48)
	testutil.RequireEqual(t, len(a.blocks), 2, "overflow allocates a new block")
}

func TestResetFreesAllButFirstBlock(t *testing.T) {
	a := New(64)
	a.Alloc(48)
	a.Alloc(48)
	testutil.RequireTrue(t, len(a.blocks) > 1, "test setup should span blocks")
	a.Reset()
	testutil.RequireEqual(t, len(a.blocks), 1, "reset drops extra blocks")
	testutil.RequireEqual(t, a.blocks[0].used, 0, "reset zeroes used offset")
}

func TestStrdupNCopiesBytes(t *testing.T) {
	a := New(0)
	src := []byte("hello")
	v := a.StrdupN(src)
	src[0] = 'H'
	testutil.RequireEqual(t, v.String(), "hello", "strdup copies rather than aliases")
}

func TestViewEqual(t *testing.T) {
	a := New(0)
	v1 := a.StrdupN([]byte("tool_call"))
	v2 := a.StrdupN([]byte("tool_call"))
	testutil.RequireTrue(t, v1.Equal(v2), "views with identical bytes compare equal")

	v3 := a.StrdupN([]byte("tool_call_x"))
	testutil.RequireTrue(t, !v1.Equal(v3), "views with different bytes compare unequal")
}

func TestRestoreAfterNewBlockIsNoOp(t *testing.T) {
	a := New(64)
	sp := a.Savepoint()
	a.Alloc(48)
	a.Alloc(48) // spills into a new block
	before := a.blocks[a.current].used
	a.Restore(sp) // sp.blockIndex no longer matches a.current
	testutil.RequireEqual(t, a.blocks[a.current].used, before, "restore across a block boundary is a no-op")
}
