package strutil

import (
	"testing"

	"github.com/onagent/onagent/internal/testutil"
)

func TestBuilderWriteAndString(t *testing.T) {
	b := NewBuilder(4)
	b.WriteString("hello ")
	b.WriteByte('w')
	b.Write([]byte("orld"))
	testutil.RequireEqual(t, b.String(), "hello world", "accumulated content")
}

func TestBuilderEmptyAppendIsNoOp(t *testing.T) {
	b := NewBuilder(0)
	b.WriteString("")
	b.Write(nil)
	testutil.RequireEqual(t, b.Len(), 0, "empty appends do nothing")
}

func TestBuilderGrowsPastInitialCapacity(t *testing.T) {
	b := NewBuilder(2)
	for i := 0; i < 100; i++ {
		b.WriteByte('x')
	}
	testutil.RequireEqual(t, b.Len(), 100, "grows to accommodate writes")
}

func TestBuilderHasSuffix(t *testing.T) {
	b := NewBuilder(0)
	b.WriteString("<tool_call>{}</tool_call>")
	testutil.RequireTrue(t, b.HasSuffix([]byte("</tool_call>")), "detects closing tag suffix")
	testutil.RequireTrue(t, !b.HasSuffix([]byte("</think>")), "rejects mismatched suffix")
}

func TestBuilderReset(t *testing.T) {
	b := NewBuilder(0)
	b.WriteString("abc")
	b.Reset()
	testutil.RequireEqual(t, b.Len(), 0, "reset clears content")
	b.WriteString("d")
	testutil.RequireEqual(t, b.String(), "d", "buffer usable after reset")
}

func TestBuilderWritef(t *testing.T) {
	b := NewBuilder(0)
	b.Writef("%s=%d", "x", 7)
	testutil.RequireEqual(t, b.String(), "x=7", "formatted append")
}
