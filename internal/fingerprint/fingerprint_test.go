package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeIsDeterministic(t *testing.T) {
	message := "NullPointerException at line 42"
	stack := "at foo.bar (file.js:10)\nat baz.qux (file.js:20)"

	first := Compute(message, stack)
	second := Compute(message, stack)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestComputeCollapsesEmbeddedNumbers(t *testing.T) {
	stack := "at repo.FindUser (user.go:33)"

	a := Compute("user 42 not found", stack)
	b := Compute("user 99 not found", stack)

	assert.Equal(t, a, b)
}

func TestComputeCollapsesHexAddresses(t *testing.T) {
	stack := "at mem.Read (mem.go:7)"

	a := Compute("segfault at 0xdeadbeef", stack)
	b := Compute("segfault at 0xcafebabe", stack)

	assert.Equal(t, a, b)
}

func TestComputeIgnoresFileAndLineSuffix(t *testing.T) {
	a := Compute("boom", "at foo.bar (file.js:10)")
	b := Compute("boom", "at foo.bar (other.js:999)")

	assert.Equal(t, a, b)
}

func TestComputeDistinguishesDifferentCallSites(t *testing.T) {
	a := Compute("boom", "at foo.bar (file.js:10)")
	b := Compute("boom", "at baz.qux (file.js:10)")

	assert.NotEqual(t, a, b)
}

func TestComputeUsesOnlyFirstThreeLines(t *testing.T) {
	base := "at a.a (f:1)\nat b.b (f:2)\nat c.c (f:3)"

	a := Compute("boom", base+"\nat d.d (f:4)")
	b := Compute("boom", base+"\nat e.e (f:5)")

	assert.Equal(t, a, b)
}

func TestComputeEmptyStacktraceDependsOnMessageOnly(t *testing.T) {
	a := Compute("boom", "")
	b := Compute("boom", "")
	c := Compute("bang", "")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestComputeKeepsMarkerlessLinesVerbatim(t *testing.T) {
	a := Compute("boom", "frame one\nframe two")
	b := Compute("boom", "frame one\nframe three")

	assert.NotEqual(t, a, b)
}
