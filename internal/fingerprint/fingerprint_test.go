package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate("A", "12", "x@y.com", "owner")
	b := Generate("A", "12", "x@y.com", "owner")
	assert.Equal(t, a, b)
}

func TestGenerate_FixedLength(t *testing.T) {
	assert.Len(t, Generate("A", "", "", "owner"), 64)
	assert.Len(t, Generate("", "", "", ""), 64)
}

func TestGenerate_NormalizesCaseAndWhitespace(t *testing.T) {
	a := Generate("A", "12b", "X@Y.COM", "Owner")
	b := Generate(" a ", " 12B ", "x@y.com ", "owner")
	assert.Equal(t, a, b)
}

func TestGenerate_DistinguishesIdentities(t *testing.T) {
	base := Generate("A", "12", "x@y.com", "owner")
	assert.NotEqual(t, base, Generate("B", "12", "x@y.com", "owner"))
	assert.NotEqual(t, base, Generate("A", "13", "x@y.com", "owner"))
	assert.NotEqual(t, base, Generate("A", "12", "z@y.com", "owner"))
	assert.NotEqual(t, base, Generate("A", "12", "x@y.com", "tenant"))
}

func TestGenerate_EmptyOptionalFields(t *testing.T) {
	// absent apartment and email hash like explicit empty strings
	assert.Equal(t, Generate("A", "", "", "owner"), Generate("A", " ", " ", "owner"))
}

func TestGenerate_FieldBoundariesMatter(t *testing.T) {
	// the pipe join keeps adjacent fields from bleeding into each other
	assert.NotEqual(t, Generate("AB", "", "", "owner"), Generate("A", "B", "", "owner"))
}
