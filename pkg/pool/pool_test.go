package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringPoolInterning(t *testing.T) {
	var p StringPool

	id1 := p.FindOrAdd("My String")
	id2 := p.FindOrAdd("My String")
	id3 := p.FindOrAdd("My String")

	assert.Equal(t, id1, id2)
	assert.Equal(t, id1, id3)
	assert.Equal(t, "My String\x00", string([]byte(p.data)))

	got, ok := p.Get(id1)
	assert.True(t, ok)
	assert.Equal(t, "My String", got)
}

func TestStringPoolAbsentId(t *testing.T) {
	var p StringPool
	_, ok := p.Get(0)
	assert.False(t, ok, "id 0 must always mean absent")
}

func TestStringPoolDoesNotMatchPrefix(t *testing.T) {
	var p StringPool
	longID := p.Add("Hello World")
	shortID := p.FindOrAdd("Hello")

	assert.NotEqual(t, longID, shortID, "Hello must not alias the prefix of Hello World")

	got, ok := p.Get(shortID)
	assert.True(t, ok)
	assert.Equal(t, "Hello", got)
}

func TestStringPoolClear(t *testing.T) {
	var p StringPool
	p.Add("anything")
	p.Clear()
	assert.Equal(t, 0, p.Len())
}

func TestArrayPoolInsertRemove(t *testing.T) {
	var p ArrayPool
	id := p.Add(2) // e.g. packed (name id, value) pairs use larger items in practice

	arr := p.Get(id)
	arr.Add([]byte{0x01, 0x00})
	arr.Add([]byte{0x02, 0x00})
	arr.Add([]byte{0x03, 0x00})

	assert.Equal(t, 3, arr.Count())

	arr.Remove(1)
	assert.Equal(t, 2, arr.Count())
	assert.Equal(t, byte(0x01), arr.Item(0)[0])
	assert.Equal(t, byte(0x03), arr.Item(1)[0])
}

func TestArrayPoolInsertZeroesWhenSrcNil(t *testing.T) {
	var p ArrayPool
	id := p.Add(4)
	arr := p.Get(id)
	arr.Add([]byte{1, 2, 3, 4})
	item := arr.Insert(0, nil)
	assert.Equal(t, []byte{0, 0, 0, 0}, item)
	assert.Equal(t, byte(1), arr.Item(1)[0])
}

func TestArrayPoolAbsentId(t *testing.T) {
	var p ArrayPool
	assert.Nil(t, p.Get(0))
	assert.Nil(t, p.Get(99))
}

func TestArrayPoolClearDropsAllSlots(t *testing.T) {
	var p ArrayPool
	p.Add(4)
	p.Add(8)
	p.Clear()
	assert.Equal(t, 0, p.Len())
}

func TestArrayPoolCloneIsIndependent(t *testing.T) {
	var p ArrayPool
	id := p.Add(4)
	p.Get(id).Add([]byte{1, 2, 3, 4})

	clone := p.Clone()
	clone.Get(id).Add([]byte{5, 6, 7, 8})

	assert.Equal(t, 1, p.Get(id).Count(), "mutating the clone must not affect the original")
	assert.Equal(t, 2, clone.Get(id).Count())
}

func TestStringPoolCloneIsIndependent(t *testing.T) {
	var p StringPool
	p.Add("first")

	clone := p.Clone()
	clone.Add("second")

	assert.Equal(t, StringId(0), p.Find("second"), "mutating the clone must not affect the original")
	assert.NotEqual(t, StringId(0), clone.Find("second"))
}
