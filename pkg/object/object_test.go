package object

import (
	"testing"

	"github.com/cuemby/configdb/pkg/pool"
	"github.com/cuemby/configdb/pkg/schema"
	"github.com/stretchr/testify/assert"
)

type testStore struct {
	buf     []byte
	strings pool.StringPool
	arrays  pool.ArrayPool
}

func (s *testStore) Bytes() []byte             { return s.buf }
func (s *testStore) Strings() *pool.StringPool { return &s.strings }
func (s *testStore) Arrays() *pool.ArrayPool   { return &s.arrays }

func buildTestSchema() *schema.ObjectInfo {
	address := &schema.ObjectInfo{
		Name:       "address",
		Kind:       schema.KindObject,
		StructSize: 4,
		Properties: []*schema.PropertyInfo{
			{Name: "zip", Type: schema.UInt32},
		},
	}
	items := &schema.ObjectInfo{
		Name: "items",
		Kind: schema.KindArray,
		Item: &schema.PropertyInfo{Name: "item", Type: schema.StringType},
	}
	return &schema.ObjectInfo{
		Name:       "root",
		Kind:       schema.KindObject,
		StructSize: 16,
		Properties: []*schema.PropertyInfo{
			{Name: "age", Type: schema.UInt8, Offset: 0, UintRange: &schema.UintRange{Min: 0, Max: 150}},
			{Name: "level", Type: schema.Int16, Offset: 1, IntRange: &schema.IntRange{Min: -5, Max: 100}},
			{Name: "nick", Type: schema.StringType, Offset: 3, Default: []byte("anon")},
			{Name: "color", Type: schema.EnumType, Offset: 7, Enum: &schema.EnumInfo{Values: []string{"red", "green", "blue"}}},
			{Name: "address", Type: schema.ObjectType, Offset: 8, Object: address},
			{Name: "items", Type: schema.ObjectType, Offset: 12, Object: items},
		},
	}
}

func newTestCursor() (Cursor, *testStore) {
	root := buildTestSchema()
	st := &testStore{buf: make([]byte, root.StructSize)}
	return Root(st, root), st
}

func TestPropertyRangeClampOnSet(t *testing.T) {
	c, _ := newTestCursor()
	level, ok := c.Property("level")
	assert.True(t, ok)

	assert.True(t, level.SetFromText("101"))
	text, _ := level.GetString()
	assert.Equal(t, "100", text)

	assert.True(t, level.SetFromText("-6"))
	text, _ = level.GetString()
	assert.Equal(t, "-5", text)
}

func TestPropertyStringDefaultSentinel(t *testing.T) {
	c, _ := newTestCursor()
	nick, ok := c.Property("nick")
	assert.True(t, ok)

	text, ok := nick.GetString()
	assert.True(t, ok)
	assert.Equal(t, "anon", text)

	assert.True(t, nick.SetFromText("bob"))
	text, _ = nick.GetString()
	assert.Equal(t, "bob", text)

	assert.True(t, nick.SetFromText("anon"))
	text, _ = nick.GetString()
	assert.Equal(t, "anon", text)
}

func TestPropertyEnumRejectsUnknownName(t *testing.T) {
	c, _ := newTestCursor()
	color, ok := c.Property("color")
	assert.True(t, ok)

	assert.True(t, color.SetFromText("green"))
	text, _ := color.GetString()
	assert.Equal(t, "green", text)

	assert.False(t, color.SetFromText("purple"))
	text, _ = color.GetString()
	assert.Equal(t, "green", text, "failed set must not mutate the stored value")
}

func TestFindObjectNested(t *testing.T) {
	c, _ := newTestCursor()
	addr, ok := c.FindObject("address")
	assert.True(t, ok)

	zip, ok := addr.Property("zip")
	assert.True(t, ok)
	assert.True(t, zip.SetFromText("94110"))
	text, _ := zip.GetString()
	assert.Equal(t, "94110", text)
}

func TestArrayStringInterning(t *testing.T) {
	c, st := newTestCursor()
	items, ok := c.FindObject("items")
	assert.True(t, ok)

	var ids []string
	for i := 0; i < 3; i++ {
		item, ok := items.AddItem()
		assert.True(t, ok)
		assert.True(t, item.SetFromText("My String"))
		text, _ := item.GetString()
		ids = append(ids, text)
	}
	assert.Equal(t, []string{"My String", "My String", "My String"}, ids)
	assert.Equal(t, 3, items.ChildCount())
	assert.Equal(t, len("My String\x00"), st.Strings().Len(), "the text is stored in the pool only once")
}

func TestResolvePointerToProperty(t *testing.T) {
	c, _ := newTestCursor()
	addr, _ := c.FindObject("address")
	zip, _ := addr.Property("zip")
	zip.SetFromText("10001")

	_, prop, isProp, err := Resolve(c, "address/zip")
	assert.NoError(t, err)
	assert.True(t, isProp)
	text, _ := prop.GetString()
	assert.Equal(t, "10001", text)
}

func TestResolvePointerMissingSegment(t *testing.T) {
	c, _ := newTestCursor()
	_, _, _, err := Resolve(c, "nope")
	assert.Error(t, err)
}
