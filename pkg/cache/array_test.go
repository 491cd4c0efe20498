package cache

import (
	"testing"

	"github.com/cuemby/configdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureDatabaseWithLetters() *schema.Database {
	item := &schema.ObjectInfo{
		Name:       "letter",
		Kind:       schema.KindObject,
		StructSize: 8,
		Properties: []*schema.PropertyInfo{
			{Name: "label", Type: schema.StringType, Offset: 0},
			{Name: "value", Type: schema.UInt32, Offset: 4},
		},
	}
	letters := &schema.ObjectInfo{Name: "letters", Kind: schema.KindObjectArray, ItemObject: item}
	root := &schema.ObjectInfo{
		Name:       "letters-store",
		Kind:       schema.KindObject,
		StructSize: 4,
		Properties: []*schema.PropertyInfo{
			{Name: "letters", Type: schema.ObjectType, Offset: 0, Object: letters},
		},
	}
	return &schema.Database{
		Name:   "fixture",
		Stores: []*schema.Store{{Name: "letters", Root: root}},
	}
}

// TestObjectArrayRemoveAtRoundTrip covers the otherwise-unexercised
// Cursor.RemoveAt path end to end: add three ObjectArray elements,
// remove the middle one, commit, and reload through a real export/
// import cycle to confirm the removal survives the round trip.
func TestObjectArrayRemoveAtRoundTrip(t *testing.T) {
	f := newMemFormat()
	d := Open(fixtureDatabaseWithLetters(), f)
	t.Cleanup(d.Close)

	u, err := d.OpenStoreForUpdate("letters")
	require.NoError(t, err)

	lettersObj, ok := u.Root().FindObject("letters")
	require.True(t, ok)

	for i, pair := range []struct {
		label string
		value string
	}{{"a", "1"}, {"b", "2"}, {"c", "3"}} {
		item, ok := lettersObj.AddObject()
		require.True(t, ok, "element %d", i)
		label, _ := item.Property("label")
		label.SetFromText(pair.label)
		value, _ := item.Property("value")
		value.SetFromText(pair.value)
	}

	require.True(t, lettersObj.RemoveAt(1), "removing the middle element")

	u.Store().MarkDirty()
	u.Release()

	ref, err := d.OpenStore("letters")
	require.NoError(t, err)
	defer ref.Release()

	reloaded, ok := ref.Root().FindObject("letters")
	require.True(t, ok)
	require.Equal(t, 2, reloaded.ChildCount())

	first, ok := reloaded.ObjectAt(0)
	require.True(t, ok)
	firstLabel, _ := first.Property("label")
	text, _ := firstLabel.GetString()
	assert.Equal(t, "a", text)

	second, ok := reloaded.ObjectAt(1)
	require.True(t, ok)
	secondLabel, _ := second.Property("label")
	text, _ = secondLabel.GetString()
	assert.Equal(t, "c", text, "the removed middle element must not reappear after reload")
}
