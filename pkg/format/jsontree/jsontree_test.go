package jsontree

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cuemby/configdb/pkg/format"
	"github.com/cuemby/configdb/pkg/object"
	"github.com/cuemby/configdb/pkg/schema"
	"github.com/cuemby/configdb/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureSchema() *schema.ObjectInfo {
	return &schema.ObjectInfo{
		Name:       "settings",
		Kind:       schema.KindObject,
		StructSize: 9,
		Properties: []*schema.PropertyInfo{
			{Name: "age", Type: schema.UInt8, Offset: 0},
			{Name: "nick", Type: schema.StringType, Offset: 1, Default: []byte("anon")},
			{Name: "zip", Type: schema.UInt32, Offset: 5},
		},
	}
}

func TestWriteCursorCompact(t *testing.T) {
	info := fixtureSchema()
	s := store.New("settings", info)
	root := object.Root(s, info)

	age, _ := root.Property("age")
	age.SetFromText("42")
	nick, _ := root.Property("nick")
	nick.SetFromText("river")

	var buf bytes.Buffer
	n, err := WriteCursor(&buf, root, format.Options{RootStyle: format.RootHidden})
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), n)
	assert.Equal(t, `{"age":42,"nick":"river","zip":0}`, buf.String())
}

func TestWriteCursorPrettyIndents(t *testing.T) {
	info := fixtureSchema()
	s := store.New("settings", info)
	root := object.Root(s, info)

	var buf bytes.Buffer
	_, err := WriteCursor(&buf, root, format.Options{RootStyle: format.RootHidden, Pretty: true})
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "\n  \"age\""))
}

func TestWriteCursorRootBraces(t *testing.T) {
	info := fixtureSchema()
	s := store.New("settings", info)
	root := object.Root(s, info)

	var buf bytes.Buffer
	_, err := WriteCursor(&buf, root, format.Options{RootStyle: format.RootBraces, RootName: "settings"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), `{"settings":{`))
}

type recordingSink struct {
	events []string
}

func (s *recordingSink) StartElement(level int, key string, hasKey bool, value string, hasValue bool, kind format.ElementKind) error {
	s.events = append(s.events, "start:"+key)
	return nil
}

func (s *recordingSink) EndElement(level int) error {
	s.events = append(s.events, "end")
	return nil
}

func TestReadIntoStreamsNestedObject(t *testing.T) {
	sink := &recordingSink{}
	err := ReadInto(strings.NewReader(`{"age":42,"address":{"zip":1}}`), sink)
	require.NoError(t, err)
	assert.Equal(t, []string{"start:", "start:age", "end", "start:address", "start:zip", "end", "end", "end"}, sink.events)
}

func TestReadIntoRejectsTrailingData(t *testing.T) {
	sink := &recordingSink{}
	err := ReadInto(strings.NewReader(`{"a":1} garbage`), sink)
	assert.Error(t, err)
	var fe *format.FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	f := New(dir)

	info := fixtureSchema()
	s := store.New("settings", info)
	root := object.Root(s, info)
	age, _ := root.Property("age")
	age.SetFromText("7")

	n, err := f.ExportStore("settings", root, format.Options{RootStyle: format.RootHidden})
	require.NoError(t, err)
	assert.Greater(t, n, 0)
	assert.FileExists(t, filepath.Join(dir, "settings.json"))

	sink := &recordingSink{}
	require.NoError(t, f.ImportStore("settings", sink))
	assert.Contains(t, sink.events, "start:age")
}

func TestExportStorePreservesPreviousFileOnWriteError(t *testing.T) {
	dir := t.TempDir()
	f := New(dir)
	info := fixtureSchema()
	s := store.New("settings", info)
	root := object.Root(s, info)

	_, err := f.ExportStore("settings", root, format.Options{RootStyle: format.RootHidden})
	require.NoError(t, err)
	before, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	require.NoError(t, err)

	// Make the staging path unwritable by replacing it with a directory,
	// forcing ExportStore's os.Create to fail before touching the final file.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "settings.json.new"), 0o755))
	_, err = f.ExportStore("settings", root, format.Options{RootStyle: format.RootHidden})
	assert.Error(t, err)

	after, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestImportStoreRecoversFromOldOnCrashBetweenRenames(t *testing.T) {
	dir := t.TempDir()
	f := New(dir)
	info := fixtureSchema()
	s := store.New("settings", info)
	root := object.Root(s, info)
	age, _ := root.Property("age")
	age.SetFromText("7")

	_, err := f.ExportStore("settings", root, format.Options{RootStyle: format.RootHidden})
	require.NoError(t, err)

	// Simulate a crash between ExportStore's two renames: the previous
	// commit has already been moved to <name>.json.old, but the new
	// content staged at <name>.json.new never made it to <name>.json.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json.new"), []byte(`{"age":99,"nick":"","zip":0}`), 0o644))
	require.NoError(t, os.Rename(filepath.Join(dir, "settings.json"), filepath.Join(dir, "settings.json.old")))

	sink := &recordingSink{}
	err = f.ImportStore("settings", sink)
	require.NoError(t, err)
	assert.Contains(t, sink.events, "start:age", "the last committed value, held in .old, must be recovered rather than treated as absent")
}

func TestImportStoreMissingFileReportsNotExist(t *testing.T) {
	f := New(t.TempDir())
	sink := &recordingSink{}
	err := f.ImportStore("absent", sink)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
