package schemaload

import (
	"fmt"
	"os"

	"github.com/cuemby/configdb/pkg/schema"
	"gopkg.in/yaml.v3"
)

// LoadFile reads and compiles a schema document from a YAML file,
// matching the teacher's own read-file-then-yaml.Unmarshal pattern
// (cmd/warren's apply command) rather than a bespoke parser.
func LoadFile(path string) (*schema.Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	var doc SchemaDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing schema file %s: %w", path, err)
	}
	return Compile(&doc)
}
