package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"jobmatch-engine/internal/domain"
)

// FileSource reads a YAML catalog of the form `jobs: [...]`.
type FileSource struct {
	Path string
}

type catalogFile struct {
	Jobs []RawJob `yaml:"jobs"`
}

func (f FileSource) Name() string { return "file" }

func (f FileSource) Load(ctx context.Context) ([]domain.JobRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	return ParseYAML(b)
}

// ParseYAML decodes and validates a catalog document. One bad record fails
// the whole document.
func ParseYAML(b []byte) ([]domain.JobRecord, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	out := make([]domain.JobRecord, 0, len(doc.Jobs))
	for i, raw := range doc.Jobs {
		rec, err := raw.Record()
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
