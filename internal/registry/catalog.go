// Package registry loads the scholarship catalog and applicant profiles the
// engine consumes. File-backed readers parse once at load time; the engine
// always scores against that snapshot.
package registry

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/gradlift/scholar-cli/internal/model"
)

// CatalogReader provides scholarship snapshots.
type CatalogReader interface {
	List(ctx context.Context) ([]model.Scholarship, error)
	Get(ctx context.Context, id string) (*model.Scholarship, error)
}

// FileCatalog is a CatalogReader over a YAML catalog file.
type FileCatalog struct {
	scholarships []model.Scholarship
	byID         map[string]int
}

type catalogFile struct {
	Scholarships []model.Scholarship `yaml:"scholarships"`
}

// LoadCatalog reads and indexes a YAML catalog file.
func LoadCatalog(path string) (*FileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: read catalog %s", path)
	}
	return ParseCatalog(data)
}

// ParseCatalog builds a FileCatalog from YAML bytes.
func ParseCatalog(data []byte) (*FileCatalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "registry: parse catalog")
	}

	byID := make(map[string]int, len(f.Scholarships))
	for i, s := range f.Scholarships {
		if s.ID == "" {
			return nil, eris.Errorf("registry: catalog entry %d has no id", i)
		}
		if _, dup := byID[s.ID]; dup {
			return nil, eris.Errorf("registry: duplicate scholarship id %s", s.ID)
		}
		byID[s.ID] = i
	}
	return &FileCatalog{scholarships: f.Scholarships, byID: byID}, nil
}

func (c *FileCatalog) List(ctx context.Context) ([]model.Scholarship, error) {
	out := make([]model.Scholarship, len(c.scholarships))
	copy(out, c.scholarships)
	return out, nil
}

func (c *FileCatalog) Get(ctx context.Context, id string) (*model.Scholarship, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, &model.NotFoundError{Kind: "scholarship", ID: id}
	}
	s := c.scholarships[i]
	return &s, nil
}

// WriteCatalog serializes scholarships to the YAML catalog format.
func WriteCatalog(path string, scholarships []model.Scholarship) error {
	data, err := yaml.Marshal(catalogFile{Scholarships: scholarships})
	if err != nil {
		return eris.Wrap(err, "registry: marshal catalog")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "registry: write catalog %s", path)
	}
	return nil
}
