package registry

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/gradlift/scholar-cli/internal/model"
)

// ProfileReader provides applicant profiles by id.
type ProfileReader interface {
	Get(ctx context.Context, applicantID string) (model.Profile, error)
}

// FileProfiles is a ProfileReader over a YAML file of applicant profiles.
type FileProfiles struct {
	profiles map[string]model.Profile
}

type profilesFile struct {
	Applicants map[string]map[string]string `yaml:"applicants"`
}

// LoadProfiles reads a YAML profiles file.
func LoadProfiles(path string) (*FileProfiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: read profiles %s", path)
	}

	var f profilesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "registry: parse profiles")
	}

	profiles := make(map[string]model.Profile, len(f.Applicants))
	for id, attrs := range f.Applicants {
		profiles[id] = model.Profile(attrs)
	}
	return &FileProfiles{profiles: profiles}, nil
}

func (p *FileProfiles) Get(ctx context.Context, applicantID string) (model.Profile, error) {
	prof, ok := p.profiles[applicantID]
	if !ok {
		return nil, &model.NotFoundError{Kind: "applicant", ID: applicantID}
	}
	return prof, nil
}

// StaticProfiles is a ProfileReader over an in-memory map, used by tests and
// by callers that already hold the profile.
type StaticProfiles map[string]model.Profile

func (p StaticProfiles) Get(ctx context.Context, applicantID string) (model.Profile, error) {
	prof, ok := p[applicantID]
	if !ok {
		return nil, &model.NotFoundError{Kind: "applicant", ID: applicantID}
	}
	return prof, nil
}
