package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradlift/scholar-cli/internal/model"
)

const profilesYAML = `applicants:
  alice:
    gpa: "3.8"
    country: US
    first_generation: "true"
  bob:
    gpa: "3.0"
    country: CA
`

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(profilesYAML), 0o644))

	p, err := LoadProfiles(path)
	require.NoError(t, err)

	alice, err := p.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "3.8", alice["gpa"])
	assert.Equal(t, "US", alice["country"])

	gpa, ok := alice.Number("gpa")
	require.True(t, ok)
	assert.InDelta(t, 3.8, gpa, 1e-9)
	flag, ok := alice.Flag("first_generation")
	require.True(t, ok)
	assert.True(t, flag)
}

func TestLoadProfilesUnknownApplicant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(profilesYAML), 0o644))

	p, err := LoadProfiles(path)
	require.NoError(t, err)

	_, err = p.Get(context.Background(), "carol")
	var notFound *model.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "applicant", notFound.Kind)
	assert.Equal(t, "carol", notFound.ID)
}

func TestStaticProfiles(t *testing.T) {
	p := StaticProfiles{"alice": model.Profile{"gpa": "3.8"}}

	prof, err := p.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "3.8", prof["gpa"])

	_, err = p.Get(context.Background(), "bob")
	assert.True(t, model.IsNotFound(err))
}
