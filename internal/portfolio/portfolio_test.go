package portfolio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultContent(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Alex Chen", c.Profile.Name)
	assert.Len(t, c.Skills, 9)
	assert.Len(t, c.Projects, 6)
	assert.Len(t, c.Profile.Socials, 4)

	for _, cat := range Categories {
		assert.Len(t, c.SkillsByCategory(cat), 3, "category %s", cat)
	}

	featured := c.FeaturedProjects()
	require.Len(t, featured, 1)
	assert.Equal(t, "E-Commerce Platform", featured[0].Title)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"missing name": `
profile: {name: ""}
`,
		"level out of range": `
profile: {name: A}
skills:
  - {name: Go, level: 101, category: backend}
`,
		"unknown category": `
profile: {name: A}
skills:
  - {name: Go, level: 50, category: design}
`,
		"duplicate project": `
profile: {name: A}
projects:
  - {id: "1", title: One}
  - {id: "1", title: Two}
`,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			assert.ErrorIs(t, err, ErrInvalidContent)
		})
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("profile: {name: A}\ntheme: dark\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidContent)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	doc := `
profile:
  name: Sam
skills:
  - {name: Go, level: 80, category: backend}
projects:
  - {id: a, title: Tool, technologies: [Go], featured: true}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Sam", c.Profile.Name)
	assert.Equal(t, []string{"Go"}, c.Projects[0].Technologies)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	def, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, "Alex Chen", def.Profile.Name)
}
