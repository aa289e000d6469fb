package cli

import (
	"os"
	"path/filepath"
	"testing"

	"brewhub/docs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baselineYAML = `
paths:
  /bags/{id}/consume:
    post:
      responses:
        "200": {}
        "400": {}
  /recipes/complete:
    post:
      responses:
        "200": {}
        "418": {}
  /legacy/tienda:
    get:
      responses:
        "200": {}
`

func TestParseSurface_EmbeddedDoc(t *testing.T) {
	surface, err := parseSurface([]byte(docs.SwaggerInfo.ReadDoc()))
	require.NoError(t, err)

	consume, ok := surface["/bags/{id}/consume"]
	require.True(t, ok)
	assert.Contains(t, consume["post"], "200")
	assert.Contains(t, surface["/recipes/complete"]["post"], "404")
}

func TestCompareSurfaces(t *testing.T) {
	base, err := parseSurface([]byte(baselineYAML))
	require.NoError(t, err)
	current, err := parseSurface([]byte(docs.SwaggerInfo.ReadDoc()))
	require.NoError(t, err)

	assert.Empty(t, compareSurfaces(current, current))
	assert.Equal(t, []string{
		"removed path: /legacy/tienda",
		"removed response code: POST /recipes/complete -> 418",
	}, compareSurfaces(base, current))
}

func TestParseSurface_MissingPaths(t *testing.T) {
	_, err := parseSurface([]byte("swagger: \"2.0\"\n"))
	require.Error(t, err)
}

func TestAPICompatCommand(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.yaml")
	require.NoError(t, os.WriteFile(basePath, []byte(baselineYAML), 0o600))

	_, err := execute(t, "api-compat", "--base", basePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 issue(s)")

	dumped, err := execute(t, "api-compat", "--dump")
	require.NoError(t, err)
	currentPath := filepath.Join(dir, "current.json")
	require.NoError(t, os.WriteFile(currentPath, []byte(dumped), 0o600))

	out, err := execute(t, "api-compat", "--base", currentPath)
	require.NoError(t, err)
	assert.Contains(t, out, "api compatibility check passed")

	_, err = execute(t, "api-compat")
	require.Error(t, err)
}
