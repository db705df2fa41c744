package reqfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanofish-go/nanofish/packages/request"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "req.yaml", `
method: POST
url: https://api.example.com/things
headers:
  - name: Content-Type
    value: application/json
  - name: Authorization
    value: Bearer tok
body: '{"name":"fish"}'
`)

	f, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, request.MethodPost, f.RequestMethod())
	assert.Equal(t, "https://api.example.com/things", f.URL)

	headers := f.HeaderSet()
	require.Equal(t, 2, headers.Len())
	assert.Equal(t, "Content-Type", headers.At(0).Name)
	assert.Equal(t, "Authorization", headers.At(1).Name)

	body, err := f.BodyBytes()
	require.NoError(t, err)
	assert.Equal(t, `{"name":"fish"}`, string(body))
}

func TestLoad_DefaultsToGet(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "req.yaml", "url: http://example.com/\n")

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, request.MethodGet, f.RequestMethod())

	body, err := f.BodyBytes()
	require.NoError(t, err)
	assert.Nil(t, body)
}

func TestLoad_BodyFileRelativeToRequestFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "payload.json", `{"x":1}`)
	path := writeFile(t, dir, "req.yaml", "url: http://example.com/\nmethod: PUT\nbody_file: payload.json\n")

	f, err := Load(path)
	require.NoError(t, err)

	body, err := f.BodyBytes()
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, string(body))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	path := writeFile(t, dir, "nomethod.yaml", "url: http://example.com/\nmethod: BREW\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, "unsupported method")

	path = writeFile(t, dir, "nourl.yaml", "method: GET\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, "missing url")

	path = writeFile(t, dir, "both.yaml", "url: http://example.com/\nbody: x\nbody_file: y\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, "mutually exclusive")
}
