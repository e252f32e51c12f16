package loader

import (
	"os"
	"path/filepath"
	"testing"

	"netplan-parser/internal/domain"
	"netplan-parser/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const ethDoc = `network:
  version: 2
  ethernets:
    eth0:
      mtu: 1500
`

func TestFindFiles(t *testing.T) {
	lib := t.TempDir()
	etc := t.TempDir()

	writeFile(t, lib, "50-cloud-init.yaml", ethDoc)
	writeFile(t, lib, "10-base.yaml", ethDoc)
	writeFile(t, etc, "50-cloud-init.yaml", ethDoc)
	writeFile(t, etc, "99-storpool.yaml", ethDoc)
	writeFile(t, etc, "README", "not yaml")
	writeFile(t, etc, "01-old.yml", ethDoc)
	require.NoError(t, os.Mkdir(filepath.Join(etc, "dir.yaml"), 0755))

	t.Run("later directory overrides by name, sorted by name", func(t *testing.T) {
		store := NewStore([]string{lib, etc, filepath.Join(etc, "missing")}, nil)

		paths, err := store.FindFiles()
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(lib, "10-base.yaml"),
			filepath.Join(etc, "50-cloud-init.yaml"),
			filepath.Join(etc, "99-storpool.yaml"),
		}, paths)
	})

	t.Run("exclusion matches bare filenames", func(t *testing.T) {
		store := NewStore([]string{lib, etc}, []string{"99-storpool.yaml", "/somewhere/10-base.yaml"})

		paths, err := store.FindFiles()
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(etc, "50-cloud-init.yaml")}, paths)
	})

	t.Run("no directories exist", func(t *testing.T) {
		store := NewStore([]string{filepath.Join(lib, "nope")}, nil)

		paths, err := store.FindFiles()
		require.NoError(t, err)
		assert.Empty(t, paths)
	})
}

func TestStoreLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", `network:
  version: 2
  ethernets:
    eth0: {mtu: 9000}
`)
	writeFile(t, dir, "a.yaml", ethDoc)

	docs, err := NewStore([]string{dir}, nil).Load()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.yaml", docs[0].Filename)
	assert.Equal(t, filepath.Join(dir, "a.yaml"), docs[0].Path)
	assert.Equal(t, "b.yaml", docs[1].Filename)

	reg, err := domain.Build(docs)
	require.NoError(t, err)
	rec, ok := reg.Get("eth0")
	require.True(t, ok)
	assert.Equal(t, 9000, rec.Data["mtu"])
	assert.Equal(t, "b.yaml", rec.SourceFile)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	a := writeFile(t, dir, "a.yaml", ethDoc)
	b := writeFile(t, dir, "b.yaml", ethDoc)
	a2 := writeFile(t, other, "a.yaml", `network: {version: 2, bonds: {bond0: {}}}`)

	t.Run("sorted by filename regardless of argument order", func(t *testing.T) {
		docs, err := NewStore(nil, nil).LoadFiles([]string{b, a})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "a.yaml", docs[0].Filename)
		assert.Equal(t, "b.yaml", docs[1].Filename)
	})

	t.Run("repeated filename keeps the last one listed", func(t *testing.T) {
		docs, err := NewStore(nil, nil).LoadFiles([]string{a, a2})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, a2, docs[0].Path)
	})

	t.Run("missing file is NotFound", func(t *testing.T) {
		_, err := NewStore(nil, nil).LoadFiles([]string{a, filepath.Join(dir, "nope.yaml")})
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindNotFound), "got %v", err)
		assert.Contains(t, err.Error(), "nope.yaml")
	})

	t.Run("syntax error is ParseError", func(t *testing.T) {
		bad := writeFile(t, dir, "bad.yaml", "network:\n  ethernets: [unclosed\n")
		_, err := NewStore(nil, nil).LoadFiles([]string{a, bad})
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindParse), "got %v", err)
		assert.Contains(t, err.Error(), "bad.yaml")
	})
}

func TestParseYAML(t *testing.T) {
	t.Run("decodes generic mappings", func(t *testing.T) {
		doc, err := ParseYAML("x.yaml", []byte(`network:
  version: 2
  bridges:
    br0:
      interfaces: [eth0, eth1]
      parameters:
        stp: false
`))
		require.NoError(t, err)

		net := doc.Content["network"].(map[string]any)
		br0 := net["bridges"].(map[string]any)["br0"].(map[string]any)
		assert.Equal(t, []any{"eth0", "eth1"}, br0["interfaces"])
		assert.Equal(t, false, br0["parameters"].(map[string]any)["stp"])
	})

	t.Run("non-string keys are stringified", func(t *testing.T) {
		doc, err := ParseYAML("x.yaml", []byte("network:\n  vlans:\n    100: {link: eth0}\n"))
		require.NoError(t, err)

		vlans := doc.Content["network"].(map[string]any)["vlans"].(map[string]any)
		assert.Contains(t, vlans, "100")
	})

	t.Run("top level must be a mapping", func(t *testing.T) {
		for _, input := range []string{"", "- a\n- b\n", "just a string\n"} {
			_, err := ParseYAML("x.yaml", []byte(input))
			require.Error(t, err, input)
			assert.True(t, errs.IsKind(err, errs.KindMalformedDocument), "input %q: %v", input, err)
		}
	})
}
