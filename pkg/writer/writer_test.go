package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hscgen/hscgen/pkg/hsc"
)

func TestModuleName(t *testing.T) {
	tests := []struct {
		prefix string
		header string
		want   string
	}{
		{"Bindings", "foo.h", "Bindings.Foo"},
		{"Bindings", "audio_mixer.h", "Bindings.AudioMixer"},
		{"Bindings", "path/to/my-lib.h", "Bindings.MyLib"},
		{"", "foo.h", "Foo"},
		{"Bindings.Sys", "epoll.h", "Bindings.Sys.Epoll"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ModuleName(tt.prefix, tt.header))
	}
}

func TestWriteBindingFile(t *testing.T) {
	tmpDir := t.TempDir()
	header := filepath.Join(tmpDir, "widget.h")

	acc := hsc.NewAccumulator()
	acc.AddBinding("#opaque_t widget")
	acc.AddBinding("#ccall widget_new , IO (Ptr ())")

	hscPath, helperPath, err := Write(header, acc, Config{Prefix: "Bindings"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "widget.hsc"), hscPath)
	assert.Empty(t, helperPath, "no helper lines, no helper file")

	content, err := os.ReadFile(hscPath)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "module Bindings.Widget where")
	assert.Contains(t, text, `#include "widget.h"`)
	assert.Contains(t, text, "#strict_import")
	assert.Contains(t, text, "#opaque_t widget\n#ccall widget_new , IO (Ptr ())\n")

	_, err = os.Stat(filepath.Join(tmpDir, "widget.hsc.helper.h"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteHelperFile(t *testing.T) {
	tmpDir := t.TempDir()
	header := filepath.Join(tmpDir, "clamp.h")

	acc := hsc.NewAccumulator()
	acc.AddBinding("#cinline clamp , CInt -> IO (CInt)")
	acc.AddHelper("BC_INLINE1(clamp, int, int)")

	hscPath, helperPath, err := Write(header, acc, Config{})
	require.NoError(t, err)
	assert.NotEmpty(t, hscPath)
	require.Equal(t, filepath.Join(tmpDir, "clamp.hsc.helper.h"), helperPath)

	content, err := os.ReadFile(helperPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "#include <bindings.cmacros.h>")
	assert.Contains(t, string(content), "BC_INLINE1(clamp, int, int)")
}

func TestWriteRefusesToClobber(t *testing.T) {
	tmpDir := t.TempDir()
	header := filepath.Join(tmpDir, "safe.h")
	existing := filepath.Join(tmpDir, "safe.hsc")
	require.NoError(t, os.WriteFile(existing, []byte("hand edits"), 0644))

	acc := hsc.NewAccumulator()
	acc.AddBinding("#opaque_t safe")

	_, _, err := Write(header, acc, Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	content, _ := os.ReadFile(existing)
	assert.Equal(t, "hand edits", string(content), "existing file must be untouched")

	_, _, err = Write(header, acc, Config{Overwrite: true})
	require.NoError(t, err)
	content, _ = os.ReadFile(existing)
	assert.True(t, strings.Contains(string(content), "#opaque_t safe"))
}

func TestWriteOutDir(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "out")
	require.NoError(t, os.Mkdir(outDir, 0755))
	header := filepath.Join(tmpDir, "lib.h")

	acc := hsc.NewAccumulator()
	acc.AddBinding("#opaque_t lib")

	hscPath, _, err := Write(header, acc, Config{OutDir: outDir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "lib.hsc"), hscPath)
}
