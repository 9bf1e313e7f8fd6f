package uriutil_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"bennypowers.dev/padls/internal/uriutil"
	"github.com/stretchr/testify/assert"
)

func TestPathToURI(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX paths")
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "absolute path", input: "/home/user/project", want: "file:///home/user/project"},
		{name: "root", input: "/", want: "file:///"},
		{name: "spaces", input: "/home/user/my project", want: "file:///home/user/my%20project"},
		{name: "unicode", input: "/home/user/文件", want: "file:///home/user/%E6%96%87%E4%BB%B6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uriutil.PathToURI(tt.input))
		})
	}
}

func TestURIToPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX paths")
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "file uri", input: "file:///home/user/calc.pad", want: "/home/user/calc.pad"},
		{name: "percent encoded", input: "file:///home/user/my%20project", want: "/home/user/my project"},
		{name: "localhost host", input: "file://localhost/tmp/a.pad", want: "/tmp/a.pad"},
		{name: "drive letter", input: "file:///C:/proj", want: filepath.FromSlash("C:/proj")},
		{name: "not a uri", input: "/already/a/path", want: "/already/a/path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uriutil.URIToPath(tt.input))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "with space", "pad.pad")
	assert.Equal(t, p, uriutil.URIToPath(uriutil.PathToURI(p)))
}

func TestExt(t *testing.T) {
	assert.Equal(t, ".pad", uriutil.Ext("file:///tmp/Calc.PAD"))
	assert.Equal(t, ".js", uriutil.Ext("file:///tmp/app.js"))
	assert.Equal(t, "", uriutil.Ext("file:///tmp/Makefile"))
}

func TestRelPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX paths")
	}

	rel, ok := uriutil.RelPath("/work", "file:///work/layouts/calc.pad")
	assert.True(t, ok)
	assert.Equal(t, "layouts/calc.pad", rel)

	_, ok = uriutil.RelPath("/work", "file:///elsewhere/calc.pad")
	assert.False(t, ok)

	_, ok = uriutil.RelPath("", "file:///work/calc.pad")
	assert.False(t, ok)
}
