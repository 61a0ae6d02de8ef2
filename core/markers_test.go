package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkersFor(t *testing.T) {
	table := DefaultMarkerTable()
	tests := []struct {
		fileType string
		want     []string
	}{
		{"go", []string{"//"}},
		{".py", []string{"#"}},
		{"Python", []string{"#"}},
		{"sql", []string{"--"}},
		{"php", []string{"//", "#"}},
		{"Makefile", []string{"#"}},
		{"", []string{"//", "#"}},
		{"unknownlang", []string{"//", "#"}},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, table.MarkersFor(tt.fileType), "fileType %q", tt.fileType)
	}
}

func TestFileTypeForPath(t *testing.T) {
	require.Equal(t, "py", FileTypeForPath("src/app/main.py"))
	require.Equal(t, "go", FileTypeForPath("main.go"))
	require.Equal(t, "makefile", FileTypeForPath("project/Makefile"))
	require.Equal(t, "dockerfile", FileTypeForPath("Dockerfile"))
	require.Equal(t, "env", FileTypeForPath(".env"))
}

func TestParseMarkerDefinitions(t *testing.T) {
	data := []byte("fallback: [\"#\"]\nmarkers:\n  mylang: [\"%%\"]\n  go: [\"//\", \"#\"]\n")
	table, err := ParseMarkerDefinitions(data)
	require.NoError(t, err)
	require.Equal(t, []string{"%%"}, table.MarkersFor("mylang"))
	require.Equal(t, []string{"//", "#"}, table.MarkersFor("go"), "overrides replace built-ins")
	require.Equal(t, []string{"#"}, table.MarkersFor("nope"), "custom fallback")
	require.Equal(t, []string{"#"}, table.MarkersFor("py"), "untouched built-ins survive")

	_, err = ParseMarkerDefinitions([]byte("markers: ["))
	require.Error(t, err)
}
