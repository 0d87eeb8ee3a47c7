package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubDir("downloads")
	require.NoError(t, err)

	want := filepath.Join(tmp, "downloads")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureSubDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	first, err := EnsureSubDir("downloads")
	require.NoError(t, err)
	second, err := EnsureSubDir("downloads")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureSubDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("downloads", []byte("x"), 0o660))

	_, err := EnsureSubDir("downloads")
	require.Error(t, err)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cert.pdf", "cert.pdf"},
		{"My Cert (final).pdf", "My_Cert__final_.pdf"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"résumé.png", "r_sum_.png"},
		{"", "file"},
		{"..", "file"},
		{"a-b_c.D9", "a-b_c.D9"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}
}

func TestSanitizeName_CapsLengthKeepingExtension(t *testing.T) {
	got := SanitizeName(strings.Repeat("a", 500) + ".pdf")
	assert.Len(t, got, maxNameLen)
	assert.True(t, strings.HasSuffix(got, ".pdf"))
}

func TestLastSegment(t *testing.T) {
	assert.Equal(t, "1700000000000-cert.pdf", LastSegment("proofs/o/e/1700000000000-cert.pdf"))
	assert.Equal(t, "plain", LastSegment("plain"))
	assert.Equal(t, "", LastSegment("proofs/o/e/"))
}
