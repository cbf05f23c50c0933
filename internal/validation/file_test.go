package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "photo.jpg", "photo.jpg"},
		{"strips directories", "../../etc/passwd", "passwd"},
		{"strips windows path", `C:\Users\foo\doc.pdf`, "doc.pdf"},
		{"strips leading dots", ".htaccess", "htaccess"},
		{"replaces odd characters", "my file (1).png", "my_file__1_.png"},
		{"keeps safe punctuation", "a_b-c.d.txt", "a_b-c.d.txt"},
		{"unicode replaced", "résumé.pdf", "r__sum__.pdf"},
		{"dots only", "...", "unnamed_file"},
		{"empty", "", "unnamed_file"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeFilename(tc.input))
		})
	}
}

func TestSanitizeFilenameCapsLengthKeepingExtension(t *testing.T) {
	long := strings.Repeat("a", 250) + ".png"
	got := SanitizeFilename(long)
	assert.Len(t, got, 200)
	assert.True(t, strings.HasSuffix(got, ".png"))
}

func TestValidateExtension(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		for _, name := range []string{"pic.jpg", "PIC.JPG", "doc.pdf", "archive.tar", "song.mp3", "clip.webm"} {
			ext, err := ValidateExtension(name)
			require.NoError(t, err, name)
			assert.True(t, strings.HasPrefix(ext, "."))
		}
	})

	t.Run("missing extension", func(t *testing.T) {
		_, err := ValidateExtension("README")
		assert.Error(t, err)
		_, err = ValidateExtension(".gitignore")
		assert.Error(t, err)
	})

	t.Run("not on allow list", func(t *testing.T) {
		_, err := ValidateExtension("disk.iso")
		assert.Error(t, err)
	})

	t.Run("blocked", func(t *testing.T) {
		for _, name := range []string{"page.html", "shell.sh", "tool.exe", "script.php"} {
			_, err := ValidateExtension(name)
			assert.Error(t, err, name)
		}
	})

	t.Run("blocked segment inside double extension", func(t *testing.T) {
		_, err := ValidateExtension("exploit.php.png")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ".php")

		_, err = ValidateExtension("page.HTML.jpg")
		assert.Error(t, err)
	})

	t.Run("harmless double extension", func(t *testing.T) {
		ext, err := ValidateExtension("backup.tar.gz")
		require.NoError(t, err)
		assert.Equal(t, ".gz", ext)
	})
}

func TestValidateFileSize(t *testing.T) {
	assert.Error(t, ValidateFileSize(0))
	assert.Error(t, ValidateFileSize(-1))
	assert.NoError(t, ValidateFileSize(1))
	assert.NoError(t, ValidateFileSize(MaxFileSize))
	assert.Error(t, ValidateFileSize(MaxFileSize+1))
}
