package validation

import (
	"fmt"
	"path"
	"strings"
)

const (
	maxFilenameLength = 200
	fallbackFilename  = "unnamed_file"

	// MaxFileSize caps a single upload.
	MaxFileSize = 100 * 1024 * 1024
)

var allowedExtensions = map[string]struct{}{
	// images
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".svg": {}, ".avif": {}, ".ico": {},
	// documents
	".pdf": {}, ".txt": {}, ".md": {}, ".csv": {}, ".json": {}, ".xml": {},
	".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {}, ".odt": {}, ".ods": {},
	// archives
	".zip": {}, ".tar": {}, ".gz": {}, ".7z": {}, ".rar": {},
	// audio / video
	".mp3": {}, ".wav": {}, ".ogg": {}, ".flac": {}, ".mp4": {}, ".webm": {}, ".mov": {}, ".mkv": {},
}

// blockedExtensions are rejected even when nested inside a double extension
// ("exploit.php.png"), since a misconfigured server may execute or render
// them.
var blockedExtensions = map[string]struct{}{
	".js": {}, ".mjs": {}, ".html": {}, ".htm": {}, ".xhtml": {},
	".php": {}, ".phtml": {}, ".asp": {}, ".aspx": {}, ".jsp": {},
	".exe": {}, ".dll": {}, ".msi": {}, ".com": {}, ".scr": {},
	".sh": {}, ".bash": {}, ".bat": {}, ".cmd": {}, ".ps1": {},
}

// SanitizeFilename strips directory components and leading dots, replaces
// anything outside [A-Za-z0-9._-] with underscores and caps the length while
// preserving the extension.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.TrimLeft(name, ".")
	if name == "" || name == "/" {
		return fallbackFilename
	}

	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '.', c == '_', c == '-':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	name = b.String()

	if len(name) > maxFilenameLength {
		ext := path.Ext(name)
		if len(ext) >= maxFilenameLength {
			ext = ""
		}
		name = name[:maxFilenameLength-len(ext)] + ext
	}
	if name == "" {
		return fallbackFilename
	}
	return name
}

// ValidateExtension checks the final extension against the allow-list and
// every dotted segment against the block-list, case-insensitively.
func ValidateExtension(filename string) (ext string, err error) {
	lower := strings.ToLower(filename)

	ext = path.Ext(lower)
	if ext == "" || ext == lower {
		return "", fmt.Errorf("file must have an extension")
	}

	// Walk all dotted segments so "malware.html.jpg" is caught.
	parts := strings.Split(lower, ".")
	for _, part := range parts[1:] {
		if _, blocked := blockedExtensions["."+part]; blocked {
			return "", fmt.Errorf("file extension .%s is blocked", part)
		}
	}

	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("file extension %s is not allowed", ext)
	}
	return ext, nil
}

func ValidateFileSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("file is empty")
	}
	if size > MaxFileSize {
		return fmt.Errorf("file size exceeds maximum of %d bytes", int64(MaxFileSize))
	}
	return nil
}
