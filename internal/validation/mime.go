package validation

import (
	"bytes"
	"mime"
	"net/http"
	"path"
	"strings"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// DetectMIME determines the content type to record for an upload from the
// first bytes of the file, falling back to the extension for formats the
// stdlib sniffer reports as octet-stream.
func DetectMIME(head []byte, filename string) string {
	switch {
	case len(head) >= 3 && head[0] == 0xff && head[1] == 0xd8 && head[2] == 0xff:
		return "image/jpeg"
	case len(head) >= len(pngMagic) && bytes.Equal(head[:len(pngMagic)], pngMagic):
		return "image/png"
	case len(head) >= 6 && (bytes.HasPrefix(head, []byte("GIF87a")) || bytes.HasPrefix(head, []byte("GIF89a"))):
		return "image/gif"
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP")):
		return "image/webp"
	}

	detected := http.DetectContentType(head)
	if detected != "application/octet-stream" {
		if i := strings.IndexByte(detected, ';'); i > 0 {
			detected = detected[:i]
		}
		return detected
	}

	if byExt := mime.TypeByExtension(path.Ext(strings.ToLower(filename))); byExt != "" {
		if i := strings.IndexByte(byExt, ';'); i > 0 {
			byExt = byExt[:i]
		}
		return byExt
	}
	return "application/octet-stream"
}
