package main

import (
	"mime"
	"path/filepath"
	"strings"
)

// builtinMimeTypes covers the binary formats we care about so detection does
// not depend on the host's mime.types files.
var builtinMimeTypes = map[string]string{
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".bmp":   "image/bmp",
	".ico":   "image/vnd.microsoft.icon",
	".webp":  "image/webp",
	".svg":   "image/svg+xml",
	".tif":   "image/tiff",
	".tiff":  "image/tiff",
	".mp3":   "audio/mpeg",
	".wav":   "audio/x-wav",
	".ogg":   "audio/ogg",
	".flac":  "audio/flac",
	".m4a":   "audio/mp4",
	".aac":   "audio/aac",
	".mp4":   "video/mp4",
	".mov":   "video/quicktime",
	".avi":   "video/x-msvideo",
	".mkv":   "video/x-matroska",
	".webm":  "video/webm",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".zip":   "application/zip",
	".tar":   "application/x-tar",
	".gz":    "application/gzip",
	".tgz":   "application/gzip",
	".pdf":   "application/pdf",
}

// textExtensions are always treated as text. Some mime tables map .ts to MPEG
// transport streams.
var textExtensions = map[string]struct{}{
	".ts":  {},
	".tsx": {},
	".mts": {},
	".cts": {},
}

var binaryMimePrefixes = []string{"image/", "audio/", "video/", "font/"}

var binaryMimeTypes = map[string]struct{}{
	"application/zip":   {},
	"application/x-tar": {},
	"application/gzip":  {},
	"application/pdf":   {},
}

// guessMimeType returns the MIME type for name based on its extension, without
// parameters, or "" when unknown.
func guessMimeType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	if _, ok := textExtensions[ext]; ok {
		return ""
	}
	if mimeType, ok := builtinMimeTypes[ext]; ok {
		return mimeType
	}
	mimeType := mime.TypeByExtension(ext)
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mediaType
	}
	return ""
}

// isBinaryMime reports whether mimeType names a format that is never text.
func isBinaryMime(mimeType string) bool {
	if mimeType == "" {
		return false
	}
	for _, prefix := range binaryMimePrefixes {
		if strings.HasPrefix(mimeType, prefix) {
			return true
		}
	}
	_, ok := binaryMimeTypes[mimeType]
	return ok
}
