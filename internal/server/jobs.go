package server

// Job naming and path resolution: uploaded files and produced artifacts are
// keyed by a UUID job id so user-supplied names never touch the filesystem
// layout directly.

import (
	"fmt"
	"path/filepath"
	"strings"
)

// allowedExtensions is the upload whitelist, matched case-insensitively.
var allowedExtensions = map[string]bool{
	".mp4": true,
	".avi": true,
	".mov": true,
}

// AllowedExtension returns the lowercased extension of name and whether it
// is accepted for upload.
func AllowedExtension(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	return ext, allowedExtensions[ext]
}

// SanitizeFilename strips any path components and every character outside
// [A-Za-z0-9_-.], preventing traversal via crafted upload names.
func SanitizeFilename(name string) string {
	base := filepath.Base(name)
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '-', r == '.':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeJobID keeps only the characters a UUID can contain. Applied to
// every job id arriving in a URL path.
func SanitizeJobID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// inputPath returns where an upload for jobID is stored.
func (s *Server) inputPath(jobID, ext string) string {
	return filepath.Join(s.cfg.UploadDir, fmt.Sprintf("%s_input%s", jobID, ext))
}

// outputPath returns the requested artifact path for jobID. The codec
// negotiator may adjust the extension, so readers locate the artifact with
// [findArtifact] rather than assuming .mp4.
func (s *Server) outputPath(jobID string) string {
	return filepath.Join(s.cfg.ResultDir, fmt.Sprintf("%s_output.mp4", jobID))
}

// findArtifact locates the produced output file for jobID regardless of
// which container extension negotiation settled on.
func (s *Server) findArtifact(jobID string) (string, bool) {
	matches, _ := filepath.Glob(filepath.Join(s.cfg.ResultDir, jobID+"_output.*"))
	if len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// jobFiles returns every on-disk file belonging to jobID (uploads and
// artifacts), for cleanup.
func (s *Server) jobFiles(jobID string) []string {
	var files []string
	in, _ := filepath.Glob(filepath.Join(s.cfg.UploadDir, jobID+"_input.*"))
	files = append(files, in...)
	out, _ := filepath.Glob(filepath.Join(s.cfg.ResultDir, jobID+"_output.*"))
	return append(files, out...)
}
