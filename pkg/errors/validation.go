package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// BlueprintExtensions lists the file extensions a blueprint may have.
var BlueprintExtensions = []string{".toml", ".yaml", ".yml", ".hcl", ".json"}

// ValidateName validates a node identity or cluster name from user input.
//
// Validation rules:
//   - Name cannot be empty or blank
//   - Maximum length of 256 characters
//   - No control characters
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name %q contains invalid control characters", name)
		}
	}

	return nil
}

// ValidateOutputPath validates an output path given on the command line.
// Absolute paths are allowed; the path names a file, not a directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not end in a path separator
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}

	return nil
}

// ValidateBlueprintPath validates that path has a supported blueprint
// extension.
func ValidateBlueprintPath(path string) error {
	if err := ValidateOutputPath(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range BlueprintExtensions {
		if ext == e {
			return nil
		}
	}
	return New(ErrCodeInvalidBlueprint, "unsupported blueprint extension %q (must be one of %s)",
		ext, strings.Join(BlueprintExtensions, ", "))
}
