package sink

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"promptpack/pkg/bundle"
)

// ContentMarker is the placeholder a prompt template must contain. Every
// occurrence is replaced with the assembled bundle.
const ContentMarker = "${${CONTENT}$}$"

// maxTemplateSize caps how large a prompt template may be.
const maxTemplateSize = 100 * 1000 * 1000

// ValidateTemplatePath checks that a prompt template exists, is a regular
// file, and is not unreasonably large.
func ValidateTemplatePath(templatePath string) error {
	info, err := os.Stat(templatePath)
	if err != nil {
		return fmt.Errorf("%w: prompt template %q does not exist", bundle.ErrConfig, templatePath)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: prompt template %q is not a file", bundle.ErrConfig, templatePath)
	}
	if info.Size() > maxTemplateSize {
		return fmt.Errorf("%w: prompt template %q exceeds %d bytes", bundle.ErrConfig, templatePath, maxTemplateSize)
	}
	return nil
}

// ValidateOutputPath checks that the output path does not name an existing
// directory. A missing path is fine, it will be created on write.
func ValidateOutputPath(outputPath string) error {
	info, err := os.Stat(outputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: cannot stat output path %q: %v", bundle.ErrConfig, outputPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: output path %q is a directory", bundle.ErrConfig, outputPath)
	}
	return nil
}

// ExpandTemplate reads a prompt template and substitutes every content
// marker with the bundle text.
func ExpandTemplate(templatePath, content string) (string, error) {
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read prompt template %q: %v", bundle.ErrConfig, templatePath, err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: prompt template %q is not valid UTF-8", bundle.ErrConfig, templatePath)
	}
	tmpl := string(raw)
	if !strings.Contains(tmpl, ContentMarker) {
		return "", fmt.Errorf("%w: prompt template %q does not contain the marker %q", bundle.ErrConfig, templatePath, ContentMarker)
	}
	return strings.ReplaceAll(tmpl, ContentMarker, content), nil
}
