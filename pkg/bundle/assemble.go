package bundle

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Assembler renders the final bundle text from the admitted files. The
// layout is fixed: a "File Paths:" header listing every admitted path,
// a "File Contents:" body with one "File: <path>" block per file, and,
// when a diff scope is attached, a "Diff:" section per block. Blocks are
// separated by a single blank line. The same inputs yield byte-identical
// output on every run.
type Assembler struct {
	repo   Repository // used for historical reads; may be nil without an end revision
	scope  *DiffScope // nil when diff sections are not wanted
	rng    DiffRange
	logger *zap.Logger
}

// NewAssembler wires an assembler. scope may be nil to omit diff
// sections; repo is only consulted when the range names an end revision.
func NewAssembler(repo Repository, scope *DiffScope, rng DiffRange, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{repo: repo, scope: scope, rng: rng, logger: logger}
}

// FileText returns the bundled text for one admitted file: the blob at
// the end revision when the range names one, the live file otherwise.
// Generated summary marker blocks are stripped either way.
func (a *Assembler) FileText(f AdmittedFile) (string, error) {
	if a.rng.End != "" {
		data, err := a.repo.ShowFile(a.rng.End, f.RelPath)
		if err != nil {
			a.logger.Error("Failed to read file at end revision",
				zap.String("filePath", f.RelPath),
				zap.String("revision", a.rng.End),
				zap.Error(err))
			return "", fmt.Errorf("%w: %s at %s: %v", ErrHistoricalRead, f.RelPath, a.rng.End, err)
		}
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s at %s", ErrEncoding, f.RelPath, a.rng.End)
		}
		return StripMarkerBlock(string(data)), nil
	}

	text, err := ReadFileText(f.AbsPath)
	if err != nil {
		a.logger.Error("Failed to read file", zap.String("filePath", f.AbsPath), zap.Error(err))
		return "", err
	}
	return StripMarkerBlock(text), nil
}

// Assemble renders the bundle. Any read failure aborts; no partial
// bundle is emitted.
func (a *Assembler) Assemble(files []AdmittedFile) (string, error) {
	var b strings.Builder
	writeHeader(&b, files, "File Contents:")

	for _, f := range files {
		text, err := a.FileText(f)
		if err != nil {
			return "", err
		}
		writeBlock(&b, f.RelPath, text)

		if a.scope != nil {
			b.WriteString("Diff:\n")
			if frag := FragmentFor(a.scope.Patch(), f.RelPath); frag != "" {
				b.WriteString(frag)
				if !strings.HasSuffix(frag, "\n") {
					b.WriteString("\n")
				}
			}
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}

// AssembleSummaries renders the summaries variant of the bundle: the
// body header reads "File Summaries:" and each file block carries its
// summary instead of its content. summaries must align one-to-one with
// files, in order.
func (a *Assembler) AssembleSummaries(files []AdmittedFile, summaries []string) (string, error) {
	if len(summaries) != len(files) {
		return "", fmt.Errorf("%d summaries for %d files", len(summaries), len(files))
	}

	var b strings.Builder
	writeHeader(&b, files, "File Summaries:")
	for i, f := range files {
		writeBlock(&b, f.RelPath, summaries[i])
	}
	return b.String(), nil
}

// writeHeader emits the path list and the body header. With zero files
// the two header lines are still emitted, each followed by a blank line.
func writeHeader(b *strings.Builder, files []AdmittedFile, bodyHeader string) {
	b.WriteString("File Paths:\n")
	for _, f := range files {
		b.WriteString(f.RelPath)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(bodyHeader)
	b.WriteString("\n\n")
}

// writeBlock emits one "File:" block, newline-terminating the text and
// closing with the blank separator line.
func writeBlock(b *strings.Builder, relPath, text string) {
	b.WriteString("File: ")
	b.WriteString(relPath)
	b.WriteString("\n")
	b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
