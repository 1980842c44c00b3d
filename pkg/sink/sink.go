// Package sink delivers an assembled bundle to its destination: an
// output file, the system clipboard, or a prompt template expansion.
package sink

import (
	"bufio"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// Sink delivers the final bundle text to its destination.
type Sink interface {
	Write(content string) error
}

// Resolve picks the sink for a run: a file sink when an output path is
// given, the system clipboard otherwise.
func Resolve(outputPath string, logger *zap.Logger) Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	if outputPath != "" {
		return &File{Path: outputPath, logger: logger}
	}
	return &Clipboard{logger: logger}
}

// File writes the bundle to one output file.
type File struct {
	Path   string
	logger *zap.Logger
}

// Write creates (or truncates) the output file and writes the bundle
// through a buffered writer.
func (f *File) Write(content string) error {
	f.logger.Debug("Writing bundle to output file", zap.String("outputPath", f.Path))

	outFile, err := os.Create(f.Path)
	if err != nil {
		f.logger.Error("Failed to create output file", zap.String("file", f.Path), zap.Error(err))
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err := outFile.Close(); err != nil {
			f.logger.Error("Failed to close output file", zap.String("file", f.Path), zap.Error(err))
		}
	}()

	writer := bufio.NewWriter(outFile)
	if _, err := writer.WriteString(content); err != nil {
		f.logger.Error("Failed to write bundle", zap.String("file", f.Path), zap.Error(err))
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := writer.Flush(); err != nil {
		f.logger.Error("Failed to flush output file", zap.String("file", f.Path), zap.Error(err))
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

// Clipboard copies the bundle to the system clipboard.
type Clipboard struct {
	logger *zap.Logger
}

func (c *Clipboard) Write(content string) error {
	if err := clipboard.WriteAll(content); err != nil {
		c.logger.Error("Failed to copy bundle to clipboard", zap.Error(err))
		return fmt.Errorf("failed to copy output to clipboard: %w", err)
	}
	c.logger.Debug("Copied bundle to clipboard", zap.Int("contentBytes", len(content)))
	return nil
}
