// Package document renders and writes the Markdown snapshot of a project.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/temirov/mdsnap/internal/utils"
)

const (
	// DefaultPrefix is the file name prefix used when none is configured.
	DefaultPrefix = "documentation"
	// TimestampLayout formats the generation time embedded in file names.
	TimestampLayout = "2006-01-02_15-04-05"
	// DefaultKind tags fenced blocks of files without an extension.
	DefaultKind = "text"

	markdownExtension          = ".md"
	codeFence                  = "```"
	replacementRune            = "\uFFFD"
	titleFormat                = "# Project Documentation: %s\n\n"
	structureHeading           = "## File Structure\n\n"
	contentsHeading            = "## File Contents\n\n"
	contentsIntro              = "Below are the contents of all files in the project:\n\n"
	fileHeadingFormat          = "### File: %s\n\n"
	binaryFormat               = "[Binary file - %d bytes]\n\n"
	readErrorFormat            = "[Error reading file: %v]\n\n"
	errorCreateDirectoryFormat = "create output directory %s: %w"
	errorWriteDocumentFormat   = "write document %s: %w"
)

// Kind returns the fence language tag for filePath: its lower-cased extension without
// the dot, or DefaultKind when there is none.
func Kind(filePath string) string {
	extension := strings.TrimPrefix(utils.FileExtension(filePath), ".")
	if extension == "" {
		return DefaultKind
	}
	return extension
}

// FileName returns the document file name for prefix at moment now.
func FileName(prefix string, now time.Time) string {
	return prefix + "_" + now.Format(TimestampLayout) + markdownExtension
}

// FileGlob returns a doublestar pattern matching the names FileName produces for prefix.
func FileGlob(prefix string) string {
	var builder strings.Builder
	builder.WriteString(utils.EscapeGlob(prefix) + "_")
	for _, character := range TimestampLayout {
		if unicode.IsDigit(character) {
			builder.WriteString("[0-9]")
			continue
		}
		builder.WriteString(utils.EscapeGlob(string(character)))
	}
	builder.WriteString(markdownExtension)
	return builder.String()
}

// Render builds the document for projectName. Files appear in the order given; a file
// containing a NUL byte is summarised by its length, and a file that cannot be read
// gets an inline error note instead of aborting the document.
func Render(projectName string, outline string, rootDirectory string, filePaths []string) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, titleFormat, projectName)

	builder.WriteString(structureHeading)
	builder.WriteString(codeFence + "\n")
	builder.WriteString(outline)
	builder.WriteString("\n" + codeFence + "\n\n")

	builder.WriteString(contentsHeading)
	builder.WriteString(contentsIntro)
	for _, filePath := range filePaths {
		writeFileSection(&builder, rootDirectory, filePath)
	}
	return builder.String()
}

func writeFileSection(builder *strings.Builder, rootDirectory, filePath string) {
	fmt.Fprintf(builder, fileHeadingFormat, utils.NormalizedRelativePath(rootDirectory, filePath))

	fileBytes, readError := os.ReadFile(filePath)
	if readError != nil {
		fmt.Fprintf(builder, readErrorFormat, readError)
		return
	}
	if utils.IsBinary(fileBytes) {
		fmt.Fprintf(builder, binaryFormat, len(fileBytes))
		return
	}
	builder.WriteString(codeFence + Kind(filePath) + "\n")
	builder.WriteString(strings.ToValidUTF8(string(fileBytes), replacementRune))
	builder.WriteString("\n" + codeFence + "\n\n")
}

// Write stores content as a new timestamped document in outputDirectory and returns its path.
func Write(outputDirectory, prefix string, now time.Time, content string) (string, error) {
	if mkdirError := os.MkdirAll(outputDirectory, 0o755); mkdirError != nil {
		return "", fmt.Errorf(errorCreateDirectoryFormat, outputDirectory, mkdirError)
	}
	documentPath := filepath.Join(outputDirectory, FileName(prefix, now))
	if writeError := os.WriteFile(documentPath, []byte(content), 0o644); writeError != nil {
		return "", fmt.Errorf(errorWriteDocumentFormat, documentPath, writeError)
	}
	return documentPath, nil
}
