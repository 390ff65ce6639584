package indexer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// File types accepted by ParseFile.
const (
	FileTypeText     = "txt"
	FileTypeMarkdown = "md"
	FileTypePDF      = "pdf"
)

// ParsedDocument is the extracted text of a file on disk.
type ParsedDocument struct {
	Filename string
	FileType string
	Path     string
	Size     int64
	Content  string
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// ParseFile extracts plain text from a txt, md, markdown or pdf file.
func ParseFile(path string) (*ParsedDocument, error) {
	fileType, err := detectFileType(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, &UnsupportedInputError{Msg: fmt.Sprintf("%s is a directory", path)}
	}

	var content string
	switch fileType {
	case FileTypePDF:
		content, err = readPDF(path)
	default:
		var raw []byte
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		if fileType == FileTypeMarkdown {
			content = markdownText(raw)
		} else {
			content = string(raw)
		}
	}
	if err != nil {
		return nil, err
	}

	return &ParsedDocument{
		Filename: filepath.Base(path),
		FileType: fileType,
		Path:     path,
		Size:     info.Size(),
		Content:  content,
	}, nil
}

func detectFileType(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "txt":
		return FileTypeText, nil
	case "md", "markdown":
		return FileTypeMarkdown, nil
	case "pdf":
		return FileTypePDF, nil
	default:
		return "", &UnsupportedInputError{Msg: fmt.Sprintf("unsupported file type: .%s", ext)}
	}
}

// markdownText renders the text content of a markdown document, one block per line.
func markdownText(src []byte) string {
	doc := markdown.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	newline := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				newline()
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.Label(src))
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				b.Write(line.Value(src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return b.String()
}

func readPDF(path string) (content string, err error) {
	// The pdf reader panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = &UnsupportedInputError{Msg: fmt.Sprintf("failed to parse pdf %s: %v", filepath.Base(path), r)}
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", &UnsupportedInputError{Msg: fmt.Sprintf("failed to open pdf %s: %v", filepath.Base(path), err)}
	}
	defer func() {
		_ = f.Close()
	}()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &UnsupportedInputError{Msg: fmt.Sprintf("failed to extract pdf text: %v", err)}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return buf.String(), nil
}
