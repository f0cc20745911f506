package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"interview-evaluator/internal/models"
)

type DocumentNormalizer interface {
	ExtractText(artifact *models.UploadedArtifact) (string, error)
}

type documentNormalizer struct{}

func NewDocumentNormalizer() DocumentNormalizer {
	return &documentNormalizer{}
}

// ExtractText turns an uploaded artifact into plain text. The format is
// decided by the lower-cased filename suffix only; the bytes are never
// sniffed. Callers must skip extraction for empty artifacts.
func (d *documentNormalizer) ExtractText(artifact *models.UploadedArtifact) (string, error) {
	ext := strings.ToLower(filepath.Ext(artifact.Filename))

	switch ext {
	case ".txt":
		return d.extractTXT(artifact.Raw)
	case ".pdf":
		return d.extractPDF(artifact.Raw)
	case ".docx":
		return d.extractDOCX(artifact.Raw)
	default:
		return "", &models.UnsupportedFormatError{
			Filename: artifact.Filename,
			Allowed:  models.AllowedDocumentFormats,
		}
	}
}

func (d *documentNormalizer) extractTXT(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", &models.CorruptDocumentError{
			Format: "txt",
			Err:    errors.New("content is not valid UTF-8"),
		}
	}
	return string(raw), nil
}

func (d *documentNormalizer) extractPDF(raw []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs instead of
	// returning an error.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &models.CorruptDocumentError{Format: "pdf", Err: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", &models.CorruptDocumentError{Format: "pdf", Err: err}
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if !page.V.IsNull() {
			// A page with no extractable text contributes an empty
			// string, not an error.
			if text, err := page.GetPlainText(nil); err == nil {
				textBuilder.WriteString(text)
			}
		}
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

func (d *documentNormalizer) extractDOCX(raw []byte) (string, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", &models.CorruptDocumentError{Format: "docx", Err: err}
	}

	for _, file := range zipReader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		docXML, err := file.Open()
		if err != nil {
			return "", &models.CorruptDocumentError{Format: "docx", Err: err}
		}
		defer docXML.Close()

		text, err := extractParagraphs(docXML)
		if err != nil {
			return "", &models.CorruptDocumentError{Format: "docx", Err: err}
		}
		return text, nil
	}

	return "", &models.CorruptDocumentError{
		Format: "docx",
		Err:    errors.New("word/document.xml not found in package"),
	}
}

// extractParagraphs walks the document XML and collects the text nodes
// of each paragraph (<w:p>), joining paragraphs with newlines.
func extractParagraphs(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var paragraphs []string
	var current strings.Builder
	inParagraph := false
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inParagraph {
					paragraphs = append(paragraphs, current.String())
				}
				inParagraph = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inParagraph && inText {
				current.Write(t)
			}
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}
