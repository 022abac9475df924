package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10  // Margin in mm
	pdfLineHeight = 5   // Line height in mm
	pdfFontSize   = 9
	pdfTabWidth   = 4 // Number of spaces for a tab
	pdfStyleName  = "github"
)

// Core PDF fonts only cover cp1252, so box-drawing runes are swapped for ASCII.
var treeASCIIReplacer = strings.NewReplacer("├── ", "|-- ", "└── ", "`-- ", "│", "|")

// generatePDF renders the digest's tree and file sections to a PDF with
// syntax highlighting.
func generatePDF(rootName string, digest Digest, summary Summary, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	style := styles.Get(pdfStyleName)
	if style == nil {
		style = styles.Fallback
	}
	cellWidth := float64(pdfPageWidth - 2*pdfMargin)

	treeString := treeHeader + printTree(rootName, buildTree(digest.Files))
	pdf.SetFont("Courier", "", pdfFontSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(cellWidth, pdfLineHeight, translate(treeASCIIReplacer.Replace(treeString)), "", "L", false)

	for _, file := range digest.Files {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", pdfFontSize+1)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(cellWidth, pdfLineHeight, translate("FILE: "+file.RelPath), "", "L", false)
		pdf.Ln(pdfLineHeight / 2)
		pdf.Line(pdfMargin, pdf.GetY(), pdfPageWidth-pdfMargin, pdf.GetY())
		pdf.Ln(pdfLineHeight / 2)

		content := digest.Contents[file.RelPath]
		if err := writeHighlightedCode(pdf, style, translate, content, file.RelPath); err != nil {
			pdf.SetFont("Courier", "", pdfFontSize)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(cellWidth, pdfLineHeight, translate(expandTabs(content)), "", "L", false)
		}
	}

	pdf.SetFont("Helvetica", "B", pdfFontSize+1)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(pdfLineHeight)
	pdf.MultiCell(cellWidth, pdfLineHeight, "--- Summary ---", "", "L", false)
	pdf.SetFont("Helvetica", "", pdfFontSize)
	summaryString := fmt.Sprintf("Files included: %d\nTotal size: %d bytes\nTokens: ~%d (%s)",
		summary.TotalFiles, summary.TotalSize, summary.TotalTokens, summary.Tokenizer)
	pdf.MultiCell(cellWidth, pdfLineHeight, summaryString, "", "L", false)

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to save PDF to %s: %w", outputPath, err)
	}
	return nil
}

// writeHighlightedCode writes code to the PDF, colouring tokens with style.
func writeHighlightedCode(pdf *gofpdf.Fpdf, style *chroma.Style, translate func(string) string, codeContent, filePath string) error {
	lexer := lexers.Match(filePath)
	if lexer == nil {
		lexer = lexers.Analyse(codeContent)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, codeContent)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	pdf.SetFont("Courier", "", pdfFontSize)
	fg := style.Get(chroma.Text).Colour
	for token := iterator(); token != chroma.EOF; token = iterator() {
		entry := style.Get(token.Type)
		styleStr := ""
		if entry.Bold == chroma.Yes {
			styleStr += "B"
		}
		if entry.Italic == chroma.Yes {
			styleStr += "I"
		}
		pdf.SetFontStyle(styleStr)

		switch {
		case entry.Colour.IsSet():
			pdf.SetTextColor(int(entry.Colour.Red()), int(entry.Colour.Green()), int(entry.Colour.Blue()))
		case fg.IsSet():
			pdf.SetTextColor(int(fg.Red()), int(fg.Green()), int(fg.Blue()))
		default:
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Write(pdfLineHeight, translate(expandTabs(token.Value)))
	}
	pdf.Ln(-1)
	return pdf.Error()
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", pdfTabWidth))
}
