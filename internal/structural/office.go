package structural

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/doc-extractor/internal/common"
)

// OfficeText extracts text from a DOCX document: non-empty paragraph texts
// in document order, then non-empty table-cell texts in row-major, table
// order, each joined by a single newline. Legacy .doc bytes are not a ZIP
// archive and fail here, which sends the orchestrator into the
// PDF-conversion chain.
func OfficeText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	var (
		paragraphs []string
		cells      []string

		decoder  = xml.NewDecoder(rc)
		paraText strings.Builder
		cellText strings.Builder
		inPara   bool
		inText   bool
		tblDepth int
		tcDepth  int
	)

	flushPara := func() {
		text := strings.TrimSpace(paraText.String())
		paraText.Reset()
		if text == "" {
			return
		}
		if tcDepth > 0 {
			if cellText.Len() > 0 {
				cellText.WriteByte('\n')
			}
			cellText.WriteString(text)
		} else if tblDepth == 0 {
			paragraphs = append(paragraphs, text)
		}
	}

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tblDepth++
			case "tc":
				if tcDepth == 0 {
					cellText.Reset()
				}
				tcDepth++
			case "p":
				inPara = true
				paraText.Reset()
			case "t":
				inText = inPara
			}

		case xml.CharData:
			if inText {
				paraText.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				if tblDepth > 0 {
					tblDepth--
				}
			case "tc":
				if tcDepth > 0 {
					tcDepth--
					if tcDepth == 0 {
						if text := strings.TrimSpace(cellText.String()); text != "" {
							cells = append(cells, text)
						}
					}
				}
			case "p":
				if inPara {
					inPara = false
					flushPara()
				}
			case "t":
				inText = false
			}
		}
	}

	text := strings.TrimSpace(strings.Join(append(paragraphs, cells...), "\n"))
	if text == "" {
		return "", common.ErrEmptyExtraction
	}
	return text, nil
}
