package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/doc-extractor/constants"
	"github.com/joseph-ayodele/doc-extractor/internal/common"
	"github.com/joseph-ayodele/doc-extractor/internal/extract"
	"github.com/joseph-ayodele/doc-extractor/internal/links"
)

type extractResponse struct {
	ID       string           `json:"id"`
	Filename string           `json:"filename"`
	Kind     constants.Kind   `json:"kind"`
	Method   constants.Method `json:"method"`
	Pages    int              `json:"pages"`
	Text     string           `json:"text"`
	Links    links.Links      `json:"links"`
}

// handleExtract accepts a document as a multipart "file" part or a "url"
// form value, runs the extraction chain, and returns text plus links.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-r.Context().Done():
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Limits.ProcessTimeout)
	defer cancel()

	data, filename, declaredMIME, err := s.readInput(ctx, r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			writeError(w, http.StatusRequestEntityTooLarge, "TOO_LARGE", "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	doc, err := extract.NewDocument(data, declaredMIME, filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", err.Error())
		return
	}

	pages, err := s.engine.PageCount(doc)
	if err != nil {
		// Page counting is advisory. A damaged PDF still gets its shot at
		// the OCR path, so keep going.
		s.logger.Warn("page count failed", "filename", doc.Filename, "error", err)
		pages = 0
	}
	if s.cfg.Limits.MaxPages > 0 && pages > s.cfg.Limits.MaxPages {
		writeError(w, http.StatusRequestEntityTooLarge, "PAGE_LIMIT",
			common.ErrPageLimit.Error())
		return
	}

	result, err := s.engine.Process(ctx, doc)
	if err != nil {
		s.writeProcessError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, extractResponse{
		ID:       uuid.NewString(),
		Filename: doc.Filename,
		Kind:     doc.Kind,
		Method:   result.Method,
		Pages:    pages,
		Text:     result.Text,
		Links:    s.links.Extract(ctx, doc.Data, result.Text, doc.Kind),
	})
}

func (s *Server) writeProcessError(ctx context.Context, w http.ResponseWriter, err error) {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		writeError(w, http.StatusGatewayTimeout, "TIMEOUT", "extraction timed out")
		return
	}

	var exErr *extract.ExtractionError
	if errors.As(err, &exErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]errorBody{
			"error": {
				Code:     "EXTRACTION_FAILED",
				Message:  "all extraction strategies failed",
				Attempts: exErr.Attempts,
			},
		})
		return
	}

	writeError(w, common.HTTPStatus(err), "INTERNAL", err.Error())
}

func (s *Server) readInput(ctx context.Context, r *http.Request) (data []byte, filename, declaredMIME string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, s.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadBytes); err != nil {
		return nil, "", "", err
	}

	if rawURL := r.FormValue("url"); rawURL != "" {
		res, err := s.fetcher.Fetch(ctx, rawURL)
		if err != nil {
			return nil, "", "", err
		}
		return res.Data, res.Filename, res.ContentType, nil
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", "", errors.New(`request needs a "file" part or a "url" value`)
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		return nil, "", "", err
	}
	return data, header.Filename, header.Header.Get("Content-Type"), nil
}
