// Package links scans PDF documents for URLs and email addresses, from both
// clickable link annotations and the extracted text, and groups them by
// platform.
package links

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/doc-extractor/constants"
)

// Links maps every category key to an ordered, de-duplicated URI list.
// Every key from constants.LinkCategories is always present.
type Links map[string][]string

// Record is one discovered link with its category and origin. A URI seen
// first as an annotation keeps that origin even when it also appears in
// text.
type Record struct {
	URI      string
	Category string
	Origin   string
}

var (
	urlRe   = regexp.MustCompile(`https?://[A-Za-z0-9$\-_.+!*'(),%/:@&=?#~]+`)
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
)

type Extractor struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract produces the categorized link map for a document. Only PDFs carry
// links; every other kind yields the full key set with empty lists, which is
// a defined result, not an error. Internal failures never escape this
// boundary; they degrade to empty output and a log line.
func (e *Extractor) Extract(ctx context.Context, data []byte, text string, kind constants.Kind) (out Links) {
	out = emptyLinks()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("link extraction failed, degrading to empty output", "panic", r)
			out = emptyLinks()
		}
	}()

	if kind != constants.PDF {
		return out
	}
	if err := ctx.Err(); err != nil {
		return out
	}

	annots, err := annotationURIs(data)
	if err != nil {
		e.logger.Warn("annotation link extraction failed", "error", err)
		annots = nil
	}

	records := collectRecords(annots, text)
	for _, rec := range records {
		out[rec.Category] = append(out[rec.Category], rec.URI)
		if rec.Origin == constants.OriginAnnotation {
			out[constants.CategoryAnnotation] = append(out[constants.CategoryAnnotation], rec.URI)
		}
	}

	seenMail := make(map[string]struct{})
	for _, m := range emailRe.FindAllString(text, -1) {
		if _, ok := seenMail[m]; ok {
			continue
		}
		seenMail[m] = struct{}{}
		out[constants.CategoryEmail] = append(out[constants.CategoryEmail], m)
	}

	return out
}

// collectRecords merges annotation URIs and text-matched URLs into one
// de-duplicated, ordered record list. Annotations are read first, so a URI
// present in both keeps annotation origin. Dedup keys are case-sensitive.
func collectRecords(annots []string, text string) []Record {
	seen := make(map[string]struct{})
	var records []Record

	add := func(uri, origin string) {
		if uri == "" {
			return
		}
		if _, ok := seen[uri]; ok {
			return
		}
		seen[uri] = struct{}{}
		records = append(records, Record{
			URI:      uri,
			Category: categorize(uri),
			Origin:   origin,
		})
	}

	for _, uri := range annots {
		add(uri, constants.OriginAnnotation)
	}
	for _, uri := range urlRe.FindAllString(text, -1) {
		add(uri, constants.OriginText)
	}
	return records
}

// categorize assigns the platform category, checked in fixed priority
// order; first match wins.
func categorize(uri string) string {
	lower := strings.ToLower(uri)
	switch {
	case strings.Contains(lower, "linkedin.com"):
		return constants.CategoryLinkedIn
	case strings.Contains(lower, "github.com"):
		return constants.CategoryGitHub
	case strings.Contains(lower, "stackoverflow.com"):
		return constants.CategoryStackOverflow
	default:
		return constants.CategoryWeb
	}
}

func emptyLinks() Links {
	l := make(Links, len(constants.LinkCategories))
	for _, c := range constants.LinkCategories {
		l[c] = []string{}
	}
	return l
}
