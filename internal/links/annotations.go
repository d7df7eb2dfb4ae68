package links

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// annotationURIs reads the URI actions of all Link annotations in a PDF by
// walking the cross-reference table in object-number order, so output order
// is stable across runs.
func annotationURIs(data []byte) ([]string, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	objNrs := make([]int, 0, len(ctx.Table))
	for nr := range ctx.Table {
		objNrs = append(objNrs, nr)
	}
	sort.Ints(objNrs)

	var uris []string
	for _, nr := range objNrs {
		entry := ctx.Table[nr]
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		d, ok := entry.Object.(types.Dict)
		if !ok {
			continue
		}
		subtype := d.NameEntry("Subtype")
		if subtype == nil || *subtype != "Link" {
			continue
		}
		obj, found := d.Find("A")
		if !found {
			continue
		}
		action, err := ctx.DereferenceDict(obj)
		if err != nil || action == nil {
			continue
		}
		if uri := uriString(ctx, action); uri != "" {
			uris = append(uris, uri)
		}
	}
	return uris, nil
}

func uriString(ctx *model.Context, action types.Dict) string {
	obj, found := action.Find("URI")
	if !found {
		return ""
	}
	obj, err := ctx.Dereference(obj)
	if err != nil {
		return ""
	}
	switch s := obj.(type) {
	case types.StringLiteral:
		v, err := types.StringLiteralToString(s)
		if err != nil {
			return ""
		}
		return v
	case types.HexLiteral:
		v, err := types.HexLiteralToString(s)
		if err != nil {
			return ""
		}
		return v
	default:
		return ""
	}
}
