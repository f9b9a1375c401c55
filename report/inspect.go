package report

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/spf13/afero"
)

// PDFInfo summarizes a rendered report document.
type PDFInfo struct {
	Pages int
	// Images counts XObject draw operators across all page content streams.
	Images int
}

// Inspect reads a PDF and reports its page count and how many images its
// pages draw. It is used to verify the document the report command wrote.
func Inspect(fsys afero.Fs, path string) (PDFInfo, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return PDFInfo{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	ctx, err := pdfcpu.Read(f, model.NewDefaultConfiguration())
	if err != nil {
		return PDFInfo{}, fmt.Errorf("read pdf: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return PDFInfo{}, fmt.Errorf("page count: %w", err)
	}

	info := PDFInfo{Pages: ctx.PageCount}
	for i := 1; i <= ctx.PageCount; i++ {
		pageDict, _, _, err := ctx.PageDict(i, false)
		if err != nil {
			return PDFInfo{}, fmt.Errorf("page %d dict: %w", i, err)
		}

		obj, found := pageDict.Find("Contents")
		if !found {
			continue
		}

		content, err := resolveContentStream(ctx, obj)
		if err != nil {
			return PDFInfo{}, fmt.Errorf("page %d content stream: %w", i, err)
		}
		info.Images += countDraws(content)
	}
	return info, nil
}

// countDraws counts "Do" operators in a content stream.
func countDraws(content []byte) int {
	n := 0
	for _, line := range bytes.Split(content, []byte("\n")) {
		fields := bytes.Fields(line)
		for j, f := range fields {
			if j > 0 && string(f) == "Do" && bytes.HasPrefix(fields[j-1], []byte("/")) {
				n++
			}
		}
	}
	return n
}

// resolveContentStream dereferences and decompresses a Contents entry, which
// may be a single stream or an array of streams.
func resolveContentStream(ctx *model.Context, obj types.Object) ([]byte, error) {
	obj, err := ctx.Dereference(obj)
	if err != nil {
		return nil, err
	}

	switch v := obj.(type) {
	case types.StreamDict:
		if err := v.Decode(); err != nil {
			return nil, fmt.Errorf("decode stream: %w", err)
		}
		return v.Content, nil

	case types.Array:
		var buf bytes.Buffer
		for _, item := range v {
			data, err := resolveContentStream(ctx, item)
			if err != nil {
				return nil, err
			}
			buf.Write(data)
			buf.WriteByte('\n')
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("unexpected Contents type: %T", obj)
	}
}
