package extract

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePDFText struct {
	text string
	err  error
}

func (f *fakePDFText) PlainText(data []byte) (string, error) {
	return f.text, f.err
}

type fakeRasterizer struct {
	pages int
	err   error
}

func (f *fakeRasterizer) Pages(data []byte) ([]image.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	imgs := make([]image.Image, f.pages)
	for i := range imgs {
		imgs[i] = image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return imgs, nil
}

type countingOCR struct {
	calls int
	text  string
	err   error
}

func (c *countingOCR) Recognize(img image.Image) (string, error) {
	c.calls++
	return c.text, c.err
}

type failingEnhancer struct{}

func (failingEnhancer) Enhance(img image.Image) (image.Image, error) {
	return nil, errors.New("enhance failed")
}

func TestExtractPDFNativeTextSkipsOCR(t *testing.T) {
	ocr := &countingOCR{text: "should not appear"}
	native := strings.Repeat("native text layer ", 10)
	e := NewExtractor(
		WithPDFTextReader(&fakePDFText{text: native}),
		WithRasterizer(&fakeRasterizer{pages: 2}),
		WithOCRReader(ocr),
	)

	res := e.Extract("application/pdf", []byte("%PDF"))

	assert.Equal(t, Normalize(native), res.FullText)
	assert.Equal(t, 0, ocr.calls, "OCR must not run when the text layer is usable")
}

func TestExtractPDFShortTextTriggersOCR(t *testing.T) {
	ocr := &countingOCR{text: "recognized page text"}
	e := NewExtractor(
		WithPDFTextReader(&fakePDFText{text: "tiny"}),
		WithRasterizer(&fakeRasterizer{pages: 3}),
		WithOCRReader(ocr),
	)

	res := e.Extract("application/pdf", []byte("%PDF"))

	assert.Equal(t, 3, ocr.calls, "one OCR call per rasterized page")
	assert.Equal(t, Normalize(strings.Repeat("recognized page text\n", 3)), res.FullText)
}

func TestExtractPDFNativeErrorFallsBackToOCR(t *testing.T) {
	ocr := &countingOCR{text: "scanned content from a page"}
	e := NewExtractor(
		WithPDFTextReader(&fakePDFText{err: errors.New("corrupt xref")}),
		WithRasterizer(&fakeRasterizer{pages: 1}),
		WithOCRReader(ocr),
	)

	res := e.Extract("application/pdf", nil)

	assert.Equal(t, 1, ocr.calls)
	assert.Equal(t, "scanned content from a page", res.FullText)
}

func TestExtractPDFEverythingFailsYieldsPlaceholder(t *testing.T) {
	e := NewExtractor(
		WithPDFTextReader(&fakePDFText{err: errors.New("bad file")}),
		WithRasterizer(&fakeRasterizer{err: errors.New("not a pdf")}),
		WithOCRReader(&countingOCR{}),
	)

	res := e.Extract("application/pdf", []byte{0x00})

	assert.Equal(t, PlaceholderText, res.FullText)
	require.Len(t, res.Chunks, 1)
	assert.Equal(t, PlaceholderText, res.Chunks[0])
}

func TestExtractUnknownContentTypeYieldsPlaceholder(t *testing.T) {
	ocr := &countingOCR{text: "never"}
	e := NewExtractor(
		WithPDFTextReader(&fakePDFText{text: "never"}),
		WithRasterizer(&fakeRasterizer{pages: 1}),
		WithOCRReader(ocr),
	)

	res := e.Extract("application/zip", []byte("PK"))

	assert.Equal(t, PlaceholderText, res.FullText)
	assert.Equal(t, 0, ocr.calls)
}

func TestExtractEmptyDataYieldsSinglePlaceholderChunk(t *testing.T) {
	e := NewExtractor(
		WithPDFTextReader(&fakePDFText{err: errors.New("empty")}),
		WithRasterizer(&fakeRasterizer{err: errors.New("empty")}),
		WithOCRReader(&countingOCR{}),
	)

	for _, ct := range []string{"application/pdf", "image/png", "text/plain", ""} {
		res := e.Extract(ct, nil)
		assert.Equal(t, PlaceholderText, res.FullText, "content type %q", ct)
		assert.Len(t, res.Chunks, 1, "content type %q", ct)
	}
}

func TestExtractImageUndecodableDegradesToPlaceholder(t *testing.T) {
	ocr := &countingOCR{text: "never"}
	e := NewExtractor(WithOCRReader(ocr))

	res := e.Extract("image/png", []byte("not a real image"))

	assert.Equal(t, PlaceholderText, res.FullText)
	assert.Equal(t, 0, ocr.calls)
}

func TestExtractScannedPDFSurvivesEnhancerFailure(t *testing.T) {
	ocr := &countingOCR{text: "page text after raw raster"}
	e := NewExtractor(
		WithPDFTextReader(&fakePDFText{text: ""}),
		WithRasterizer(&fakeRasterizer{pages: 2}),
		WithOCRReader(ocr),
		WithEnhancer(failingEnhancer{}),
	)

	res := e.Extract("application/pdf", []byte("%PDF"))

	assert.Equal(t, 2, ocr.calls, "OCR still runs on the unmodified raster")
	assert.Contains(t, res.FullText, "page text after raw raster")
}

func TestExtractChunksUseConfiguredSize(t *testing.T) {
	native := strings.Repeat("abcdefghij", 20) // 200 chars, above the OCR threshold
	e := NewExtractor(
		WithPDFTextReader(&fakePDFText{text: native}),
		WithOCRReader(&countingOCR{}),
		WithChunkSize(50),
	)

	res := e.Extract("application/pdf", nil)

	require.Len(t, res.Chunks, 4)
	assert.Equal(t, res.FullText, strings.Join(res.Chunks, ""))
}

func TestClassifyContentType(t *testing.T) {
	assert.Equal(t, kindPDF, classifyContentType("application/PDF"))
	assert.Equal(t, kindImage, classifyContentType("image/jpeg"))
	assert.Equal(t, kindImage, classifyContentType("IMAGE/PNG"))
	assert.Equal(t, kindUnknown, classifyContentType("text/plain"))
	assert.Equal(t, kindUnknown, classifyContentType(""))
}
