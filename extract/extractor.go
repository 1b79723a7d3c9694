package extract

import (
	"bytes"
	"image"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"
)

// minPDFTextLen is the shortest native text layer we accept before
// treating a PDF as scanned and falling back to OCR.
const minPDFTextLen = 50

// PDFTextReader extracts the native text layer of a PDF, page by page.
type PDFTextReader interface {
	PlainText(data []byte) (string, error)
}

// Rasterizer renders each page of a PDF to an image for OCR.
type Rasterizer interface {
	Pages(data []byte) ([]image.Image, error)
}

// OCRReader recognizes text in a single page image.
type OCRReader interface {
	Recognize(img image.Image) (string, error)
}

// Enhancer preprocesses a raster before OCR (grayscale, auto-level,
// sharpen). Enhancement is best-effort: callers fall back to the
// unmodified raster when it fails.
type Enhancer interface {
	Enhance(img image.Image) (image.Image, error)
}

// Extractor converts raw upload bytes plus a declared content type into
// normalized text and ordered evidence chunks. Every sub-stage failure
// degrades to empty text, which triggers the next stage of the cascade or
// the final placeholder; Extract itself never fails.
type Extractor struct {
	pdfText   PDFTextReader
	raster    Rasterizer
	ocr       OCRReader
	enhance   Enhancer
	chunkSize int
	logger    *zap.Logger
}

// ExtractorOption is a functional option for Extractor
type ExtractorOption func(*Extractor)

// WithPDFTextReader sets the native PDF text reader
func WithPDFTextReader(r PDFTextReader) ExtractorOption {
	return func(e *Extractor) {
		e.pdfText = r
	}
}

// WithRasterizer sets the PDF page rasterizer
func WithRasterizer(r Rasterizer) ExtractorOption {
	return func(e *Extractor) {
		e.raster = r
	}
}

// WithOCRReader sets the OCR engine
func WithOCRReader(r OCRReader) ExtractorOption {
	return func(e *Extractor) {
		e.ocr = r
	}
}

// WithEnhancer sets the pre-OCR image enhancer
func WithEnhancer(en Enhancer) ExtractorOption {
	return func(e *Extractor) {
		e.enhance = en
	}
}

// WithChunkSize overrides the evidence chunk size
func WithChunkSize(size int) ExtractorOption {
	return func(e *Extractor) {
		e.chunkSize = size
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an extractor wired to the real PDF, raster, and OCR
// backends unless options substitute others.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		pdfText:   &pdfTextReader{},
		raster:    &fitzRasterizer{},
		ocr:       &tesseractOCR{},
		enhance:   &scanEnhancer{},
		chunkSize: DefaultChunkSize,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs the extraction cascade for the declared content type and
// returns the full text with its ordered chunks. It never returns an
// error: unreadable input yields the placeholder text.
func (e *Extractor) Extract(contentType string, data []byte) Result {
	var text string

	switch classifyContentType(contentType) {
	case kindPDF:
		text = e.extractPDF(data)
	case kindImage:
		text = e.extractImage(data)
	}

	if text == "" {
		text = PlaceholderText
	}

	return Result{
		FullText: text,
		Chunks:   ChunkText(text, e.chunkSize),
	}
}

type contentKind int

const (
	kindUnknown contentKind = iota
	kindPDF
	kindImage
)

func classifyContentType(contentType string) contentKind {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "pdf") {
		return kindPDF
	}
	for _, marker := range []string{"png", "jpeg", "jpg", "image"} {
		if strings.Contains(ct, marker) {
			return kindImage
		}
	}
	return kindUnknown
}

// extractPDF tries the native text layer first and treats the PDF as
// scanned when the layer is missing or suspiciously short.
func (e *Extractor) extractPDF(data []byte) string {
	text, err := e.pdfText.PlainText(data)
	if err != nil {
		e.logger.Warn("pdf_text_extraction_failed", zap.Error(err))
		text = ""
	}
	text = Normalize(text)

	if len(text) < minPDFTextLen {
		e.logger.Info("pdf_text_layer_thin_trying_ocr", zap.Int("chars", len(text)))
		if ocrText := e.extractScannedPDF(data); ocrText != "" {
			text = ocrText
		}
	}

	return text
}

// extractScannedPDF rasterizes every page and OCRs it. Pages that fail to
// recognize are skipped rather than aborting the document.
func (e *Extractor) extractScannedPDF(data []byte) string {
	pages, err := e.raster.Pages(data)
	if err != nil {
		e.logger.Warn("pdf_rasterization_failed", zap.Error(err))
		return ""
	}

	var parts []string
	for i, page := range pages {
		txt, err := e.recognize(page)
		if err != nil {
			e.logger.Warn("page_ocr_failed", zap.Int("page", i), zap.Error(err))
			continue
		}
		parts = append(parts, txt)
	}

	return Normalize(strings.Join(parts, "\n"))
}

func (e *Extractor) extractImage(data []byte) string {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		e.logger.Warn("image_decode_failed", zap.Error(err))
		return ""
	}

	txt, err := e.recognize(img)
	if err != nil {
		e.logger.Warn("image_ocr_failed", zap.Error(err))
		return ""
	}

	return Normalize(txt)
}

// recognize enhances the raster when possible and OCRs it. Enhancement
// failures fall back to the raw image.
func (e *Extractor) recognize(img image.Image) (string, error) {
	if e.enhance != nil {
		if enhanced, err := e.enhance.Enhance(img); err == nil {
			img = enhanced
		} else {
			e.logger.Debug("image_enhancement_failed", zap.Error(err))
		}
	}
	return e.ocr.Recognize(img)
}
