package extract

import (
	"bytes"
	"image"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
)

// tesseractOCR recognizes text with Tesseract. Each call uses a fresh
// client: gosseract clients are not safe for concurrent reuse, and an OCR
// pass is expensive enough that client setup is noise.
type tesseractOCR struct {
	language string
}

func (t *tesseractOCR) Recognize(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	lang := t.language
	if lang == "" {
		lang = os.Getenv("OCR_LANGUAGE")
	}
	if lang != "" {
		if err := client.SetLanguage(lang); err != nil {
			return "", err
		}
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", err
	}

	return client.Text()
}

// fitzRasterizer renders PDF pages with MuPDF.
type fitzRasterizer struct{}

func (fitzRasterizer) Pages(data []byte) ([]image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	pages := make([]image.Image, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.Image(n)
		if err != nil {
			return nil, err
		}
		pages = append(pages, img)
	}

	return pages, nil
}

// scanEnhancer prepares a raster for OCR: grayscale, a mild contrast
// lift, and sharpening. Tuned for typical phone scans of documents.
type scanEnhancer struct{}

func (scanEnhancer) Enhance(img image.Image) (image.Image, error) {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 15)
	out = imaging.Sharpen(out, 1.0)
	return out, nil
}
