// Package predictions decodes per-product prediction documents: the
// mention, pair, and detection payloads the upstream extractors produce
// for every image of a product. Documents are JSON, schema-validated
// before decoding. Images may carry raw OCR text instead of pre-extracted
// mentions; in that case the nutrient-mention extractor runs during
// decode.
package predictions

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nutripick/nutripick/internal/insight"
	"github.com/nutripick/nutripick/internal/lang"
	"github.com/nutripick/nutripick/internal/mention"
)

// ErrInvalidDocument is returned when a prediction document fails schema
// validation or cannot be parsed.
var ErrInvalidDocument = errors.New("invalid prediction document")

// wire types mirror the document layout.
type document struct {
	Barcode      string     `json:"barcode"`
	MainLanguage string     `json:"main_language"`
	Images       []imageDoc `json:"images"`
}

type imageDoc struct {
	ImageID    int                       `json:"image_id"`
	OCRText    string                    `json:"ocr_text"`
	Mentions   []mentionDoc              `json:"mentions"`
	Pairs      []pairDoc                 `json:"pairs"`
	Detections []insight.ObjectDetection `json:"detections"`
}

type mentionDoc struct {
	Kind      string   `json:"kind"`
	Languages []string `json:"languages"`
	IsEnergy  bool     `json:"is_energy"`
}

type pairDoc struct {
	Languages []string `json:"languages"`
}

// Decode validates and decodes one product prediction document.
func Decode(data []byte) (insight.ProductContext, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return insight.ProductContext{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := compiledSchema.Validate(raw); err != nil {
		return insight.ProductContext{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return insight.ProductContext{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	product := insight.ProductContext{Barcode: doc.Barcode}
	if canon, ok := lang.Canonical(doc.MainLanguage); ok {
		product.MainLanguage = canon
	}

	for _, img := range doc.Images {
		record := insight.ImageRecord{
			ImageID:    img.ImageID,
			Detections: img.Detections,
		}

		for _, m := range img.Mentions {
			languages := lang.CanonicalSet(m.Languages)
			if len(languages) == 0 {
				continue // no usable evidence
			}
			record.Mentions = append(record.Mentions, insight.NutrientMention{
				Kind:      insight.MentionKind(m.Kind),
				Languages: languages,
				IsEnergy:  m.IsEnergy,
			})
		}
		for _, p := range img.Pairs {
			languages := lang.CanonicalSet(p.Languages)
			if len(languages) == 0 {
				continue
			}
			record.Pairs = append(record.Pairs, insight.NutrientPair{Languages: languages})
		}

		// Fall back to extraction only when the document carries raw OCR
		// text and no pre-extracted evidence.
		if len(record.Mentions) == 0 && len(record.Pairs) == 0 && img.OCRText != "" {
			record.Mentions, record.Pairs = mention.Extract(img.OCRText)
		}

		product.Images = append(product.Images, record)
	}

	return product, nil
}

// Load reads and decodes a product prediction document from disk.
func Load(path string) (insight.ProductContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return insight.ProductContext{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	product, err := Decode(data)
	if err != nil {
		return insight.ProductContext{}, fmt.Errorf("%s: %w", path, err)
	}
	return product, nil
}

// LoadDir loads every *.json prediction document in a directory, sorted by
// file name for a stable evaluation order.
func LoadDir(dir string) ([]insight.ProductContext, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	products := make([]insight.ProductContext, 0, len(names))
	for _, name := range names {
		product, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}
