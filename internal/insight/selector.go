package insight

import (
	"sort"

	"github.com/google/uuid"
)

// Evaluate selects at most one nutrition-table photo for the product.
//
// Images are scanned in recency order (highest ImageID first) and the scan
// stops at the first image with a qualifying evaluation for the product's
// main language; older qualifying images are never considered once a newer
// one qualifies. Evaluations for other languages are computed but never
// selected. The returned insight is nil when no image qualifies, which is
// the normal outcome for most products, not an error.
//
// Evaluate is a pure function of its input: it holds no state across calls
// and is safe to run concurrently for different products.
func Evaluate(product ProductContext) *NutritionInsight {
	if product.MainLanguage == "" {
		return nil
	}

	images := make([]ImageRecord, len(product.Images))
	copy(images, product.Images)
	sort.Slice(images, func(i, j int) bool {
		return images[i].ImageID > images[j].ImageID
	})

	for _, img := range images {
		best := 0
		for _, eval := range EvaluateImage(img) {
			if eval.Language != product.MainLanguage {
				continue
			}
			if best == 0 || eval.Priority < best {
				best = eval.Priority
			}
		}
		if best == 0 {
			continue
		}
		return &NutritionInsight{
			ID:          uuid.New(),
			Barcode:     product.Barcode,
			ImageID:     img.ImageID,
			Language:    product.MainLanguage,
			Priority:    best,
			BoundingBox: ResolveCrop(img),
		}
	}
	return nil
}
