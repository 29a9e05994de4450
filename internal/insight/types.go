// Package insight implements nutrition-table photo selection: given the
// OCR-derived evidence and object-detector output for every photo of a
// product, it decides which single image (if any) should be tagged as the
// product's nutrition-table photo in its main language.
package insight

import "github.com/google/uuid"

// MentionKind distinguishes nutrient-name tokens from nutrient-value tokens.
type MentionKind string

const (
	MentionName  MentionKind = "name"
	MentionValue MentionKind = "value"
)

// NutritionTableLabel is the object-detector class considered for cropping.
const NutritionTableLabel = "nutrition-table"

// Qualification thresholds. An image qualifies for a language when it has
// at least MinNameMentions name mentions, at least MinValueMentions value
// mentions, and at least one energy value (kJ/kcal) in that language.
const (
	MinNameMentions  = 4
	MinValueMentions = 3

	// MinCropConfidence is the detector confidence required before a
	// bounding-box crop is attached to an insight.
	MinCropConfidence = 0.9
)

// Insight priorities. Lower is more urgent.
const (
	// PriorityPairBacked is assigned when an adjacent name+value pair was
	// detected for the qualifying language.
	PriorityPairBacked = 1

	// PriorityMentionOnly is assigned when only isolated mentions qualify
	// the image.
	PriorityMentionOnly = 2
)

// BoundingBox is a normalized detection rectangle (values in [0,1],
// ordered y_min, x_min, y_max, x_max).
type BoundingBox struct {
	YMin float64 `json:"y_min" yaml:"y_min"`
	XMin float64 `json:"x_min" yaml:"x_min"`
	YMax float64 `json:"y_max" yaml:"y_max"`
	XMax float64 `json:"x_max" yaml:"x_max"`
}

// NutrientMention is a single OCR-detected nutrient token in an image.
// A surface form can be plausible in several languages at once (e.g.
// "energie" reads as French, German, or Dutch); Languages carries every
// candidate and the evaluator counts the mention toward each of them.
type NutrientMention struct {
	Kind      MentionKind `json:"kind"`
	Languages []string    `json:"languages"`

	// IsEnergy is set on value mentions whose unit is kJ or kcal.
	IsEnergy bool `json:"is_energy,omitempty"`
}

// NutrientPair is an OCR-detected adjacent name+value occurrence. Pairs are
// stronger evidence than isolated mentions: their presence elevates the
// insight priority but they are never counted toward the mention thresholds.
type NutrientPair struct {
	Languages []string `json:"languages"`
}

// ObjectDetection is one detected region in an image, as reported by the
// object-detection service.
type ObjectDetection struct {
	Label       string      `json:"label"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"bounding_box"`
}

// ImageRecord is one photo of a product together with all evidence
// materialized for it. ImageID is assigned monotonically at upload time and
// is the sole recency signal: higher means newer.
type ImageRecord struct {
	ImageID    int               `json:"image_id"`
	Mentions   []NutrientMention `json:"mentions,omitempty"`
	Pairs      []NutrientPair    `json:"pairs,omitempty"`
	Detections []ObjectDetection `json:"detections,omitempty"`
}

// ProductContext is the read-only per-product input to evaluation.
type ProductContext struct {
	Barcode string `json:"barcode"`

	// MainLanguage is the product's declared primary language; it is the
	// only language eligible for selection.
	MainLanguage string `json:"main_language"`

	Images []ImageRecord `json:"images"`
}

// CandidateEvaluation is the outcome of evaluating one (image, language)
// pair. It is transient: computed fresh on every run, never stored.
type CandidateEvaluation struct {
	Language   string `json:"language"`
	NameCount  int    `json:"name_count"`
	ValueCount int    `json:"value_count"`
	HasEnergy  bool   `json:"has_energy"`
	Priority   int    `json:"priority"`
}

// NutritionInsight is the single emitted result for a product. At most one
// is produced per product per run. BoundingBox is only set when exactly one
// high-confidence nutrition-table detection exists on the winning image.
type NutritionInsight struct {
	ID          uuid.UUID    `json:"id" yaml:"id"`
	Barcode     string       `json:"barcode" yaml:"barcode"`
	ImageID     int          `json:"image_id" yaml:"image_id"`
	Language    string       `json:"language" yaml:"language"`
	Priority    int          `json:"priority" yaml:"priority"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty" yaml:"bounding_box,omitempty"`
}
