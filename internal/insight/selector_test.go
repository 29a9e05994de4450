package insight

import (
	"testing"

	"github.com/google/uuid"
)

func TestEvaluateSelectsNewestQualifyingImage(t *testing.T) {
	older := ImageRecord{ImageID: 101, Mentions: mentions("fr", 5, 4, true)}
	newer := ImageRecord{ImageID: 202, Mentions: mentions("fr", 5, 4, true)}

	ins := Evaluate(ProductContext{
		Barcode:      "3017620422003",
		MainLanguage: "fr",
		Images:       []ImageRecord{older, newer},
	})
	if ins == nil {
		t.Fatal("expected an insight")
	}
	if ins.ImageID != 202 {
		t.Errorf("ImageID = %d, want 202 (newest qualifying image)", ins.ImageID)
	}
}

func TestEvaluateFallsBackToOlderImage(t *testing.T) {
	// Scenario A: the newer image has too little evidence; the older image
	// qualifies at priority 2 with no crop.
	older := ImageRecord{ImageID: 101, Mentions: mentions("fr", 5, 4, true)}
	newer := ImageRecord{ImageID: 202, Mentions: mentions("fr", 2, 0, false)}

	ins := Evaluate(ProductContext{
		Barcode:      "3017620422003",
		MainLanguage: "fr",
		Images:       []ImageRecord{newer, older},
	})
	if ins == nil {
		t.Fatal("expected an insight")
	}
	if ins.ImageID != 101 {
		t.Errorf("ImageID = %d, want 101", ins.ImageID)
	}
	if ins.Language != "fr" {
		t.Errorf("Language = %s, want fr", ins.Language)
	}
	if ins.Priority != PriorityMentionOnly {
		t.Errorf("Priority = %d, want %d", ins.Priority, PriorityMentionOnly)
	}
	if ins.BoundingBox != nil {
		t.Errorf("BoundingBox = %+v, want nil", ins.BoundingBox)
	}
}

func TestEvaluatePairElevatesPriority(t *testing.T) {
	// Scenario B: same as A plus one French pair on the winning image.
	img := ImageRecord{
		ImageID:  101,
		Mentions: mentions("fr", 5, 4, true),
		Pairs:    []NutrientPair{{Languages: []string{"fr"}}},
	}
	ins := Evaluate(ProductContext{Barcode: "b", MainLanguage: "fr", Images: []ImageRecord{img}})
	if ins == nil {
		t.Fatal("expected an insight")
	}
	if ins.Priority != PriorityPairBacked {
		t.Errorf("Priority = %d, want %d", ins.Priority, PriorityPairBacked)
	}
}

func TestEvaluateFiltersOnMainLanguage(t *testing.T) {
	// Scenario C: strong German evidence but the product's main language is
	// English. No insight may be emitted.
	img := ImageRecord{ImageID: 1, Mentions: mentions("de", 8, 6, true)}
	ins := Evaluate(ProductContext{Barcode: "b", MainLanguage: "en", Images: []ImageRecord{img}})
	if ins != nil {
		t.Errorf("expected no insight, got %+v", ins)
	}
}

func TestEvaluateNeverSelectsOtherLanguage(t *testing.T) {
	// German qualifies with far higher counts on a newer image, but only
	// the French qualification on the older image is eligible.
	newerDE := ImageRecord{ImageID: 300, Mentions: mentions("de", 10, 8, true)}
	olderFR := ImageRecord{ImageID: 100, Mentions: mentions("fr", 4, 3, true)}

	ins := Evaluate(ProductContext{
		Barcode:      "b",
		MainLanguage: "fr",
		Images:       []ImageRecord{newerDE, olderFR},
	})
	if ins == nil {
		t.Fatal("expected an insight")
	}
	if ins.Language != "fr" || ins.ImageID != 100 {
		t.Errorf("got (%s, %d), want (fr, 100)", ins.Language, ins.ImageID)
	}
}

func TestEvaluateEarlyStopIgnoresOlderCandidates(t *testing.T) {
	// The newer image qualifies at priority 2. An older image with a pair
	// would rank priority 1, but the scan must stop at the newer image.
	newer := ImageRecord{ImageID: 200, Mentions: mentions("fr", 4, 3, true)}
	older := ImageRecord{
		ImageID:  100,
		Mentions: mentions("fr", 6, 5, true),
		Pairs:    []NutrientPair{{Languages: []string{"fr"}}},
	}

	ins := Evaluate(ProductContext{Barcode: "b", MainLanguage: "fr", Images: []ImageRecord{older, newer}})
	if ins == nil {
		t.Fatal("expected an insight")
	}
	if ins.ImageID != 200 {
		t.Errorf("ImageID = %d, want 200 (most recent wins)", ins.ImageID)
	}
	if ins.Priority != PriorityMentionOnly {
		t.Errorf("Priority = %d, want %d", ins.Priority, PriorityMentionOnly)
	}
}

func TestEvaluateNoEvidence(t *testing.T) {
	ins := Evaluate(ProductContext{
		Barcode:      "b",
		MainLanguage: "fr",
		Images:       []ImageRecord{{ImageID: 1}, {ImageID: 2}},
	})
	if ins != nil {
		t.Errorf("expected no insight for empty evidence, got %+v", ins)
	}
}

func TestEvaluateMissingMainLanguage(t *testing.T) {
	img := ImageRecord{ImageID: 1, Mentions: mentions("fr", 5, 4, true)}
	if ins := Evaluate(ProductContext{Barcode: "b", Images: []ImageRecord{img}}); ins != nil {
		t.Errorf("expected no insight without a main language, got %+v", ins)
	}
}

func TestEvaluateAttachesCropFromWinningImage(t *testing.T) {
	img := ImageRecord{
		ImageID:  42,
		Mentions: mentions("fr", 5, 4, true),
		Detections: []ObjectDetection{
			{Label: NutritionTableLabel, Confidence: 0.97, BoundingBox: BoundingBox{YMin: 0.1, XMin: 0.2, YMax: 0.8, XMax: 0.9}},
		},
	}
	ins := Evaluate(ProductContext{Barcode: "b", MainLanguage: "fr", Images: []ImageRecord{img}})
	if ins == nil {
		t.Fatal("expected an insight")
	}
	if ins.BoundingBox == nil {
		t.Fatal("expected a bounding box")
	}
	if ins.BoundingBox.YMax != 0.8 {
		t.Errorf("YMax = %v, want 0.8", ins.BoundingBox.YMax)
	}
}

func TestEvaluateAmbiguousDetectionsYieldNoCrop(t *testing.T) {
	// Scenario D: two detections above threshold, insight emitted uncropped.
	img := ImageRecord{
		ImageID:  42,
		Mentions: mentions("fr", 5, 4, true),
		Detections: []ObjectDetection{
			{Label: NutritionTableLabel, Confidence: 0.95},
			{Label: NutritionTableLabel, Confidence: 0.92},
		},
	}
	ins := Evaluate(ProductContext{Barcode: "b", MainLanguage: "fr", Images: []ImageRecord{img}})
	if ins == nil {
		t.Fatal("expected an insight")
	}
	if ins.BoundingBox != nil {
		t.Errorf("BoundingBox = %+v, want nil", ins.BoundingBox)
	}
}

func TestEvaluateAssignsInsightID(t *testing.T) {
	img := ImageRecord{ImageID: 1, Mentions: mentions("fr", 4, 3, true)}
	ins := Evaluate(ProductContext{Barcode: "b", MainLanguage: "fr", Images: []ImageRecord{img}})
	if ins == nil {
		t.Fatal("expected an insight")
	}
	if ins.ID == uuid.Nil {
		t.Error("insight ID not assigned")
	}
}
