package insight

// ResolveCrop decides whether the winning image gets a bounding-box crop.
// A crop is attached only when exactly one nutrition-table detection meets
// the confidence threshold; zero or several high-confidence detections are
// ambiguous and yield no crop. Cropping is an enhancement, never a gating
// condition: the insight is emitted either way.
//
// Detections with a confidence outside [0,1] are malformed and contribute
// no evidence.
func ResolveCrop(img ImageRecord) *BoundingBox {
	var match *BoundingBox
	for i := range img.Detections {
		d := img.Detections[i]
		if d.Label != NutritionTableLabel {
			continue
		}
		if d.Confidence < MinCropConfidence || d.Confidence > 1 {
			continue
		}
		if match != nil {
			return nil // more than one high-confidence table
		}
		box := d.BoundingBox
		match = &box
	}
	return match
}
