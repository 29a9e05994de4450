// Package detector fetches object-detection results for product images
// from the inference service. Detection is optional input: images without
// inference results evaluate normally, they just never receive a crop.
package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/nutripick/nutripick/internal/insight"
)

// Client is an object-detection service HTTP client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new detection service client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// detectionResponse mirrors the service payload.
type detectionResponse struct {
	Detections []struct {
		Label       string    `json:"label"`
		Confidence  float64   `json:"confidence"`
		BoundingBox []float64 `json:"bounding_box"` // y_min, x_min, y_max, x_max
	} `json:"detections"`
}

// ListDetections returns the detections for one image of a product. A 404
// means inference has not run for the image; that is a valid empty result,
// not an error.
func (c *Client) ListDetections(ctx context.Context, barcode string, imageID int) ([]insight.ObjectDetection, error) {
	url := fmt.Sprintf("%s/api/v1/detections/%s/%d", c.baseURL, barcode, imageID)

	var body []byte
	var notRun bool
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound {
				notRun = true
				return nil
			}
			if resp.StatusCode >= 500 {
				return fmt.Errorf("detector status %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				return retry.Unrecoverable(fmt.Errorf("detector status %d", resp.StatusCode))
			}

			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch detections for %s/%d: %w", barcode, imageID, err)
	}
	if notRun {
		return nil, nil
	}

	var dr detectionResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		return nil, fmt.Errorf("failed to decode detections for %s/%d: %w", barcode, imageID, err)
	}

	out := make([]insight.ObjectDetection, 0, len(dr.Detections))
	for _, d := range dr.Detections {
		det := insight.ObjectDetection{
			Label:      d.Label,
			Confidence: d.Confidence,
		}
		if len(d.BoundingBox) == 4 {
			det.BoundingBox = insight.BoundingBox{
				YMin: d.BoundingBox[0],
				XMin: d.BoundingBox[1],
				YMax: d.BoundingBox[2],
				XMax: d.BoundingBox[3],
			}
		}
		out = append(out, det)
	}
	return out, nil
}
