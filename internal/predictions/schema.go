package predictions

import "github.com/santhosh-tekuri/jsonschema/v5"

// documentSchema validates a product prediction document before decoding.
// It guards shape only; semantic cleanup (language canonicalization,
// malformed record skipping) happens during decode.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["barcode", "main_language", "images"],
  "properties": {
    "barcode": {"type": "string", "minLength": 1},
    "main_language": {"type": "string"},
    "images": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["image_id"],
        "properties": {
          "image_id": {"type": "integer", "minimum": 1},
          "ocr_text": {"type": "string"},
          "mentions": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["kind"],
              "properties": {
                "kind": {"enum": ["name", "value"]},
                "languages": {"type": "array", "items": {"type": "string"}},
                "is_energy": {"type": "boolean"}
              }
            }
          },
          "pairs": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "languages": {"type": "array", "items": {"type": "string"}}
              }
            }
          },
          "detections": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["label", "confidence"],
              "properties": {
                "label": {"type": "string"},
                "confidence": {"type": "number"},
                "bounding_box": {
                  "type": "object",
                  "required": ["y_min", "x_min", "y_max", "x_max"],
                  "properties": {
                    "y_min": {"type": "number"},
                    "x_min": {"type": "number"},
                    "y_max": {"type": "number"},
                    "x_max": {"type": "number"}
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("predictions.json", documentSchema)
