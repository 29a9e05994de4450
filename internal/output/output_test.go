package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteTo(t *testing.T) {
	data := map[string]any{"barcode": "3017620422003", "priority": 1}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteTo(&buf, FormatJSON, data); err != nil {
			t.Fatalf("WriteTo() error = %v", err)
		}
		if !strings.Contains(buf.String(), `"barcode": "3017620422003"`) {
			t.Errorf("unexpected JSON output: %s", buf.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteTo(&buf, FormatYAML, data); err != nil {
			t.Fatalf("WriteTo() error = %v", err)
		}
		if !strings.Contains(buf.String(), "barcode: \"3017620422003\"") {
			t.Errorf("unexpected YAML output: %s", buf.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteTo(&buf, Format("xml"), data); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestSetFormat(t *testing.T) {
	defer SetFormat("yaml")

	SetFormat("json")
	if GetFormat() != FormatJSON {
		t.Errorf("GetFormat() = %s, want json", GetFormat())
	}

	SetFormat("garbage")
	if GetFormat() != FormatYAML {
		t.Errorf("GetFormat() = %s, want yaml fallback", GetFormat())
	}
}
