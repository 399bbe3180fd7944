// Package display renders volumes, catalogs, entries and cluster chains
// as text, json or yaml.
package display

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aligator/gofat16"
	"gopkg.in/yaml.v3"
)

// textWriter is implemented by every report which has a text rendering.
type textWriter interface {
	writeText(w io.Writer) error
}

// Write renders v in the given format.
func Write(w io.Writer, format string, v textWriter) error {
	switch format {
	case "text":
		return v.writeText(w)

	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err

	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = w.Write(b)
		return err

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// TypeLabel names the kind of an entry by its attribute byte.
// Only the plain attribute combinations have a name.
func TypeLabel(attr byte) string {
	switch attr {
	case gofat16.AttrArchive:
		return "Archive"
	case gofat16.AttrArchive | gofat16.AttrReadOnly:
		return "Read-Only Archive"
	case gofat16.AttrArchive | gofat16.AttrHidden:
		return "Hidden Archive"
	case gofat16.AttrDirectory:
		return "Sub-Directory"
	case gofat16.AttrVolumeID:
		return "Volume Label"
	default:
		return "Unknown"
	}
}

func hex8(v uint8) string   { return fmt.Sprintf("0x%02X", v) }
func hex16(v uint16) string { return fmt.Sprintf("0x%04X", v) }
func hex32(v uint32) string { return fmt.Sprintf("0x%08X", v) }
