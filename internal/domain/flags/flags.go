// Where: internal/domain/flags/flags.go
// What: The flags value handed to the Elm application at init.
// Why: Pin one versioned contract per variant so receivers can validate the shape.
package flags

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/poruru-code/elmpack/internal/meta"
)

// Variant selects the flags shape a bootstrap sends.
type Variant string

const (
	// VariantURL sends the API URL as a bare string.
	VariantURL Variant = "url"
	// VariantViewport sends the API URL plus the viewport size at init.
	VariantViewport Variant = "viewport"
)

// Schema tags carried by the envelope form.
const (
	SchemaURL      = "elmpack.flags.url/v1"
	SchemaViewport = "elmpack.flags.viewport/v1"
)

var (
	ErrUnknownVariant = errors.New("unknown flags variant")
	ErrInvalidFlags   = errors.New("invalid flags")
)

// ParseVariant converts a user-supplied value into a Variant.
func ParseVariant(value string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(value))) {
	case VariantURL:
		return VariantURL, nil
	case VariantViewport:
		return VariantViewport, nil
	}
	return "", fmt.Errorf("%w: %q (expected %s or %s)", ErrUnknownVariant, value, VariantURL, VariantViewport)
}

// Schema returns the envelope tag for v.
func (v Variant) Schema() string {
	if v == VariantViewport {
		return SchemaViewport
	}
	return SchemaURL
}

// APIURL returns the GraphQL endpoint for origin. The origin is used
// verbatim; no trailing slash normalization is applied.
func APIURL(origin string) string {
	return origin + meta.APIPath
}

// Viewport is the record form of the flags value.
type Viewport struct {
	APIURL string `json:"apiUrl"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Keys names the JSON fields of the record and envelope forms.
type Keys struct {
	APIURL string
	Width  string
	Height string
	Schema string
	Value  string
}

// FieldKeys reads the field names from the Viewport and Envelope json tags.
// The bootstrap template and Decode both use it.
func FieldKeys() Keys {
	viewport := reflect.TypeOf(Viewport{})
	envelope := reflect.TypeOf(Envelope{})
	return Keys{
		APIURL: jsonKey(viewport, "APIURL"),
		Width:  jsonKey(viewport, "Width"),
		Height: jsonKey(viewport, "Height"),
		Schema: jsonKey(envelope, "Schema"),
		Value:  jsonKey(envelope, "Value"),
	}
}

func jsonKey(t reflect.Type, field string) string {
	f, ok := t.FieldByName(field)
	if !ok {
		return field
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return field
	}
	return name
}

// Flags is the value captured once at initialization. It has no setters;
// later viewport changes are not reflected.
type Flags struct {
	variant Variant
	apiURL  string
	width   int
	height  int
}

// NewURL builds the string-only variant.
func NewURL(origin string) Flags {
	return Flags{variant: VariantURL, apiURL: APIURL(origin)}
}

// NewViewport builds the record variant.
func NewViewport(origin string, width, height int) (Flags, error) {
	if width < 0 || height < 0 {
		return Flags{}, fmt.Errorf("%w: negative viewport %dx%d", ErrInvalidFlags, width, height)
	}
	return Flags{variant: VariantViewport, apiURL: APIURL(origin), width: width, height: height}, nil
}

func (f Flags) Variant() Variant { return f.variant }
func (f Flags) APIURL() string   { return f.apiURL }

// Viewport returns the record form and whether f is the viewport variant.
func (f Flags) Viewport() (Viewport, bool) {
	if f.variant != VariantViewport {
		return Viewport{}, false
	}
	return Viewport{APIURL: f.apiURL, Width: f.width, Height: f.height}, true
}

// Value returns the bare payload: a string or a Viewport record.
func (f Flags) Value() any {
	if vp, ok := f.Viewport(); ok {
		return vp
	}
	return f.apiURL
}

// MarshalJSON encodes the bare payload.
func (f Flags) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value())
}

// Envelope is the tagged form of a flags value.
type Envelope struct {
	Schema string          `json:"schema"`
	Value  json.RawMessage `json:"value"`
}

// Envelope wraps f with its schema tag.
func (f Flags) Envelope() (Envelope, error) {
	payload, err := json.Marshal(f.Value())
	if err != nil {
		return Envelope{}, fmt.Errorf("encode flags: %w", err)
	}
	return Envelope{Schema: f.variant.Schema(), Value: payload}, nil
}

// Decode parses an envelope and validates its payload against the tag.
func Decode(data []byte) (Flags, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Flags{}, fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	switch env.Schema {
	case SchemaURL:
		var url string
		if err := json.Unmarshal(env.Value, &url); err != nil {
			return Flags{}, fmt.Errorf("%w: %s expects a string: %v", ErrInvalidFlags, env.Schema, err)
		}
		if !strings.HasSuffix(url, meta.APIPath) {
			return Flags{}, fmt.Errorf("%w: api url %q does not end with %s", ErrInvalidFlags, url, meta.APIPath)
		}
		return Flags{variant: VariantURL, apiURL: url}, nil
	case SchemaViewport:
		vp, err := decodeViewport(env.Value)
		if err != nil {
			return Flags{}, fmt.Errorf("%w: %s: %v", ErrInvalidFlags, env.Schema, err)
		}
		origin := strings.TrimSuffix(vp.APIURL, meta.APIPath)
		if origin == vp.APIURL {
			return Flags{}, fmt.Errorf("%w: api url %q does not end with %s", ErrInvalidFlags, vp.APIURL, meta.APIPath)
		}
		return NewViewport(origin, vp.Width, vp.Height)
	}
	return Flags{}, fmt.Errorf("%w: unknown schema %q", ErrInvalidFlags, env.Schema)
}

// decodeViewport requires exactly the record keys and nothing else.
func decodeViewport(data json.RawMessage) (Viewport, error) {
	var record map[string]json.RawMessage
	if err := json.Unmarshal(data, &record); err != nil {
		return Viewport{}, err
	}
	keys := FieldKeys()
	required := []string{keys.APIURL, keys.Width, keys.Height}
	for _, key := range required {
		if _, ok := record[key]; !ok {
			return Viewport{}, fmt.Errorf("missing %q", key)
		}
	}
	if len(record) != len(required) {
		for key := range record {
			if key != keys.APIURL && key != keys.Width && key != keys.Height {
				return Viewport{}, fmt.Errorf("unknown field %q", key)
			}
		}
	}
	var vp Viewport
	if err := json.Unmarshal(data, &vp); err != nil {
		return Viewport{}, err
	}
	return vp, nil
}
