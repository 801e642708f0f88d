package openapi

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// ExtractionError reports a parameter whose field value could not be
// resolved and which has no default to fall back to.
type ExtractionError struct {
	// Parameter is the declared parameter name.
	Parameter string

	// Field is the request field path that failed to resolve.
	Field string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("parameter %q: no value for field %q and no default", e.Parameter, e.Field)
}

// Pair is one encoded (name, fragment) output of a parameter.
//
// For query parameters, Name and Value are the query key and value. For
// path and header parameters a single Pair is produced whose Value is the
// complete fragment, including any label or matrix prefix.
type Pair struct {
	Name  string
	Value string
}

// Encode converts a resolved value into textual fragments per the
// parameter's format, style and explode flag.
//
// Format conversion happens first, then RFC 6570 §3.2.7 composition.
// Path-located parameters percent-escape every item before composition,
// so the style-structural ".", ";", "," and "=" separators stay literal
// and the fragment splices into its template slot verbatim. Query and
// header items are left raw: query values are escaped by URL assembly,
// header values go out as-is.
//
// An absent value falls back to the parameter's default, encoded as a
// plain scalar; with no default, Encode fails with *ExtractionError.
// Only exploded arrays and objects in query position produce more than
// one Pair.
func (p Parameter) Encode(v Value) ([]Pair, error) {
	format := p.Format
	if v.IsAbsent() {
		if p.Default == "" {
			return nil, &ExtractionError{Parameter: p.Ident, Field: p.Field}
		}
		v = String(p.Default)
		format = FormatString
	}

	switch v.kind {
	case kindArray:
		items := make([]string, len(v.arr))
		for i, item := range v.arr {
			items[i] = p.escapeItem(formatValue(item, format))
		}
		return p.composeArray(items), nil

	case kindObject:
		keys := make([]string, len(v.objKeys))
		vals := make([]string, len(v.objKeys))
		for i, k := range v.objKeys {
			keys[i] = p.escapeItem(k)
			vals[i] = p.escapeItem(formatValue(v.obj[k], format))
		}
		return p.composeObject(keys, vals), nil

	default:
		return p.composeScalar(p.escapeItem(formatValue(v, format))), nil
	}
}

// escapeItem percent-escapes one item for path placement. A reserved
// character inside an item (a "," in a list element, say) must not read
// as a separator on the wire.
func (p Parameter) escapeItem(s string) string {
	if p.Location != LocationPath {
		return s
	}
	return url.PathEscape(s)
}

// formatValue applies the format conversion to one scalar or binary item.
func formatValue(v Value, f Format) string {
	switch f {
	case FormatHex:
		return hex.EncodeToString(v.bytes())
	case FormatBase64:
		return base64.StdEncoding.EncodeToString(v.bytes())
	case FormatBase64url:
		return base64.URLEncoding.EncodeToString(v.bytes())
	case FormatBinary:
		return string(v.bytes())
	default:
		return v.text()
	}
}

func (p Parameter) composeScalar(s string) []Pair {
	switch p.Style {
	case StyleLabel:
		return p.single("." + s)
	case StyleMatrix:
		return p.single(";" + p.Ident + "=" + s)
	default:
		return p.single(s)
	}
}

func (p Parameter) composeArray(items []string) []Pair {
	joined := strings.Join(items, ",")

	switch p.Style {
	case StyleForm:
		if p.Explode {
			pairs := make([]Pair, len(items))
			for i, item := range items {
				pairs[i] = Pair{Name: p.Ident, Value: item}
			}
			return pairs
		}
		return p.single(joined)

	case StyleLabel:
		if p.Explode {
			return p.single("." + strings.Join(items, "."))
		}
		return p.single("." + joined)

	case StyleMatrix:
		if p.Explode {
			var b strings.Builder
			for _, item := range items {
				b.WriteString(";" + p.Ident + "=" + item)
			}
			return p.single(b.String())
		}
		return p.single(";" + p.Ident + "=" + joined)

	default:
		return p.single(joined)
	}
}

func (p Parameter) composeObject(keys, vals []string) []Pair {
	flat := make([]string, 0, len(keys)*2)
	assigned := make([]string, 0, len(keys))
	for i, k := range keys {
		flat = append(flat, k, vals[i])
		assigned = append(assigned, k+"="+vals[i])
	}

	switch p.Style {
	case StyleForm:
		if p.Explode {
			pairs := make([]Pair, len(keys))
			for i, k := range keys {
				pairs[i] = Pair{Name: k, Value: vals[i]}
			}
			return pairs
		}
		return p.single(strings.Join(flat, ","))

	case StyleLabel:
		if p.Explode {
			return p.single("." + strings.Join(assigned, "."))
		}
		return p.single("." + strings.Join(flat, ","))

	case StyleMatrix:
		if p.Explode {
			return p.single(";" + strings.Join(assigned, ";"))
		}
		return p.single(";" + p.Ident + "=" + strings.Join(flat, ","))

	default:
		if p.Explode {
			return p.single(strings.Join(assigned, ","))
		}
		return p.single(strings.Join(flat, ","))
	}
}

func (p Parameter) single(fragment string) []Pair {
	return []Pair{{Name: p.Ident, Value: fragment}}
}
