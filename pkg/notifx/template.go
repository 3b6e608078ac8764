package notifx

import (
	"html/template"
	"sort"
	"strings"
)

// Template is a parsed subject or body containing {field} placeholders.
//
// Placeholder names are matched case-insensitively after trimming, the same
// way recipient column headers are normalized. "{{" and "}}" produce literal
// braces. A brace whose contents are not a plausible field name (for example
// inline CSS such as "p { color: red }") is kept as literal text.
type Template struct {
	name     string
	segments []segment
	fields   []string
}

type segment struct {
	text  string
	field string
}

// Parse compiles src. The only parse error is an unclosed placeholder such
// as "Hello {name".
func Parse(name, src string) (*Template, error) {
	t := &Template{name: name}
	seen := make(map[string]bool)

	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '{' && i+1 < len(src) && src[i+1] == '{':
			lit.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(src) && src[i+1] == '}':
			lit.WriteByte('}')
			i += 2
		case c == '{':
			end := i + 1
			for end < len(src) && isFieldChar(src[end]) {
				end++
			}
			key := strings.ToLower(strings.TrimSpace(src[i+1 : min(end, len(src))]))
			if end == len(src) && key != "" {
				return nil, ErrRegistry.New(ErrTemplateParse).
					WithDetail("template", name).
					WithDetail("reason", "unclosed placeholder").
					WithDetail("offset", i)
			}
			if end < len(src) && src[end] == '}' && key != "" {
				flush()
				t.segments = append(t.segments, segment{field: key})
				if !seen[key] {
					seen[key] = true
					t.fields = append(t.fields, key)
				}
				i = end + 1
				continue
			}
			lit.WriteByte('{')
			i++
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()

	return t, nil
}

// Name returns the template name.
func (t *Template) Name() string { return t.name }

// Fields returns the distinct placeholder names in order of first use.
func (t *Template) Fields() []string {
	return append([]string(nil), t.fields...)
}

// Missing returns, sorted, the placeholders absent from fields.
func (t *Template) Missing(fields map[string]string) []string {
	var missing []string
	for _, f := range t.fields {
		if _, ok := fields[f]; !ok {
			missing = append(missing, f)
		}
	}
	sort.Strings(missing)
	return missing
}

// Render substitutes every placeholder with its value from fields. It fails
// with ErrMissingField, listing every absent placeholder, before writing
// anything.
func (t *Template) Render(fields map[string]string) (string, error) {
	return t.render(fields, nil)
}

// RenderHTML is Render with every substituted value HTML-escaped; literal
// template text is emitted unchanged.
func (t *Template) RenderHTML(fields map[string]string) (string, error) {
	return t.render(fields, template.HTMLEscapeString)
}

func (t *Template) render(fields map[string]string, escape func(string) string) (string, error) {
	if missing := t.Missing(fields); len(missing) > 0 {
		return "", ErrRegistry.New(ErrMissingField).
			WithDetail("template", t.name).
			WithDetail("fields", missing)
	}

	var b strings.Builder
	for _, s := range t.segments {
		if s.field == "" {
			b.WriteString(s.text)
			continue
		}
		v := fields[s.field]
		if escape != nil {
			v = escape(v)
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

func isFieldChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-' || c == '.' || c == ' ':
		return true
	case c >= 0x80:
		return true
	}
	return false
}
