package multipart

import (
	"bytes"
	"fmt"
	"strings"
)

// PartHeaders maps lower-cased header names to their values, scoped to a
// single part.
type PartHeaders map[string]string

func (h PartHeaders) Get(name string) string {
	return h[strings.ToLower(name)]
}

// readPartHeaders reads header lines up to the blank line that terminates
// the header block. Running out of input inside the block means the body
// is structurally broken, not merely truncated mid-part.
func (d *Decoder) readPartHeaders() (PartHeaders, error) {
	headers := make(PartHeaders)
	for {
		line, err := d.lines.next()
		if err != nil {
			return nil, fmt.Errorf("%w: body ended inside a part header block", ErrMalformedBody)
		}
		line = trimEOL(line)
		if len(line) == 0 {
			return headers, nil
		}

		colon := bytes.IndexByte(line, ':')
		if colon < 0 {
			return nil, fmt.Errorf("%w: header line %q has no colon", ErrMalformedBody, line)
		}
		name := strings.ToLower(string(bytes.TrimSpace(line[:colon])))
		value := string(bytes.TrimLeft(line[colon+1:], " \t"))
		headers[name] = value
	}
}

// disposition is the parsed identity of one part, taken from its
// Content-Disposition header.
type disposition struct {
	name        string
	filename    string
	hasFilename bool
}

func parseDisposition(value string) (disposition, error) {
	var disp disposition

	if !strings.HasPrefix(strings.ToLower(value), "form-data;") {
		return disp, fmt.Errorf("%w: content-disposition %q is not form-data", ErrMalformedBody, value)
	}

	for _, param := range splitParams(value[len("form-data;"):]) {
		param = strings.TrimSpace(param)
		eq := strings.IndexByte(param, '=')
		if eq < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(param[:eq]))
		val := unquote(strings.TrimSpace(param[eq+1:]))

		switch key {
		case "name":
			disp.name = val
		case "filename":
			disp.filename = val
			disp.hasFilename = true
		}
	}

	if disp.name == "" {
		return disp, fmt.Errorf("%w: content-disposition without a name parameter", ErrMalformedBody)
	}
	return disp, nil
}

// splitParams splits a parameter list on semicolons. A semicolon inside
// a double-quoted string separates nothing, so a filename like "a;b.txt"
// stays one token; backslash escapes inside quotes are honored.
func splitParams(s string) []string {
	var params []string
	start := 0
	inQuotes := false

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if inQuotes && i+1 < len(s) {
				i++
			}
		case '"':
			inQuotes = !inQuotes
		case ';':
			if !inQuotes {
				params = append(params, s[start:i])
				start = i + 1
			}
		}
	}
	return append(params, s[start:])
}

// unquote strips a surrounding double-quote pair and resolves backslash
// escapes. An unterminated quoted string truncates where the input runs
// out instead of failing.
func unquote(s string) string {
	if len(s) == 0 || s[0] != '"' {
		return s
	}

	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			}
		case '"':
			return b.String()
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
