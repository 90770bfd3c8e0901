package parse

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
)

// field is the text content of an element including that of its children,
// it tolerates xsi:nil and being absent.
type field struct {
	Present bool
	Nil     bool
	Value   string
}

func (f *field) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	f.Present = true
	for _, a := range start.Attr {
		if a.Name.Local == "nil" && a.Value == "true" {
			f.Nil = true
		}
	}

	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	f.Value = strings.TrimSpace(b.String())
	return nil
}

// String returns "" for absent and nil elements.
func (f field) String() string {
	if f.Nil {
		return ""
	}
	return f.Value
}

func (f field) Empty() bool {
	return f.String() == ""
}

func (f field) Int() (int64, bool) {
	n, err := strconv.ParseInt(f.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (f field) OptionalInt() *int64 {
	n, ok := f.Int()
	if !ok {
		return nil
	}
	return &n
}

func (f field) Date() *time.Time {
	return optionalDate(f.String())
}

// first returns the first non-empty field.
func first(fields ...field) field {
	for _, f := range fields {
		if !f.Empty() {
			return f
		}
	}
	return field{}
}

// visitor is called on every start element with the path of its ancestors, it
// returns true when it has consumed the element (ex. through DecodeElement).
type visitor func(d *xml.Decoder, path []string, start xml.StartElement) (bool, error)

var errEmptyDocument = errors.New("empty document")

func walkXML(body []byte, visit visitor) error {
	d := xml.NewDecoder(bytes.NewReader(body))
	var path []string
	sawRoot := false
	for {
		tok, err := d.Token()
		if err == io.EOF {
			if !sawRoot {
				return errEmptyDocument
			}
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			sawRoot = true
			consumed, err := visit(d, path, t)
			if err != nil {
				return err
			}
			if !consumed {
				path = append(path, t.Name.Local)
			}
		case xml.EndElement:
			if len(path) > 0 {
				path = path[:len(path)-1]
			}
		}
	}
}

// hasSuffix reports whether `path` ends with `suffix`.
func hasSuffix(path []string, suffix ...string) bool {
	if len(suffix) > len(path) {
		return false
	}
	offset := len(path) - len(suffix)
	for i, s := range suffix {
		if path[offset+i] != s {
			return false
		}
	}
	return true
}
