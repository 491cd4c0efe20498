package jsontree

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cuemby/configdb/pkg/format"
)

// maxNesting bounds the parser's recursion (spec's core sets this to 8
// for every Format); the import sink itself has no separate depth guard.
const maxNesting = 8

// ReadInto decodes a JSON document from r as a stream of elements
// delivered to sink, honoring the Parser collaborator contract: every
// StartElement is matched by an EndElement, levels nest correctly, and
// the sequence is lazy and non-restartable (driven directly off
// json.Decoder.Token, never buffering the whole document).
func ReadInto(r io.Reader, sink format.Sink) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := decodeValue(dec, sink, 0, "", false); err != nil {
		return err
	}
	if dec.More() {
		return &format.FormatError{Kind: format.BadSyntax, Err: fmt.Errorf("trailing data after top-level value")}
	}
	return nil
}

func decodeValue(dec *json.Decoder, sink format.Sink, level int, key string, hasKey bool) error {
	if level > maxNesting {
		return &format.FormatError{Kind: format.BadSyntax, Err: fmt.Errorf("nesting exceeds %d levels", maxNesting)}
	}
	tok, err := dec.Token()
	if err != nil {
		return &format.FormatError{Kind: format.BadSyntax, Err: err}
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec, sink, level, key, hasKey)
		case '[':
			return decodeArray(dec, sink, level, key, hasKey)
		default:
			return &format.FormatError{Kind: format.BadSyntax, Err: fmt.Errorf("unexpected delimiter %q", t)}
		}
	default:
		text, ok := leafText(tok)
		if !ok {
			return &format.FormatError{Kind: format.BadType, Err: fmt.Errorf("unsupported leaf token %v", tok)}
		}
		if err := sink.StartElement(level, key, hasKey, text, true, format.Leaf); err != nil {
			return err
		}
		return sink.EndElement(level)
	}
}

func decodeObject(dec *json.Decoder, sink format.Sink, level int, key string, hasKey bool) error {
	if err := sink.StartElement(level, key, hasKey, "", false, format.ObjectContainer); err != nil {
		return err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return &format.FormatError{Kind: format.BadSyntax, Err: err}
		}
		childKey, ok := keyTok.(string)
		if !ok {
			return &format.FormatError{Kind: format.BadSyntax, Err: fmt.Errorf("object key is not a string: %v", keyTok)}
		}
		if err := decodeValue(dec, sink, level+1, childKey, true); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil { // consume closing '}'
		return &format.FormatError{Kind: format.BadSyntax, Err: err}
	}
	return sink.EndElement(level)
}

func decodeArray(dec *json.Decoder, sink format.Sink, level int, key string, hasKey bool) error {
	if err := sink.StartElement(level, key, hasKey, "", false, format.ArrayContainer); err != nil {
		return err
	}
	for dec.More() {
		if err := decodeValue(dec, sink, level+1, "", false); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil { // consume closing ']'
		return &format.FormatError{Kind: format.BadSyntax, Err: err}
	}
	return sink.EndElement(level)
}

// leafText renders a decoded JSON scalar token back to the text form
// Prop.SetFromText expects: numbers keep their original decimal spelling
// via json.Number, strings pass through verbatim, booleans and null
// render as their literal spellings.
func leafText(tok json.Token) (string, bool) {
	switch v := tok.(type) {
	case json.Number:
		return v.String(), true
	case string:
		return v, true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	case nil:
		return "null", true
	default:
		return "", false
	}
}
