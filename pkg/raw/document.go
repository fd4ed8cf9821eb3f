// Package raw turns provider payloads into one normalized tree and reads it
// through a declarative table of key variants.
package raw

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind records which shape the payload arrived in.
type Kind int

const (
	KindObject Kind = iota
	KindList
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindList:
		return "list"
	case KindText:
		return "text"
	}
	return "unknown"
}

var ErrUnsupportedDocument = errors.New("unsupported raw document")

// Document is the single internal representation every payload is
// classified into before extraction starts.
type Document struct {
	Kind Kind
	Root map[string]any
}

// Classify inspects the payload once and produces a Document. Serialized
// payloads are decoded; lists contribute their first object element.
func Classify(payload any) (Document, error) {
	switch p := payload.(type) {
	case Document:
		return p, nil
	case map[string]any:
		return Document{Kind: KindObject, Root: p}, nil
	case []any:
		for _, item := range p {
			if m, ok := item.(map[string]any); ok {
				return Document{Kind: KindList, Root: m}, nil
			}
		}
		return Document{}, fmt.Errorf("%w: list without an object element", ErrUnsupportedDocument)
	case []map[string]any:
		if len(p) == 0 {
			return Document{}, fmt.Errorf("%w: empty list", ErrUnsupportedDocument)
		}
		return Document{Kind: KindList, Root: p[0]}, nil
	case json.RawMessage:
		return classifyText([]byte(p))
	case []byte:
		return classifyText(p)
	case string:
		return classifyText([]byte(p))
	case nil:
		return Document{}, fmt.Errorf("%w: empty payload", ErrUnsupportedDocument)
	}
	return Document{}, fmt.Errorf("%w: %T", ErrUnsupportedDocument, payload)
}

func classifyText(b []byte) (Document, error) {
	if strings.TrimSpace(string(b)) == "" {
		return Document{}, fmt.Errorf("%w: empty payload", ErrUnsupportedDocument)
	}

	var decoded any
	if err := json.Unmarshal(b, &decoded); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrUnsupportedDocument, err)
	}
	if _, isText := decoded.(string); isText {
		return Document{}, fmt.Errorf("%w: bare string payload", ErrUnsupportedDocument)
	}

	doc, err := Classify(decoded)
	if err != nil {
		return Document{}, err
	}
	doc.Kind = KindText
	return doc, nil
}
