package raw

import (
	"fmt"
	"sort"
	"strings"
)

// Reader reads logical fields out of raw nodes by trying each key variant
// in order. The first non-empty value wins.
type Reader struct {
	eval   *Evaluator
	fields map[Field][]string
}

// NewReader builds a Reader over Fields. Overrides replace or add variant
// lists for individual fields.
func NewReader(overrides ...map[Field][]string) *Reader {
	fields := make(map[Field][]string, len(Fields))
	for k, v := range Fields {
		fields[k] = v
	}
	for _, o := range overrides {
		for k, v := range o {
			fields[k] = v
		}
	}
	return &Reader{eval: NewEvaluator(), fields: fields}
}

// Variants returns the key variants consulted for field. A field missing
// from the table is treated as a literal path.
func (r *Reader) Variants(field Field) []string {
	if v, ok := r.fields[field]; ok {
		return v
	}
	return []string{string(field)}
}

// Value returns the first non-empty value for field under node.
func (r *Reader) Value(node any, field Field) any {
	if node == nil {
		return nil
	}
	for _, path := range r.Variants(field) {
		if v := r.walk(node, strings.Split(path, ".")); !IsEmpty(v) {
			return v
		}
	}
	return nil
}

// walk resolves segments one hop at a time. Every intermediate node is
// coerced with List, so a single object and a list of objects read the
// same; the first element yielding a non-empty value wins.
func (r *Reader) walk(node any, segments []string) any {
	if len(segments) == 0 {
		return node
	}
	for _, item := range List(node) {
		v, err := r.eval.Evaluate(segments[0], item)
		if err != nil || IsEmpty(v) {
			continue
		}
		if out := r.walk(v, segments[1:]); !IsEmpty(out) {
			return out
		}
	}
	return nil
}

func (r *Reader) Text(node any, field Field) string {
	return Text(r.Value(node, field))
}

func (r *Reader) Bool(node any, field Field) bool {
	return Bool(r.Value(node, field))
}

// List returns field coerced to a list.
func (r *Reader) List(node any, field Field) []any {
	return List(r.Value(node, field))
}

// Objects returns field coerced to a list of objects.
func (r *Reader) Objects(node any, field Field) []map[string]any {
	return Objects(r.Value(node, field))
}

// Object returns the first object for field, or nil.
func (r *Reader) Object(node any, field Field) map[string]any {
	return Object(r.Value(node, field))
}

func (r *Reader) Has(node any, field Field) bool {
	return r.Value(node, field) != nil
}

// Validate compiles every configured variant and reports the first bad one.
func (r *Reader) Validate() error {
	names := make([]string, 0, len(r.fields))
	for f := range r.fields {
		names = append(names, string(f))
	}
	sort.Strings(names)

	for _, name := range names {
		for _, path := range r.fields[Field(name)] {
			if err := r.eval.Validate(path); err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
		}
	}
	return nil
}
