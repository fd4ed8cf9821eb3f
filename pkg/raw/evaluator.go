package raw

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/jmespath/go-jmespath"
)

// Evaluator resolves dotted key paths against a tree. Each path is compiled
// once into a JMESPath expression with every segment quoted, so provider
// keys such as "stl19:Email" or "@nameId" need no escaping by callers.
type Evaluator struct {
	cache map[string]*jmespath.JMESPath
	mu    sync.RWMutex
}

func NewEvaluator() *Evaluator {
	return &Evaluator{
		cache: make(map[string]*jmespath.JMESPath),
	}
}

// Evaluate returns the value at path, or nil when any segment is missing.
func (e *Evaluator) Evaluate(path string, data any) (any, error) {
	compiled, err := e.getOrCompile(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}

	result, err := compiled.Search(data)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate path %q: %w", path, err)
	}
	return result, nil
}

// Validate checks that a path compiles.
func (e *Evaluator) Validate(path string) error {
	_, err := e.getOrCompile(path)
	return err
}

func (e *Evaluator) getOrCompile(path string) (*jmespath.JMESPath, error) {
	e.mu.RLock()
	if compiled, ok := e.cache[path]; ok {
		e.mu.RUnlock()
		return compiled, nil
	}
	e.mu.RUnlock()

	expression, err := Expression(path)
	if err != nil {
		return nil, err
	}
	compiled, err := jmespath.Compile(expression)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[path] = compiled
	e.mu.Unlock()

	return compiled, nil
}

// Expression converts "a.b:c.@d" into the JMESPath `"a"."b:c"."@d"`.
func Expression(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("empty path")
	}
	segments := strings.Split(path, ".")
	quoted := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			return "", fmt.Errorf("empty segment in path %q", path)
		}
		b, err := json.Marshal(segment)
		if err != nil {
			return "", err
		}
		quoted = append(quoted, string(b))
	}
	return strings.Join(quoted, "."), nil
}
