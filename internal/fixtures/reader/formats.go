package reader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"
)

// Format parses decoded file content into a generic value: a list of
// fixture records, or a mapping holding that list under "fixtures".
type Format interface {
	Parse(filename string, content []byte) (any, error)
}

// FormatFunc adapts an ordinary function to the Format interface.
type FormatFunc func(filename string, content []byte) (any, error)

// Parse calls f(filename, content).
func (f FormatFunc) Parse(filename string, content []byte) (any, error) {
	return f(filename, content)
}

// JSONFormat parses JSON documents. Integer literals decode to int64 without
// passing through float64, so ids above 2^53 survive unchanged.
var JSONFormat = FormatFunc(func(_ string, content []byte) (any, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(content))
	v, err := readJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, err
	}
	return v, nil
})

func readJSONValue(dec *jsontext.Decoder) (any, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch tok.Kind() {
	case 'n':
		return nil, nil
	case 't', 'f':
		return tok.Bool(), nil
	case '"':
		return tok.String(), nil
	case '0':
		return parseJSONNumber(tok.String())
	case '[':
		items := []any{}
		for dec.PeekKind() != ']' {
			item, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		obj := map[string]any{}
		for dec.PeekKind() != '}' {
			name, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			value, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			obj[name.String()] = value
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return obj, nil
	}
	return nil, fmt.Errorf("unexpected JSON token %s", tok)
}

// parseJSONNumber keeps integer literals exact. Literals with a fraction or
// exponent, and integers outside the int64 range, become float64.
func parseJSONNumber(literal string) (any, error) {
	if !strings.ContainsAny(literal, ".eE") {
		if n, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return n, nil
		}
	}
	return strconv.ParseFloat(literal, 64)
}

// YAMLFormat parses the first document of a YAML stream.
var YAMLFormat = FormatFunc(func(_ string, content []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(content, &v); err != nil {
		return nil, err
	}
	return v, nil
})

// scriptModules are the only tengo stdlib modules a fixture script may import.
// No file, network or OS access.
var scriptModules = stdlib.GetModuleMap("text", "fmt", "math", "times")

const (
	// scriptMaxAllocs bounds the objects a fixture script may allocate.
	scriptMaxAllocs = 10_000_000

	// DefaultScriptTimeout bounds the run time of a fixture script.
	DefaultScriptTimeout = 30 * time.Second
)

// ScriptVariable is the global a fixture script must assign its fixtures to.
const ScriptVariable = "fixtures"

// ScriptFormat runs fixture scripts with DefaultScriptTimeout.
var ScriptFormat = NewScriptFormat(DefaultScriptTimeout)

// NewScriptFormat returns a format that runs a tengo script in a sandboxed VM
// and returns the value of its top-level fixtures variable. Scripts can
// generate rows with loops and the text, fmt, math and times modules. A
// script still running after timeout is aborted.
func NewScriptFormat(timeout time.Duration) Format {
	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}
	return FormatFunc(func(_ string, content []byte) (any, error) {
		return runScript(content, timeout)
	})
}

func runScript(content []byte, timeout time.Duration) (any, error) {
	script := tengo.NewScript(content)
	script.SetImports(scriptModules)
	script.SetMaxAllocs(scriptMaxAllocs)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	compiled, err := script.RunContext(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("script did not finish within %s: %w", timeout, err)
		}
		return nil, err
	}

	v := compiled.Get(ScriptVariable)
	if v.IsUndefined() {
		return nil, fmt.Errorf("script does not define a %q variable", ScriptVariable)
	}
	return v.Value(), nil
}

// defaultFormats is the extension dispatch table every Reader starts with.
func defaultFormats() map[string]Format {
	return map[string]Format{
		".json":  JSONFormat,
		".yml":   YAMLFormat,
		".yaml":  YAMLFormat,
		".tengo": ScriptFormat,
	}
}

// normalizeExtension lowercases ext and ensures a leading dot.
func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
