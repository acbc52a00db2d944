package batch

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
)

type batchDef struct {
	Concurrency int   `json:"concurrency"`
	Expressions []any `json:"expressions"`
}

func (d *batchDef) compile() (*Batch, error) {
	if len(d.Expressions) == 0 {
		return nil, fmt.Errorf("empty expressions")
	}
	if d.Concurrency < 0 {
		return nil, fmt.Errorf("concurrency must not be negative: %d", d.Concurrency)
	}

	b := &Batch{
		Concurrency: d.Concurrency,
		Entries:     make([]Entry, len(d.Expressions)),
	}
	names := make(map[string]bool, len(d.Expressions))
	for i, raw := range d.Expressions {
		entry, err := compileEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("expressions[%d]: %w", i, err)
		}
		if entry.Name == "" {
			entry.Name = fmt.Sprintf("expressions[%d]", i)
		}
		if names[entry.Name] {
			return nil, fmt.Errorf("expressions[%d]: %s: duplicated name", i, entry.Name)
		}
		names[entry.Name] = true

		b.Entries[i] = entry
	}

	return b, nil
}

type entryDef struct {
	Name   string `mapstructure:"name"`
	Expr   string `mapstructure:"expr"`
	Expect any    `mapstructure:"expect"`
}

func compileEntry(raw any) (Entry, error) {
	switch v := raw.(type) {
	case string:
		return Entry{Source: v}, nil

	case map[string]any:
		if _, ok := v["expr"]; !ok {
			return Entry{}, fmt.Errorf("expr is required")
		}

		var def entryDef
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			ErrorUnused: true,
			Result:      &def,
		})
		if err != nil {
			return Entry{}, fmt.Errorf("mapstructure.NewDecoder: %w", err)
		}
		if err = decoder.Decode(v); err != nil {
			return Entry{}, fmt.Errorf("mapstructure.Decode: %w", err)
		}

		expect, err := decodeExpect(def.Expect)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Name: def.Name, Source: def.Expr, Expect: expect}, nil

	default:
		return Entry{}, fmt.Errorf("invalid type: %T", raw)
	}
}

func decodeExpect(v any) (*int64, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil

	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("expect must be an integer: %s", n)
		}
		return &i, nil

	default:
		return nil, fmt.Errorf("expect must be an integer: %v", v)
	}
}
