package asciify

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownAlgorithm is returned for an algorithm name that is not
	// registered.
	ErrUnknownAlgorithm = errors.New("asciify: unknown algorithm")

	// ErrAlgorithmSpec is returned for an algorithm string without a name.
	ErrAlgorithmSpec = errors.New("asciify: empty algorithm specification")
)

// Params are the key=value options of an algorithm string.
type Params map[string]string

// Int returns the integer value of key, or def when the key is missing or
// its value is not a number.
func (p Params) Int(key string, def int) int {
	s, ok := p[key]
	if !ok {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

// Factory builds a Context for a glyph store from parsed parameters.
type Factory func(store GlyphStore, params Params) (Context, error)

// Algorithm describes one registered matching algorithm.
type Algorithm struct {
	Name        string
	Description string
	New         Factory
}

var algorithmTable = []Algorithm{
	{
		Name:        "sed",
		Description: "squared Euclidean pixel distance",
		New: func(store GlyphStore, _ Params) (Context, error) {
			return NewEuclideanContext(store), nil
		},
	},
	{
		Name:        "md",
		Description: "difference of mean brightness",
		New: func(store GlyphStore, _ Params) (Context, error) {
			return NewMeansContext(store), nil
		},
	},
	{
		Name:        "mi",
		Description: "normalized mutual information (bins=N)",
		New: func(store GlyphStore, p Params) (Context, error) {
			return NewMutualInfoContext(store, clamp(p.Int("bins", DefaultBins), 2, 256)), nil
		},
	},
	{
		Name:        "pca",
		Description: "nearest glyph in principal component space (k=N)",
		New: func(store GlyphStore, p Params) (Context, error) {
			size := store.GlyphWidth() * store.GlyphHeight()
			return NewPCAContext(store, clamp(p.Int("k", DefaultComponents(store)), 1, size))
		},
	},
}

var registry = buildRegistry(algorithmTable)

func buildRegistry(table []Algorithm) *OrderedMap[string, Algorithm] {
	om := NewOrderedMap[string, Algorithm]()
	for _, a := range table {
		if _, dup := om.Get(a.Name); dup {
			panic("asciify: algorithm registered twice: " + a.Name)
		}
		om.Set(a.Name, a)
	}
	return om
}

// Algorithms returns the registered algorithms in table order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, 0, registry.Len())
	registry.Iterate(func(_ string, a Algorithm) {
		out = append(out, a)
	})
	return out
}

// ParseAlgorithm splits "name[:key=value[:key=value...]]" into the
// lower-cased name and its parameters. Parts without '=' map to an empty
// value.
func ParseAlgorithm(algorithm string) (string, Params, error) {
	parts := strings.Split(algorithm, ":")
	name := strings.ToLower(strings.TrimSpace(parts[0]))
	if name == "" {
		return "", nil, ErrAlgorithmSpec
	}
	params := make(Params, len(parts)-1)
	for _, part := range parts[1:] {
		key, value, _ := strings.Cut(part, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		params[key] = value
	}
	return name, params, nil
}

// NewContext builds the context named by algorithm for store. Unknown keys are
// ignored and malformed numbers fall back to defaults.
func NewContext(algorithm string, store GlyphStore) (Context, error) {
	name, params, err := ParseAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}
	algo, ok := registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	if store.GlyphCount() == 0 {
		return nil, ErrEmptyFont
	}
	ctx, err := algo.New(store, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s context: %w", name, err)
	}
	Logger().Debug("matcher context ready", "algorithm", name,
		"glyphs", store.GlyphCount(),
		"cell", fmt.Sprintf("%dx%d", ctx.CellWidth(), ctx.CellHeight()))
	return ctx, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
