package cleaner

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"github.com/reimagineddocs/dip-backend/internal/dip/domain"
	"github.com/reimagineddocs/dip-backend/internal/dip/trace"
)

// Cleaner turns raw model output into validated suggestions, one schema per
// kind. Parsing is tolerant of unknown fields but strict on required ones:
// a malformed item is dropped with a warning, a malformed container fails
// the whole kind-batch with a ParseError.
type Cleaner struct {
	tracer trace.Tracer
}

func New(tracer trace.Tracer) *Cleaner {
	if tracer == nil {
		tracer = trace.Nop()
	}
	return &Cleaner{tracer: tracer}
}

// Clean parses one envelope into zero or more cleaned suggestions.
func (c *Cleaner) Clean(env domain.RawEnvelope) ([]domain.CleanedSuggestion, error) {
	sc, ok := schemas[env.Kind]
	if !ok {
		return nil, &domain.ContractViolation{Op: "cleaner.Clean", Kind: env.Kind}
	}

	items, err := decodeContainer(env.Kind, env.RawText, sc.wrapperKeys)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CleanedSuggestion, 0, len(items))
	seen := make(map[string]bool)
	for _, item := range items {
		cs, reason := sc.build(sc, item)
		if cs == nil {
			log.Printf("[dip] kind=%s dropped candidate: %s", env.Kind, reason)
			continue
		}
		if sc.dedupKey != nil {
			key := strings.ToLower(strings.TrimSpace(sc.dedupKey(cs)))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			if len(out) >= maxDedupedPerDoc {
				continue
			}
		}
		out = append(out, *cs)
	}

	c.tracer.Emit(trace.Event{Kind: env.Kind, Stage: trace.StageParsed, Count: len(out)})
	return out, nil
}

// decodeContainer accepts a JSON array of objects, a bare object, or an
// object wrapping the item array under a known per-kind key. Model output
// wrapped in markdown code fences is unwrapped first.
func decodeContainer(kind domain.SuggestionKind, raw string, wrapperKeys []string) ([]map[string]any, error) {
	raw = stripFences(strings.TrimSpace(raw))
	if raw == "" {
		return nil, &domain.ParseError{Kind: kind, Cause: errEmptyInput}
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &domain.ParseError{Kind: kind, Cause: err}
	}

	switch t := v.(type) {
	case []any:
		return itemMaps(t), nil
	case map[string]any:
		for _, key := range wrapperKeys {
			inner, ok := t[key]
			if !ok {
				continue
			}
			arr, ok := inner.([]any)
			if !ok {
				return nil, &domain.ParseError{Kind: kind, Cause: errBadWrapper}
			}
			return itemMaps(arr), nil
		}
		// No wrapper key: the object is a single candidate.
		return []map[string]any{t}, nil
	default:
		return nil, &domain.ParseError{Kind: kind, Cause: errNotContainer}
	}
}

func itemMaps(arr []any) []map[string]any {
	out := make([]map[string]any, 0, len(arr))
	for _, e := range arr {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
			continue
		}
		log.Printf("[dip] dropped non-object candidate in batch")
	}
	return out
}

// stripFences removes a surrounding markdown code fence (``` or ```json).
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// stringField returns the first non-empty string among the aliased keys.
func stringField(item map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := item[k]
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// confidence coerces from number or string and clamps to the kind floor
// when absent, unparsable, or outside [0,1].
func confidence(item map[string]any, floor float64) float64 {
	v, ok := item["confidence"]
	if !ok {
		return floor
	}
	f, ok := toFloat(v)
	if !ok || f < 0 || f > 1 {
		return floor
	}
	return f
}

// page coerces from number or string; a missing, unparsable or non-positive
// page becomes 0 (field dropped, not a failure).
func page(item map[string]any) int {
	v, ok := item["page"]
	if !ok {
		return 0
	}
	f, ok := toFloat(v)
	if !ok {
		return 0
	}
	p := int(f)
	if p <= 0 {
		return 0
	}
	return p
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func stringSlice(item map[string]any, key string) []string {
	v, ok := item[key]
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
