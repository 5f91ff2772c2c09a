package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Request parameter names and defaults shared by every list endpoint.
const (
	ParamPage   = "page"
	ParamLimit  = "limit"
	ParamSearch = "search"
	ParamSort   = "sort"
	ParamOrder  = "order"

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Direction is the ordering applied to the sort column.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Params is list input exactly as it arrives from a request.
type Params struct {
	Page    string
	Limit   string
	Search  string
	Sort    string
	Order   string
	Filters map[string][]string
}

// Spec is the normalized form of Params for a given Schema.
type Spec struct {
	Page       int
	Limit      int
	Search     string
	SortColumn string
	Direction  Direction
	Filters    map[string][]string
}

// Offset is the number of rows skipped before the current page.
func (s Spec) Offset() int {
	return (s.Page - 1) * s.Limit
}

var reserved = map[string]struct{}{
	ParamPage: {}, ParamLimit: {}, ParamSearch: {}, ParamSort: {}, ParamOrder: {},
}

// ParamsFromValues lifts URL query values into Params. Every non-reserved key is
// kept as a candidate filter; both repeated keys and comma lists are accepted.
func ParamsFromValues(values url.Values) Params {
	p := Params{
		Page:   values.Get(ParamPage),
		Limit:  values.Get(ParamLimit),
		Search: values.Get(ParamSearch),
		Sort:   values.Get(ParamSort),
		Order:  values.Get(ParamOrder),
	}
	for key, raw := range values {
		if _, skip := reserved[key]; skip {
			continue
		}
		var list []string
		for _, v := range raw {
			list = append(list, splitList(v)...)
		}
		if len(list) == 0 {
			continue
		}
		if p.Filters == nil {
			p.Filters = make(map[string][]string)
		}
		p.Filters[key] = list
	}
	return p
}

// Normalize coerces Params into a Spec. Malformed values fall back to defaults;
// it never fails.
func Normalize(p Params, schema Schema) Spec {
	return NormalizeWithMax(p, schema, MaxLimit)
}

// NormalizeWithMax is Normalize with a caller-supplied page size ceiling.
func NormalizeWithMax(p Params, schema Schema, maxLimit int) Spec {
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}

	spec := Spec{
		Page:       positiveOr(p.Page, DefaultPage),
		Limit:      positiveOr(p.Limit, DefaultLimit),
		Search:     strings.TrimSpace(p.Search),
		SortColumn: schema.sortColumn(p.Sort),
		Direction:  parseDirection(p.Order),
	}
	if spec.Limit > maxLimit {
		spec.Limit = maxLimit
	}

	for name, values := range p.Filters {
		if _, known := schema.Filters[name]; !known {
			continue
		}
		cleaned := make([]string, 0, len(values))
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				cleaned = append(cleaned, v)
			}
		}
		if len(cleaned) == 0 {
			continue
		}
		if spec.Filters == nil {
			spec.Filters = make(map[string][]string)
		}
		spec.Filters[name] = cleaned
	}

	return spec
}

// PageCount is ceil(count/limit), and zero when there is nothing to page.
func PageCount(count, limit int) int {
	if count <= 0 {
		return 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return (count + limit - 1) / limit
}

func positiveOr(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// "2.0" style numbers arrive from some clients.
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			return fallback
		}
		n = int(f)
	}
	if n < 1 {
		return fallback
	}
	return n
}

func parseDirection(raw string) Direction {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ASC", "ASCENDING":
		return Asc
	default:
		return Desc
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
