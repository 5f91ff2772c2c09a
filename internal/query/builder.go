package query

import (
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Plan is a Spec translated into SQL building blocks for one Schema.
type Plan struct {
	Table   string
	Where   sq.Sqlizer
	OrderBy []string
	Limit   uint64
	Offset  uint64
}

// Build turns a normalized spec and the caller's mandatory scope predicates into
// a Plan. Scope comes first, then filters in name order, then search.
func Build(schema Schema, spec Spec, scope ...sq.Sqlizer) Plan {
	predicates := make([]sq.Sqlizer, 0, len(scope)+len(spec.Filters)+1)
	for _, p := range scope {
		if p != nil {
			predicates = append(predicates, p)
		}
	}

	names := make([]string, 0, len(spec.Filters))
	for name := range spec.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		column, ok := schema.Filters[name]
		if !ok {
			continue
		}
		predicates = append(predicates, sq.Eq{column: spec.Filters[name]})
	}

	if search := searchPredicate(schema.SearchColumns, spec.Search); search != nil {
		predicates = append(predicates, search)
	}

	orderBy := []string{fmt.Sprintf("%s %s", spec.SortColumn, spec.Direction)}
	if id := schema.idColumn(); id != spec.SortColumn {
		orderBy = append(orderBy, fmt.Sprintf("%s %s", id, spec.Direction))
	}

	return Plan{
		Table:   schema.Table,
		Where:   combine(predicates),
		OrderBy: orderBy,
		Limit:   uint64(spec.Limit),
		Offset:  uint64(spec.Offset()),
	}
}

// Rows selects one page of the given columns.
func (p Plan) Rows(columns ...string) sq.SelectBuilder {
	b := sq.Select(columns...).From(p.Table)
	if p.Where != nil {
		b = b.Where(p.Where)
	}
	return b.OrderBy(p.OrderBy...).
		Limit(p.Limit).
		Offset(p.Offset).
		PlaceholderFormat(sq.Dollar)
}

// Unpaged selects every matching row in the plan's order, capped at ceiling rows.
func (p Plan) Unpaged(ceiling uint64, columns ...string) sq.SelectBuilder {
	b := sq.Select(columns...).From(p.Table)
	if p.Where != nil {
		b = b.Where(p.Where)
	}
	b = b.OrderBy(p.OrderBy...)
	if ceiling > 0 {
		b = b.Limit(ceiling)
	}
	return b.PlaceholderFormat(sq.Dollar)
}

// Count counts every row matching the same predicate as Rows.
func (p Plan) Count() sq.SelectBuilder {
	b := sq.Select("COUNT(*)").From(p.Table)
	if p.Where != nil {
		b = b.Where(p.Where)
	}
	return b.PlaceholderFormat(sq.Dollar)
}

// combine never wraps a single predicate and returns nil for none, so callers
// can skip the WHERE clause entirely.
func combine(predicates []sq.Sqlizer) sq.Sqlizer {
	switch len(predicates) {
	case 0:
		return nil
	case 1:
		return predicates[0]
	default:
		return sq.And(predicates)
	}
}

func searchPredicate(columns []string, term string) sq.Sqlizer {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return nil
	}
	pattern := "%" + escapeLike(term) + "%"
	if len(columns) == 1 {
		return sq.ILike{columns[0]: pattern}
	}
	or := make(sq.Or, 0, len(columns))
	for _, column := range columns {
		or = append(or, sq.ILike{column: pattern})
	}
	return or
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralises LIKE wildcards so the term matches literally.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
