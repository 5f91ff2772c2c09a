package query

// Schema describes how one table is listed: which columns are selected, which
// request names may be sorted or filtered on, and which columns search hits.
type Schema struct {
	Table   string
	Columns []string
	// IDColumn is the primary key, used by Get and as the ordering tie-breaker.
	IDColumn string
	// Sortable maps request sort names to columns. It is the only way a request
	// can influence ORDER BY.
	Sortable map[string]string
	// DefaultSort is used when the requested sort name is absent or unknown.
	DefaultSort string
	// SearchColumns are matched case-insensitively by the search term.
	SearchColumns []string
	// Filters maps request filter names to the columns they constrain.
	Filters map[string]string
}

func (s Schema) sortColumn(name string) string {
	if column, ok := s.Sortable[name]; ok {
		return column
	}
	if s.DefaultSort != "" {
		return s.DefaultSort
	}
	return "created_at"
}

func (s Schema) idColumn() string {
	if s.IDColumn != "" {
		return s.IDColumn
	}
	return "id"
}
