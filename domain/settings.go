package domain

// Settings are the table preferences a presentation may persist between
// sessions. Zero values mean "use the default".
type Settings struct {
	PageSize      int           `json:"pageSize,omitempty" yaml:"page_size,omitempty"`
	SortBy        Column        `json:"sortBy,omitempty" yaml:"sort_by,omitempty"`
	SortDirection SortDirection `json:"sortDirection,omitempty" yaml:"sort_direction,omitempty"`
	Columns       []Column      `json:"columns,omitempty" yaml:"columns,omitempty"`
}
