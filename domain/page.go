package domain

// Pagination describes the slice of the collection carried by a TaskPage.
type Pagination struct {
	Total   int  `json:"total"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

// TaskPage is the paginated form of the tasks response.
type TaskPage struct {
	Tasks      []Task     `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}

// Slice cuts tasks to [offset, offset+limit) and describes the result. A
// limit of zero or less selects everything after offset.
func Slice(tasks []Task, offset, limit int) TaskPage {
	total := len(tasks)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && limit < total-offset {
		end = offset + limit
	}
	if limit <= 0 {
		limit = total - offset
	}
	page := tasks[offset:end]
	if page == nil {
		page = []Task{}
	}
	return TaskPage{
		Tasks: page,
		Pagination: Pagination{
			Total:   total,
			Offset:  offset,
			Limit:   limit,
			HasMore: end < total,
		},
	}
}
