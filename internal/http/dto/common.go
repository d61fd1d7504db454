package dto

const DefaultPageSize = 20

type PageQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Page returns the limit and offset with defaults applied.
func (q PageQuery) Page() (limit, offset int) {
	limit = q.Limit
	if limit == 0 {
		limit = DefaultPageSize
	}
	return limit, q.Offset
}

type NeedURI struct {
	NeedID string `uri:"needId" binding:"required,objectid"`
}

type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
