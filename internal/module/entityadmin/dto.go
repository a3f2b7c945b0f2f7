package entityadmin

// ListQuery carries the list endpoint's query parameters.
type ListQuery struct {
	Page   int    `form:"page" json:"page" binding:"omitempty,gte=1"`
	Limit  int    `form:"limit" json:"limit" binding:"omitempty,gte=1,lte=100"`
	Search string `form:"search" json:"search" binding:"omitempty,max=100"`
}
