package dto

type WordCloudQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}
