package dto

type CreateNeedRequest struct {
	Title       string `json:"title" binding:"required,notblank,min=3,max=200" jsonschema:"minLength=3,maxLength=200"`
	Description string `json:"description" binding:"required,notblank,min=10,max=5000" jsonschema:"minLength=10,maxLength=5000"`
	Category    string `json:"category,omitempty" binding:"omitempty,max=100" jsonschema:"maxLength=100"`
}

type UpdateNeedStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open closed" jsonschema:"enum=open,enum=closed"`
}
