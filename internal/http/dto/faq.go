package dto

type CreateFaqRequest struct {
	Question string `json:"question" binding:"required,notblank,min=5,max=500" jsonschema:"minLength=5,maxLength=500"`
	Answer   string `json:"answer" binding:"required,notblank,min=10,max=5000" jsonschema:"minLength=10,maxLength=5000"`
	Order    *int   `json:"order,omitempty" binding:"omitempty,min=0" jsonschema:"minimum=0,default=0"`
	IsActive *bool  `json:"isActive,omitempty" jsonschema:"default=true"`
}

type UpdateFaqRequest struct {
	Question *string `json:"question,omitempty" binding:"omitempty,notblank,min=5,max=500" jsonschema:"minLength=5,maxLength=500"`
	Answer   *string `json:"answer,omitempty" binding:"omitempty,notblank,min=10,max=5000" jsonschema:"minLength=10,maxLength=5000"`
	Order    *int    `json:"order,omitempty" binding:"omitempty,min=0" jsonschema:"minimum=0"`
	IsActive *bool   `json:"isActive,omitempty"`
}

type FaqURI struct {
	FaqID string `uri:"faqId" binding:"required,objectid"`
}
