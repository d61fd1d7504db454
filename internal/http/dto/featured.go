package dto

type FeaturedItemRequest struct {
	Order    int    `json:"order" binding:"required,min=1" jsonschema:"minimum=1"`
	Item     string `json:"item" binding:"required,objectid" jsonschema:"pattern=^[0-9a-f]{24}$"`
	ItemType string `json:"itemType" binding:"required,oneof=Article Video Gallery" jsonschema:"enum=Article,enum=Video,enum=Gallery"`
}

type ReplaceFeaturedItemsRequest struct {
	Items []FeaturedItemRequest `json:"items" binding:"required,min=1,max=20,dive" jsonschema:"minItems=1,maxItems=20"`
}
