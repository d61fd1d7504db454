package model

type ItemType string

const (
	ItemTypeArticle ItemType = "Article"
	ItemTypeVideo   ItemType = "Video"
	ItemTypeGallery ItemType = "Gallery"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeArticle, ItemTypeVideo, ItemTypeGallery:
		return true
	}
	return false
}

type FeaturedItem struct {
	ID       string   `json:"id"`
	Order    int      `json:"order"`
	ItemID   string   `json:"-"`
	ItemType ItemType `json:"itemType"`

	// Item is the resolved target; nil when it no longer exists.
	Item *FeaturedContent `json:"item"`
}

// FeaturedContent is the common view of an Article, Video or Gallery.
type FeaturedContent struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	ImageURL string `json:"imageUrl,omitempty"`
	Excerpt  string `json:"excerpt,omitempty"`
}
