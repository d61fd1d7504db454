package store

import "needsnet.app/api/common/arangodb"

const (
	collUsers         = "users"
	collNeeds         = "needs"
	collPolls         = "polls"
	collMessages      = "supporter_messages"
	collFeaturedItems = "featured_items"
	collFaqs          = "faqs"
	collArticles      = "articles"
	collVideos        = "videos"
	collGalleries     = "galleries"
	collWordClouds    = "word_clouds"
)

// CollectionSpecs lists every collection with its indexes, for bootstrap.
func CollectionSpecs() []arangodb.CollectionSpec {
	return []arangodb.CollectionSpec{
		{Name: collUsers},
		{Name: collNeeds, Indexes: []arangodb.IndexSpec{
			{Fields: []string{"status", "createdAt"}},
		}},
		{Name: collPolls, Indexes: []arangodb.IndexSpec{
			{Fields: []string{"needId", "createdAt"}},
		}},
		{Name: collMessages, Indexes: []arangodb.IndexSpec{
			{Fields: []string{"needId", "createdAt"}},
		}},
		{Name: collFeaturedItems, Indexes: []arangodb.IndexSpec{
			{Fields: []string{"order"}, Unique: true},
		}},
		{Name: collFaqs, Indexes: []arangodb.IndexSpec{
			{Fields: []string{"isActive", "order", "createdAt"}},
		}},
		{Name: collArticles, Indexes: []arangodb.IndexSpec{
			{Fields: []string{"slug"}, Unique: true},
			{Fields: []string{"published", "category", "publishedAt"}},
		}},
		{Name: collVideos, Indexes: []arangodb.IndexSpec{
			{Fields: []string{"slug"}, Unique: true},
		}},
		{Name: collGalleries, Indexes: []arangodb.IndexSpec{
			{Fields: []string{"slug"}, Unique: true},
		}},
		{Name: collWordClouds},
	}
}
