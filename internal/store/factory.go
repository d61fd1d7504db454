package store

import (
	"needsnet.app/api/common/arangodb"
)

type Stores struct {
	db arangodb.Client
}

func NewStores(db arangodb.Client) *Stores {
	return &Stores{db: db}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.db)
}

func (s *Stores) Needs() NeedStore {
	return newNeedStore(s.db)
}

func (s *Stores) Polls() PollStore {
	return newPollStore(s.db)
}

func (s *Stores) Messages() MessageStore {
	return newMessageStore(s.db)
}

func (s *Stores) FeaturedItems() FeaturedItemStore {
	return newFeaturedItemStore(s.db)
}

func (s *Stores) Faqs() FaqStore {
	return newFaqStore(s.db)
}

func (s *Stores) Articles() ArticleStore {
	return newArticleStore(s.db)
}

func (s *Stores) Videos() VideoStore {
	return newVideoStore(s.db)
}

func (s *Stores) Galleries() GalleryStore {
	return newGalleryStore(s.db)
}

func (s *Stores) Dashboard() DashboardStore {
	return newDashboardStore(s.db)
}

func (s *Stores) WordClouds() WordCloudStore {
	return newWordCloudStore(s.db)
}
