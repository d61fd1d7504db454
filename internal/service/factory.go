package service

import (
	"github.com/jonboulle/clockwork"

	"needsnet.app/api/internal/search"
	"needsnet.app/api/internal/store"
)

type Services struct {
	stores    *store.Stores
	publisher ActivityPublisher
	index     search.ArticleIndex
	clock     clockwork.Clock
}

// NewServices builds the service set. index may be nil when search is not
// configured.
func NewServices(stores *store.Stores, publisher ActivityPublisher, index search.ArticleIndex, clock clockwork.Clock) *Services {
	return &Services{
		stores:    stores,
		publisher: publisher,
		index:     index,
		clock:     clock,
	}
}

func (s *Services) Polls() PollService {
	return NewPollService(s.stores.Polls(), s.stores.Needs(), s.publisher, s.clock)
}

func (s *Services) Messages() MessageService {
	return NewMessageService(s.stores.Messages(), s.stores.Needs(), s.stores.Users(), s.publisher, s.clock)
}

func (s *Services) Needs() NeedService {
	return NewNeedService(s.stores.Needs(), s.stores.Users(), s.publisher, s.clock)
}

func (s *Services) FeaturedItems() FeaturedItemService {
	return NewFeaturedItemService(s.stores.FeaturedItems())
}

func (s *Services) Faqs() FaqService {
	return NewFaqService(s.stores.Faqs(), s.clock)
}

func (s *Services) Content() ContentService {
	return NewContentService(s.stores.Articles(), s.stores.Videos(), s.stores.Galleries(), s.index, s.clock)
}

func (s *Services) Dashboard() DashboardService {
	return NewDashboardService(s.stores.Dashboard(), s.stores.Needs(), s.stores.WordClouds())
}

func (s *Services) WordClouds() WordCloudService {
	return NewWordCloudService(s.stores.Messages(), s.stores.WordClouds(), s.clock)
}
