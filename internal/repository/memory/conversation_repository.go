package memory

import (
	"markov-qa-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// ConversationRepository tracks live conversations. Entries never expire on
// their own; the socket handler deletes them when the channel closes.
type ConversationRepository struct {
	cache *cache.Cache
}

func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *ConversationRepository) Save(conv *entity.Conversation) {
	r.cache.Set(conv.Id.String(), conv, cache.NoExpiration)
}

func (r *ConversationRepository) Get(id string) (*entity.Conversation, bool) {
	if x, found := r.cache.Get(id); found {
		return x.(*entity.Conversation), true
	}
	return nil, false
}

func (r *ConversationRepository) Delete(id string) {
	r.cache.Delete(id)
}

func (r *ConversationRepository) Count() int {
	return r.cache.ItemCount()
}
