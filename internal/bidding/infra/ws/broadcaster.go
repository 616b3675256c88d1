package ws

import (
	"encoding/json"

	"github.com/heavymart/bidgate/internal/bidding/application"
	"github.com/heavymart/bidgate/internal/bidding/domain"
	"github.com/heavymart/bidgate/internal/shared/logger"
	"github.com/heavymart/bidgate/internal/shared/websocket"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Broadcaster implements application.Publisher on top of the shared hub,
// turning view events into per-listing websocket pushes.
type Broadcaster struct {
	hub *websocket.Hub
}

func NewBroadcaster(hub *websocket.Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

func (b *Broadcaster) PublishTick(listingID string, r domain.Remaining) {
	data, err := json.Marshal(NewCountdownTickMessage(listingID, r))
	if err != nil {
		log.Error("failed to marshal countdown tick", zap.Error(err))
		return
	}
	b.hub.BroadcastToListing(listingID, data)
}

func (b *Broadcaster) PublishState(state *application.ListingStateDTO) {
	data, err := json.Marshal(NewListingUpdateMessage(state))
	if err != nil {
		log.Error("failed to marshal listing update", zap.Error(err))
		return
	}
	b.hub.BroadcastToListing(state.ListingID, data)
}

var _ application.Publisher = (*Broadcaster)(nil)
