package ws

import (
	"github.com/heavymart/bidgate/internal/bidding/application"
	"github.com/heavymart/bidgate/internal/bidding/domain"
)

// MessageType defines ws type message
type MessageType string

const (
	MessageTypeCountdownTick MessageType = "countdown_tick" // server msg with one clock sample
	MessageTypeListingUpdate MessageType = "listing_update" // server msg after an accepted bid refreshed the listing
	MessageTypeInitialState  MessageType = "initial_state"  // server msg with the view snapshot on subscribe
	MessageTypeServerError   MessageType = "server_error"   // server msg indicating error
)

type BaseMessage struct {
	Type MessageType `json:"type"`
}

// CountdownTickMessage carries one Remaining sample to every watcher of a
// listing. The zero sample is terminal, the page renders it as closed.
type CountdownTickMessage struct {
	BaseMessage
	Payload struct {
		ListingID string           `json:"listing_id"`
		Remaining domain.Remaining `json:"remaining"`
	} `json:"payload"`
}

func NewCountdownTickMessage(listingID string, r domain.Remaining) CountdownTickMessage {
	msg := CountdownTickMessage{BaseMessage: BaseMessage{Type: MessageTypeCountdownTick}}
	msg.Payload.ListingID = listingID
	msg.Payload.Remaining = r
	return msg
}

// ListingUpdateMessage pushes refreshed authoritative state to every watcher,
// not just the bidder whose proposal was accepted.
type ListingUpdateMessage struct {
	BaseMessage
	Payload *application.ListingStateDTO `json:"payload"`
}

func NewListingUpdateMessage(state *application.ListingStateDTO) ListingUpdateMessage {
	return ListingUpdateMessage{
		BaseMessage: BaseMessage{Type: MessageTypeListingUpdate},
		Payload:     state,
	}
}

// InitialStateMessage is sent once right after a successful subscribe.
type InitialStateMessage struct {
	BaseMessage
	Payload *application.ListingStateDTO `json:"payload"`
}

func NewInitialStateMessage(state *application.ListingStateDTO) InitialStateMessage {
	return InitialStateMessage{
		BaseMessage: BaseMessage{Type: MessageTypeInitialState},
		Payload:     state,
	}
}

type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		Error string `json:"error"`
	} `json:"payload"`
}

func NewServerErrorMessage(message string) ServerErrorMessage {
	msg := ServerErrorMessage{BaseMessage: BaseMessage{Type: MessageTypeServerError}}
	msg.Payload.Error = message
	return msg
}
