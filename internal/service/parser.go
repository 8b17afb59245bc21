package service

import (
	"context"
	"log"
	"strings"

	"phongtro/internal/model"
	"phongtro/internal/utils"
)

// RoomResolver resolves directive room ids back to their indexed rooms.
type RoomResolver interface {
	GetByID(ctx context.Context, id string) (*model.Room, error)
}

// ResponseParser inspects the raw model reply for an embedded show-rooms
// directive. The directive rides inside free text produced by a language
// model, so every malformed shape degrades to a plain text result instead
// of failing the request.
type ResponseParser struct {
	resolver RoomResolver
}

// NewResponseParser creates a parser that resolves room ids through the
// given resolver.
func NewResponseParser(resolver RoomResolver) *ResponseParser {
	return &ResponseParser{resolver: resolver}
}

// Parse splits the reply at the sentinel, parses the trailing directive, and
// resolves the named rooms. Without a sentinel the reply passes through
// unchanged as a text result. Candidates supply similarity scores for
// resolved rooms; ids that resolve to nothing are dropped silently.
func (p *ResponseParser) Parse(ctx context.Context, reply string, candidates []model.Room) model.ChatResult {
	idx := strings.Index(reply, ShowRoomsSentinel)
	if idx < 0 {
		return model.ChatResult{
			Response: reply,
			Type:     model.ResponseTypeText,
			Sources:  candidates,
		}
	}

	prefix := strings.TrimSpace(reply[:idx])
	suffix := strings.TrimSpace(reply[idx+len(ShowRoomsSentinel):])

	var directive model.ShowRoomsDirective
	if err := utils.ParseModelJSON(suffix, &directive); err != nil {
		log.Printf("Warning: show-rooms directive is not valid JSON, falling back to text: %v", err)
		return model.ChatResult{
			Response: reply,
			Type:     model.ResponseTypeText,
			Sources:  candidates,
		}
	}

	rooms := make([]model.Room, 0, len(directive.RoomIDs))
	for _, id := range directive.RoomIDs {
		room, err := p.resolver.GetByID(ctx, id)
		if err != nil {
			log.Printf("Warning: failed to resolve room %s from directive: %v", id, err)
			continue
		}
		if room == nil {
			log.Printf("Warning: directive references unknown room %s, skipping", id)
			continue
		}
		room.Similarity = similarityFor(id, candidates)
		rooms = append(rooms, *room)
	}

	return model.ChatResult{
		Response: strings.TrimSpace(prefix + " " + directive.Message),
		Type:     model.ResponseTypeShowRooms,
		Rooms:    rooms,
		Sources:  candidates,
	}
}

func similarityFor(id string, candidates []model.Room) float64 {
	for _, c := range candidates {
		if c.ID == id {
			return c.Similarity
		}
	}
	return 0
}
