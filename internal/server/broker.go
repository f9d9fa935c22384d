package server

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/playwave/tunequiz/internal/quiz"
)

// Event is the payload pushed to SSE subscribers. It carries both
// channel-wide reports and per-guess reactions.
type Event struct {
	Type    string            `json:"type"`
	Text    string            `json:"text,omitempty"`
	GuessID string            `json:"guessId,omitempty"`
	Symbol  string            `json:"symbol,omitempty"`
	Report  *quiz.RoundReport `json:"report,omitempty"`
}

func channelTopic(channel string) string { return "channel:" + channel }
func participantTopic(id string) string  { return "participant:" + id }

// Broker is an in-process pub/sub for SSE events, keyed by topic.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the
// given topic.
func (b *Broker) Subscribe(topic string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan []byte]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the topic's subscribers.
func (b *Broker) Unsubscribe(topic string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[topic], ch)
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given topic.
func (b *Broker) Publish(topic string, event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[topic] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// ChatGateway adapts the broker to quiz.ChatTransport: channel messages go
// to everyone subscribed to the channel, reactions only to the guesser.
type ChatGateway struct {
	broker *Broker
}

func NewChatGateway(broker *Broker) *ChatGateway {
	return &ChatGateway{broker: broker}
}

func (g *ChatGateway) SendMessage(_ context.Context, channel string, msg quiz.Message) error {
	g.broker.Publish(channelTopic(channel), Event{
		Type:   msg.Kind,
		Text:   msg.Text,
		Report: msg.Report,
	})
	return nil
}

func (g *ChatGateway) SendReaction(_ context.Context, _ string, reaction quiz.Reaction) error {
	symbol := "❌"
	if reaction.OK {
		symbol = "✅"
	}
	g.broker.Publish(participantTopic(reaction.ParticipantID), Event{
		Type:    "reaction",
		GuessID: reaction.GuessID,
		Symbol:  symbol,
	})
	return nil
}
