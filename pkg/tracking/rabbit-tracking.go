package tracking

import (
	"log"
	"net/http"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/raosahab/catalog-query/pkg/messaging"
	"github.com/raosahab/catalog-query/pkg/types"
)

type RabbitTracking struct {
	storefront string
	connection *amqp.Connection
}

const trackingTopic = messaging.TopicTracking

func NewRabbitTracking(url, storefront string) (*RabbitTracking, error) {
	ret := RabbitTracking{
		connection: nil,
		storefront: storefront,
	}
	err := ret.connect(url)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	t.connection = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return messaging.DefineTopic(ch, "global", trackingTopic)
}

func (t *RabbitTracking) Close() error {
	return t.connection.Close()
}

func (t *RabbitTracking) send(data any) error {
	return messaging.SendEvent(t.connection, "global", trackingTopic, data)
}

type BaseEvent struct {
	SessionId  string `json:"session_id"`
	Storefront string `json:"storefront,omitempty"`
	Event      uint16 `json:"event"`
}

type Session struct {
	*BaseEvent
	UserAgent string `json:"user_agent,omitempty"`
	Ip        string `json:"ip,omitempty"`
	Language  string `json:"language,omitempty"`
}

func (t *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}

	err := t.send(Session{
		BaseEvent: &BaseEvent{Event: 0, SessionId: sessionId, Storefront: t.storefront},
		Language:  r.Header.Get("Accept-Language"),
		UserAgent: r.UserAgent(),
		Ip:        ip,
	})
	if err != nil {
		log.Println("Error sending session event: ", err)
	}
}

type SearchEventData struct {
	*BaseEvent
	types.QueryState
	NumberOfResults int    `json:"noi"`
	Referer         string `json:"referer,omitempty"`
}

func (t *RabbitTracking) TrackSearch(sessionId string, state types.QueryState, numberOfResults int, r *http.Request) {
	err := t.send(&SearchEventData{
		BaseEvent:       &BaseEvent{Event: 1, SessionId: sessionId, Storefront: t.storefront},
		QueryState:      state,
		NumberOfResults: numberOfResults,
		Referer:         r.Header.Get("Referer"),
	})
	if err != nil {
		log.Println("Error sending search event: ", err)
	}
}

type ActionEvent struct {
	*BaseEvent
	Action string `json:"action"`
}

func (t *RabbitTracking) TrackFiltersCleared(sessionId string, r *http.Request) {
	err := t.send(&ActionEvent{
		BaseEvent: &BaseEvent{Event: 6, SessionId: sessionId, Storefront: t.storefront},
		Action:    "filters_reset",
	})
	if err != nil {
		log.Println("Error sending action event: ", err)
	}
}
