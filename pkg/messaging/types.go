package messaging

// EventTopic names one storefront event stream on the broker.
type EventTopic string

const (
	TopicTracking       EventTopic = "tracking"
	TopicCatalogRefresh EventTopic = "catalog_refreshed"
)
