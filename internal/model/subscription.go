package model

import "gorm.io/gorm"

// Subscription is an edge record between a subscribing user and a channel.
// Nothing in this service creates or mutates these rows; they are read-only
// input to the channel statistics queries.
type Subscription struct {
	gorm.Model
	SubscriberID uint `gorm:"column:subscriber_id;uniqueIndex:idx_subscriptions_edge;not null"`
	ChannelID    uint `gorm:"column:channel_id;uniqueIndex:idx_subscriptions_edge;not null"`
	Subscriber   User `gorm:"foreignKey:SubscriberID"`
	Channel      User `gorm:"foreignKey:ChannelID"`
}
