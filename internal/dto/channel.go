package dto

// ChannelProfileResponse is the public-safe projection of a channel plus its
// computed subscription statistics.
type ChannelProfileResponse struct {
	ID              uint   `json:"id"`
	Username        string `json:"username"`
	FullName        string `json:"fullName"`
	Avatar          string `json:"avatar,omitempty"`
	CoverImage      string `json:"coverImage,omitempty"`
	SubscriberCount int64  `json:"subscriberCount"`
	SubscribedCount int64  `json:"subscribedCount"`
	IsSubscribed    bool   `json:"isSubscribed"`
}
