package models

// ActivitySource identifies how a user produced an activity item.
type ActivitySource string

const (
	ActivityPost   ActivitySource = "post"
	ActivityRepost ActivitySource = "repost"
	ActivityLike   ActivitySource = "like"
)

// ActivityItem is one classified piece of user activity, as emitted by the
// content-understanding step. Relevance maps topic tag to the estimated
// relevance of this item to that topic.
type ActivityItem struct {
	Source    ActivitySource     `json:"source" validate:"required,oneof=post repost like"`
	Relevance map[string]float64 `json:"relevance"`
	Stats     VideoStats         `json:"stats"`
}

// BaseAffinity is the content-theme estimate for one topic before the
// engagement-derived boost is applied.
type BaseAffinity struct {
	Affinity float64 `json:"affinity" validate:"min=0,max=1"`
	Reason   string  `json:"reason,omitempty"`
}
