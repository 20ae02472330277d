package events

// Topic constants for domain events emitted by the pricing platform.
const (
	TopicOrderPlaced    = "order.placed"
	TopicCouponRedeemed = "coupon.redeemed"
)

// DefaultTopics returns the canonical list of emitted topics.
func DefaultTopics() []string {
	return []string{
		TopicOrderPlaced,
		TopicCouponRedeemed,
	}
}
