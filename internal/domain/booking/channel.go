package booking

import "github.com/recharge-travels/service-booking/internal/domain"

// Channel is the sales path a booking arrived through. It selects the
// pricing formula: direct consumers pay tax plus a flat service fee,
// partner agencies get a commission discount instead.
type Channel string

const (
	ChannelDirect  Channel = "direct"
	ChannelPartner Channel = "partner"
)

// IsValid returns true if the channel is a recognized sales path.
func (c Channel) IsValid() bool {
	return c == ChannelDirect || c == ChannelPartner
}

// String returns the string representation of the channel.
func (c Channel) String() string {
	return string(c)
}

// ParseChannel converts a string to a Channel, returning an error if unknown.
func ParseChannel(s string) (Channel, error) {
	ch := Channel(s)
	if !ch.IsValid() {
		return "", domain.NewUnsupportedChannelError(s)
	}
	return ch, nil
}
