package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Channel selects the transport a verification code is delivered through.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

func (c Channel) String() string { return string(c) }

// Valid reports whether c is one of the known channels.
func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelWhatsApp
}

// phoneRe matches an E.164-like number: leading + followed by 8-15 digits.
var phoneRe = regexp.MustCompile(`^\+[0-9]{8,15}$`)

// ValidateIdentifier checks identifier syntax for the chosen channel.
// Email addresses must contain an @; phone numbers must match +[0-9]{8,15}.
// No further validation is performed; the delivery provider is the authority
// on whether the destination actually exists.
func ValidateIdentifier(identifier string, channel Channel) error {
	switch channel {
	case ChannelEmail:
		if !strings.Contains(identifier, "@") {
			return fmt.Errorf("please enter a valid email address: %w", ErrValidation)
		}
	case ChannelWhatsApp:
		if !phoneRe.MatchString(identifier) {
			return fmt.Errorf("phone number must start with + followed by 8-15 digits: %w", ErrValidation)
		}
	default:
		return fmt.Errorf("unknown channel %q: %w", channel, ErrValidation)
	}
	return nil
}
