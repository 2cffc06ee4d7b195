package errors

import (
	"context"
	"errors"
	"net"
	"strings"
)

// shown when a request fails before reaching the server for unknown reason.
const unreachableMessage = "Unable to connect to the server. Please check your internet connection and try again."

// ClassifyNetwork maps an error raised by the transport (not a response)
// onto a Category and user-facing message.
//
// # Returns
//
// - Category: Cancelled if err is caused by cancellation, otherwise Network.
//
// - string: message for users. For failures which are not recognized as
// connectivity problems, it is a generic "unable to connect" message.
func ClassifyNetwork(err error) (Category, string) {
	if err == nil {
		return Unexpected, Message(Unexpected)
	}
	if errors.Is(err, context.Canceled) {
		return Cancelled, Message(Cancelled)
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return Network, Message(Network)
	}

	lower := strings.ToLower(err.Error())
	if containsAny(lower, []string{"network", "fetch", "connection refused", "no such host"}) {
		return Network, Message(Network)
	}

	return Network, unreachableMessage
}
