package retry

import (
	"context"
	"errors"
	"net"
	"regexp"

	"github.com/WinPooh32/tradeadapter/platform"
)

type Class string

const (
	ClassNone         Class = "none"
	ClassTransient    Class = "transient"
	ClassUnclassified Class = "unclassified"
)

// Error texts the exchange clients are known to produce for failures that
// clear up on their own. The list needs upkeep whenever a client changes its
// wording.
var transientPattern = regexp.MustCompile(
	`(SOCKETTIMEDOUT|TIMEDOUT|CONNRESET|CONNREFUSED|NOTFOUND|Rate limit exceeded|Response code 5)`,
)

// Classify sorts an error into transient or unclassified.
// A cancelled or expired context is never transient: the caller gave up.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassNone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ClassUnclassified
	case errors.Is(err, platform.ErrRateLimited), errors.Is(err, platform.ErrUnavailable):
		return ClassTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassTransient
	}

	if transientPattern.MatchString(err.Error()) {
		return ClassTransient
	}
	return ClassUnclassified
}

func IsTransient(err error) bool {
	return Classify(err) == ClassTransient
}
