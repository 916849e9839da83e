package proxy

import (
	"errors"
	"fmt"
)

// Every operation on a Proxy fails with exactly one of these three kinds.
// The HTTP layer maps them with errors.Is; anything a backend cannot name
// explicitly must be folded into ErrInternal before it leaves the proxy.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInternal        = errors.New("internal error")
)

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidArgument)...)
}

// internalf classifies a backing-store fault. The original error text is
// kept for the logs but the wrapped kind is always ErrInternal.
func internalf(err error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %v: %w", msg, err, ErrInternal)
}
