package avatar

import "errors"

// ErrInvalidPayload rejects save requests without an avatar config.
var ErrInvalidPayload = errors.New("invalid payload")
