package embeddings

import "errors"

// ErrUnavailable is returned when the embedding service cannot be reached
// or refuses the request. Callers surface it as a transient failure rather
// than crashing the session.
var ErrUnavailable = errors.New("embedding service unavailable")
