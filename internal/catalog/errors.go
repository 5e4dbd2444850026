package catalog

import "fmt"

// LimitExceededError reports a traversal that visited more files than the
// ceiling allows. The scan aborts rather than returning partial results.
type LimitExceededError struct {
	Limit int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("scan limit exceeded: visited more than %d files", e.Limit)
}
