package azure

import (
	"errors"
	"fmt"
)

// ErrNotInitialized indicates a backend capability handle that was never
// constructed, usually because credentials or identity configuration were
// missing at startup. Accessors wrap it with the name of the missing
// capability; callers test with errors.Is.
var ErrNotInitialized = errors.New("not initialized")

func notInitialized(capability string) error {
	return fmt.Errorf("%s is %w. Check your credentials and configuration", capability, ErrNotInitialized)
}
