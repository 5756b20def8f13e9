package policy

import (
	"strings"

	"counter-contract/go-backend/internal/domains/counter/model"
)

// RequireOwner allows a privileged mutation only for the recorded owner.
func RequireOwner(state model.State, sender string) error {
	if strings.TrimSpace(sender) == "" || sender != state.Owner {
		return model.ErrUnauthorized
	}
	return nil
}
