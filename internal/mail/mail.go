package mail

import (
	"context"

	"github.com/google/uuid"
)

// Mailer delivers transactional mail. Implementations report an error
// for any outcome other than the provider accepting the message.
type Mailer interface {
	SendPasswordReset(ctx context.Context, recipient string, resetToken uuid.UUID) error
}
