package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/incident"
	"github.com/clockwise-hq/timeclock-backend-go/internal/domain/user"
)

// batchSize bounds how many due incidents one sweep delivers.
const batchSize = 50

// Notifier drains the incident register once the per-incident embargo has
// passed. Delivery is a structured log line standing in for the push/email
// fan-out; the register row is stamped so an incident goes out once.
type Notifier struct {
	incidentRepo incident.IncidentRepository
	userRepo     user.UserRepository
	logger       *slog.Logger
}

func NewNotifier(incidentRepo incident.IncidentRepository, userRepo user.UserRepository, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		incidentRepo: incidentRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// Run delivers one batch of due incidents and returns how many went out.
func (n *Notifier) Run(ctx context.Context) (int, error) {
	now := time.Now()

	due, err := n.incidentRepo.ListDue(ctx, now, batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list due incidents: %w", err)
	}

	delivered := 0
	for _, inc := range due {
		employee := inc.EmployeeID
		if u, err := n.userRepo.GetByID(ctx, inc.EmployeeID); err == nil {
			employee = u.FullName
		}

		n.logger.InfoContext(ctx, "incident notification",
			"code", inc.Code,
			"severity", inc.Severity,
			"employee", employee,
			"channel", inc.Channel,
			"occurred_at", inc.OccurredAt,
			"message", inc.Message,
		)

		if err := n.incidentRepo.MarkNotified(ctx, inc.ID, now); err != nil {
			return delivered, fmt.Errorf("failed to mark incident notified: %w", err)
		}
		delivered++
	}

	return delivered, nil
}
