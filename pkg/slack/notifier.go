package slack

import (
	"fmt"

	"github.com/aiburn/aiburn/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// Notifier forwards domain events to the organization's notification
// webhook so the team channel sees approvals and logged time.
type Notifier struct {
	client      *Client
	unsubscribe []func()
}

func NewNotifier(bus *event_bus.EventBus, client *Client) *Notifier {
	notifier := &Notifier{client: client}
	notifier.unsubscribe = append(notifier.unsubscribe,
		event_bus.SubscribeTyped(bus, event_bus.TimeLoggedEvent, notifier.onTimeLogged),
		event_bus.SubscribeTyped(bus, event_bus.InitiativeApprovedEvent, notifier.onInitiativeApproved),
	)
	return notifier
}

// Close detaches the notifier from the bus.
func (n *Notifier) Close() {
	for _, unsubscribe := range n.unsubscribe {
		unsubscribe()
	}
}

func (n *Notifier) onTimeLogged(e event_bus.EventT[event_bus.TimeLogged]) error {
	text := fmt.Sprintf("%gd logged on %q for the week of %s",
		e.Data.PersonDays, e.Data.InitiativeName, e.Data.WeekOf.Format("Jan 2"))
	if err := n.client.PostNotification(e.Context(), text); err != nil {
		// Notifications are best effort, a failed webhook must not fail the
		// originating operation.
		log.Warnf("failed to post time logged notification: %v", err)
	}
	return nil
}

func (n *Notifier) onInitiativeApproved(e event_bus.EventT[event_bus.InitiativeApproved]) error {
	text := fmt.Sprintf("Initiative %q was approved", e.Data.InitiativeName)
	if err := n.client.PostNotification(e.Context(), text); err != nil {
		log.Warnf("failed to post initiative approved notification: %v", err)
	}
	return nil
}
