package telegram

import (
	"context"
	"fmt"
	"log"

	"github.com/mbruegger/wallcast/internal/wallpaper"
)

// Notifier pushes operational updates to an admin chat. All methods are
// best-effort: delivery failures are logged, never propagated, and with
// no admin chat configured every call is a no-op.
type Notifier struct {
	client      *Client
	adminChatID string
}

func NewNotifier(client *Client, adminChatID string) *Notifier {
	return &Notifier{client: client, adminChatID: adminChatID}
}

func (n *Notifier) send(ctx context.Context, text string) {
	if n == nil || n.adminChatID == "" {
		return
	}
	if err := n.client.SendMessage(ctx, n.adminChatID, text); err != nil {
		log.Printf("admin notification failed: %v", err)
	}
}

// BatchComplete reports the outcome of a dispatch cycle.
func (n *Notifier) BatchComplete(ctx context.Context, src wallpaper.Source, sent, target int) {
	n.send(ctx, fmt.Sprintf(
		"✅ <b>Batch complete</b>\n\nSource: %s\nSent: %d of %d", src, sent, target))
}

// Error reports a cycle failure.
func (n *Notifier) Error(ctx context.Context, msg string) {
	n.send(ctx, fmt.Sprintf("🚨 <b>Bot error</b>\n\n%s", msg))
}

// Rotated reports a source rotation.
func (n *Notifier) Rotated(ctx context.Context, from, to wallpaper.Source) {
	n.send(ctx, fmt.Sprintf("🔄 <b>Source rotated</b>\n\n%s → %s", from, to))
}
