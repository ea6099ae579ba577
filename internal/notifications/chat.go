package notifications

import "fmt"

const maxChatPreviewLength = 50

// SendChatPing dispatches an ephemeral push for a chat message. Chat pings are
// never persisted and never merge; a provider failure is silently accepted.
func (e *Engine) SendChatPing(senderID, receiverID, messageContent string) {
	senderName := e.resolver.ResolveDisplayName(senderID)

	preview := messageContent
	if runes := []rune(preview); len(runes) > maxChatPreviewLength {
		preview = string(runes[:maxChatPreviewLength]) + "..."
	}

	e.push.Send(
		[]string{receiverID},
		fmt.Sprintf("New message from %s", senderName),
		preview,
		map[string]string{
			"click_action": "FLUTTER_NOTIFICATION_CLICK_CHAT",
			"type":         "chat",
			"sender_id":    senderID,
			"sender_name":  senderName,
		},
	)
}
