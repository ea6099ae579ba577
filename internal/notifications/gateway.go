package notifications

import "github.com/lienquan/karahub/backend/pkg/onesignal"

// PushResult is the provider's answer to a dispatched push.
type PushResult struct {
	ProviderID string
	Recipients int
}

// PushGateway abstracts the external push provider. Send returns nil when no
// push was delivered; callers proceed without failing. Cancel is best-effort.
type PushGateway interface {
	Send(targetUserIDs []string, title, body string, data map[string]string) *PushResult
	Cancel(providerID string)
}

// OneSignalGateway adapts the OneSignal client to the PushGateway interface.
type OneSignalGateway struct {
	Client *onesignal.Client
}

func (g *OneSignalGateway) Send(targetUserIDs []string, title, body string, data map[string]string) *PushResult {
	result := g.Client.Send(targetUserIDs, title, body, data)
	if result == nil {
		return nil
	}
	return &PushResult{ProviderID: result.ID, Recipients: result.Recipients}
}

func (g *OneSignalGateway) Cancel(providerID string) {
	g.Client.Cancel(providerID)
}
