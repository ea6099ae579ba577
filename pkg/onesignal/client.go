package onesignal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://onesignal.com/api/v1"

// SendResult holds the provider's answer to a successful dispatch.
type SendResult struct {
	ID         string `json:"id"`
	Recipients int    `json:"recipients"`
}

// Client talks to the OneSignal REST API. All delivery and cancellation
// failures are logged and swallowed; callers never see an error from it.
type Client struct {
	appID      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a OneSignal client. appID and apiKey come from the
// provider dashboard.
func NewClient(appID, apiKey string) *Client {
	return &Client{
		appID:   appID,
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithBaseURL creates a client pointed at a non-default API host.
// Used by tests.
func NewClientWithBaseURL(appID, apiKey, baseURL string) *Client {
	c := NewClient(appID, apiKey)
	c.baseURL = baseURL
	return c
}

type createNotificationBody struct {
	AppID                  string            `json:"app_id"`
	IncludeExternalUserIDs []string          `json:"include_external_user_ids"`
	Headings               map[string]string `json:"headings"`
	Contents               map[string]string `json:"contents"`
	Data                   map[string]string `json:"data,omitempty"`
	ChannelForExternalIDs  string            `json:"channel_for_external_user_ids"`
	SmallIcon              string            `json:"small_icon"`
	AndroidAccentColor     string            `json:"android_accent_color"`
}

// Send dispatches a push to the given external user IDs. It returns nil when
// the provider is unreachable or rejects the request; zero recipients is
// logged as a warning but still returned as a sent result.
func (c *Client) Send(targetUserIDs []string, title, body string, data map[string]string) *SendResult {
	payload := createNotificationBody{
		AppID:                  c.appID,
		IncludeExternalUserIDs: targetUserIDs,
		Headings:               map[string]string{"en": title},
		Contents:               map[string]string{"en": body},
		Data:                   data,
		ChannelForExternalIDs:  "push",
		SmallIcon:              "ic_stat_icon_notification",
		AndroidAccentColor:     "FFFF00CC",
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Error("onesignal: failed to encode notification body")
		return nil
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/notifications", bytes.NewReader(raw))
	if err != nil {
		logrus.WithError(err).Error("onesignal: failed to build send request")
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("onesignal: send request failed")
		return nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logrus.WithError(err).Error("onesignal: failed to read send response")
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(respBody),
		}).Error("onesignal: provider rejected send")
		return nil
	}

	var result SendResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		logrus.WithError(err).Error("onesignal: failed to decode send response")
		return nil
	}

	if result.Recipients == 0 {
		logrus.WithField("push_id", result.ID).Warn("onesignal: push accepted but delivered to zero recipients")
	}

	return &result
}

// Cancel withdraws a previously sent push. It is best-effort: an empty ID is
// a silent no-op and any provider error is logged and dropped.
func (c *Client) Cancel(providerID string) {
	if providerID == "" {
		return
	}

	url := fmt.Sprintf("%s/notifications/%s?app_id=%s", c.baseURL, providerID, c.appID)
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		logrus.WithError(err).Error("onesignal: failed to build cancel request")
		return
	}
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).WithField("push_id", providerID).Error("onesignal: cancel request failed")
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.WithFields(logrus.Fields{
			"status":  resp.StatusCode,
			"push_id": providerID,
		}).Error("onesignal: provider rejected cancel")
		return
	}

	logrus.WithField("push_id", providerID).Info("onesignal: push withdrawn")
}
