package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

const SignatureHeader = "X-Line-Signature"

type WebhookPayload struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

type Event struct {
	Type            string          `json:"type"`
	WebhookEventID  string          `json:"webhookEventId"`
	ReplyToken      string          `json:"replyToken"`
	Timestamp       int64           `json:"timestamp"`
	Source          EventSource     `json:"source"`
	Message         *EventMessage   `json:"message,omitempty"`
	DeliveryContext DeliveryContext `json:"deliveryContext"`
}

type DeliveryContext struct {
	IsRedelivery bool `json:"isRedelivery"`
}

type EventSource struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

type EventMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// VerifySignature checks the base64 HMAC-SHA256 of the raw request body.
// An empty secret never verifies.
func VerifySignature(channelSecret string, body []byte, signature string) bool {
	if channelSecret == "" || signature == "" {
		return false
	}
	got, err := base64.StdEncoding.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// Sign produces the signature LINE would send for body.
func Sign(channelSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ParseConnectCommand recognises "connect <username>" in any letter case.
func ParseConnectCommand(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "connect") {
		return "", false
	}
	return fields[1], true
}
