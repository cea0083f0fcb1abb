package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type webhookPayload struct {
	UserUUID  string    `json:"user_uuid"`
	NewIP     string    `json:"new_ip"`
	KnownIP   string    `json:"known_ip"`
	Timestamp time.Time `json:"timestamp"`
}

var client = &http.Client{Timeout: 10 * time.Second}

// NotifyWebhook отправляет POST-запрос о попытке входа с нового IP
func NotifyWebhook(webhookURL string, userUUID string, newIP string, knownIP string) error {
	if webhookURL == "" {
		return nil
	}

	payload := webhookPayload{
		UserUUID:  userUUID,
		NewIP:     newIP,
		KnownIP:   knownIP,
		Timestamp: time.Now().UTC(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации payload: %w", err)
	}

	resp, err := client.Post(webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ошибка отправки webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook вернул статус %d", resp.StatusCode)
	}

	return nil
}
