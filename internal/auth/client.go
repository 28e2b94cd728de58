package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client проверяет токены во внешнем сервисе идентификации.
// Сам сервис (выдача сессий, пользователи) — внешний коллаборатор.
type Client struct {
	addr       string
	httpClient *http.Client
}

func NewClient(cfg *Config) *Client {
	return &Client{
		addr: cfg.AuthAddr,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type verifyResponse struct {
	User struct {
		ID string `json:"id"`
	} `json:"user"`
}

// VerifyToken обменивает Authorization-заголовок на id пользователя
func (c *Client) VerifyToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("no authorization header")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.addr+"/v1/verify", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token verification failed: status %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("invalid auth service response: %w", err)
	}
	if body.User.ID == "" {
		return "", fmt.Errorf("auth service returned empty user id")
	}

	return body.User.ID, nil
}
