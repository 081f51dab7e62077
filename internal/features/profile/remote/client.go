package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"academy-backend/internal/features/profile/models"
)

// Client talks to the externally owned profile API, the first (preferred)
// tier of the sync chain.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      token,
	}
}

// Configured reports whether a base URL was provided. An unconfigured client
// is skipped by the sync chain.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

type ensureRequest struct {
	WalletAddress string  `json:"wallet_address"`
	DisplayName   string  `json:"display_name,omitempty"`
	Squad         *string `json:"squad,omitempty"`
}

// EnsureProfile asks the remote API to create-or-merge the profile for the
// wallet and returns the stored record.
func (c *Client) EnsureProfile(ctx context.Context, wallet string, hints models.SyncHints) (*models.UserProfile, error) {
	body, err := json.Marshal(ensureRequest{
		WalletAddress: wallet,
		DisplayName:   hints.DisplayName,
		Squad:         hints.Squad,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ensure request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/profiles/ensure", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("profile API returned status %d: %s", resp.StatusCode, snippet)
	}

	var profile models.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile API response: %w", err)
	}
	if profile.WalletAddress == "" {
		profile.WalletAddress = wallet
	}
	return &profile, nil
}

// GetProfile reads a profile by wallet from the remote API.
func (c *Client) GetProfile(ctx context.Context, wallet string) (*models.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/profiles/"+wallet, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("profile not found for wallet %s", wallet)
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("profile API returned status %d: %s", resp.StatusCode, snippet)
	}

	var profile models.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile API response: %w", err)
	}
	return &profile, nil
}
