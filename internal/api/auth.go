// Package api holds the one external authentication collaborator this
// engine calls itself: the session-server profile lookup. Performing the
// MSA device-code / Xbox Live / XSTS flow to obtain an access token in
// the first place is out of scope; callers hand the launcher a
// pre-obtained token.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ProfileURL is the Mojang session-server profile endpoint.
const ProfileURL = "https://sessionserver.mojang.com/session/minecraft/profile/"

// Profile is the subset of the session-server response a launch needs to
// populate GameOptions.Authentication (player name and UUID).
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Skins []struct {
		ID      string `json:"id"`
		State   string `json:"state"`
		URL     string `json:"url"`
		Variant string `json:"variant"`
	} `json:"skins"`
}

// ProfileClient looks up the Minecraft profile bound to an access token.
type ProfileClient struct {
	httpClient *http.Client
}

// NewProfileClient builds a ProfileClient with a sensible default timeout.
func NewProfileClient() *ProfileClient {
	return &ProfileClient{httpClient: &http.Client{Timeout: 30 * time.Second}}
}

// FetchProfile resolves accessToken to its bound profile (uuid, name,
// skins), used to populate a launch's auth_player_name/auth_uuid
// substitution bindings from a token a caller already obtained elsewhere.
func (c *ProfileClient) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	return c.fetchFrom(ctx, ProfileURL, accessToken)
}

func (c *ProfileClient) fetchFrom(ctx context.Context, url, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api: fetch profile: unexpected status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("api: decoding profile: %w", err)
	}
	return &profile, nil
}
