package vkapi

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/vk-fetch/internal/domain"
)

// Remote method names used by the convenience operations.
const (
	MethodFriendsGet      = "friends.get"
	MethodPhotosGetAlbums = "photos.getAlbums"
)

type friendsPayload struct {
	Count int             `json:"count"`
	Items []domain.Friend `json:"items"`
}

type albumsPayload struct {
	Count int            `json:"count"`
	Items []domain.Album `json:"items"`
}

// FetchFriends returns the user's friends as "First Last" strings in the
// order the API listed them. Unlike GetFriends it reports failures.
func (c *Client) FetchFriends(ctx context.Context, userID string) ([]string, error) {
	raw, err := c.Call(ctx, MethodFriendsGet, Params{
		"user_id": userID,
		"fields":  "first_name,last_name",
	})
	if err != nil {
		return nil, err
	}

	var payload friendsPayload
	if err := decodePayload(MethodFriendsGet, raw, &payload); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(payload.Items))
	for _, f := range payload.Items {
		names = append(names, f.DisplayName())
	}
	return names, nil
}

// GetFriends is FetchFriends that never fails: an APIError is printed to the
// diagnostics writer and an empty list is returned.
func (c *Client) GetFriends(ctx context.Context, userID string) []string {
	names, err := c.FetchFriends(ctx, userID)
	if err != nil {
		c.reportDegraded("friends", MethodFriendsGet, userID, err)
		return []string{}
	}
	return names
}

// FetchAlbums returns the titles of the user's photo albums in API order.
func (c *Client) FetchAlbums(ctx context.Context, userID string) ([]string, error) {
	raw, err := c.Call(ctx, MethodPhotosGetAlbums, Params{
		"owner_id": userID,
	})
	if err != nil {
		return nil, err
	}

	var payload albumsPayload
	if err := decodePayload(MethodPhotosGetAlbums, raw, &payload); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(payload.Items))
	for _, a := range payload.Items {
		titles = append(titles, a.Title)
	}
	return titles, nil
}

// GetAlbums is the degrading counterpart of FetchAlbums.
func (c *Client) GetAlbums(ctx context.Context, userID string) []string {
	titles, err := c.FetchAlbums(ctx, userID)
	if err != nil {
		c.reportDegraded("albums", MethodPhotosGetAlbums, userID, err)
		return []string{}
	}
	return titles
}

func (c *Client) reportDegraded(subject, method, userID string, err error) {
	fmt.Fprintf(c.diag, "Error fetching %s: %v\n", subject, err)
	c.log.WarnObj("vk fetch returned no results", "vk_fetch_error", map[string]any{
		"method":  method,
		"user_id": userID,
		"error":   err.Error(),
	})
}
