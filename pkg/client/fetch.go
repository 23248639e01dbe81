package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/DoyleJ11/sheet-sync/pkg/types"
)

var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx response from the HTTP API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Code, e.Message)
}

// Fetcher reads snapshots from the HTTP API.
type Fetcher struct {
	base  string
	token string
	http  *http.Client
}

// NewFetcher returns a Fetcher for baseURL (e.g. "http://host:8080"). An
// empty token sends no Authorization header.
func NewFetcher(baseURL, token string, hc *http.Client) *Fetcher {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Fetcher{base: strings.TrimRight(baseURL, "/"), token: token, http: hc}
}

func (f *Fetcher) Sheet(ctx context.Context, characterID int) (*types.Sheet, error) {
	var s types.Sheet
	if err := f.get(ctx, fmt.Sprintf("/characters/%d/sheet", characterID), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Portrait fetches the public name-and-status baseline.
func (f *Fetcher) Portrait(ctx context.Context, characterID int) (*types.Sheet, error) {
	var s types.Sheet
	if err := f.get(ctx, fmt.Sprintf("/characters/%d/portrait", characterID), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (f *Fetcher) Characters(ctx context.Context) ([]types.Character, error) {
	var cs []types.Character
	if err := f.get(ctx, "/characters", &cs); err != nil {
		return nil, err
	}
	return cs, nil
}

func (f *Fetcher) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.base+path, nil)
	if err != nil {
		return err
	}
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		serr := &StatusError{Code: resp.StatusCode, Message: body.Error}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("get %s: %w: %w", path, ErrNotFound, serr)
		}
		return fmt.Errorf("get %s: %w", path, serr)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
