package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/masterysheet/internal/mastery"
	"github.com/abhisek/masterysheet/internal/model"
	"github.com/abhisek/masterysheet/internal/sheet"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-Id"

// UpdateResult is the decoded response of a mastery update. A non-empty
// Error is an application-level rejection, not a transport failure.
type UpdateResult struct {
	RequestID string
	Error     string
	Skill     *model.CharacterSkill
}

// Client talks to the character skill backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UpdateMastery sends PATCH /character-skill/{id} with the new level.
// Only the "error" field of the response decides success.
func (c *Client) UpdateMastery(ctx context.Context, id sheet.SkillID, level mastery.Level) (*UpdateResult, error) {
	const op = "update mastery"

	body, err := json.Marshal(model.CharacterSkillUpdate{Mastery: level})
	if err != nil {
		return nil, fmt.Errorf("%s: encode body: %w", op, err)
	}

	requestID := uuid.New().String()
	status, raw, err := c.do(ctx, op, http.MethodPatch, skillPath(id), body, requestID)
	if err != nil {
		return nil, err
	}

	var envelope model.ErrorResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &ErrDecode{Op: op, StatusCode: status, Err: err}
	}

	result := &UpdateResult{RequestID: requestID, Error: envelope.Error}
	if result.Error == "" {
		var skill model.CharacterSkill
		if err := json.Unmarshal(raw, &skill); err == nil && skill.ID != 0 {
			result.Skill = &skill
		}
	}
	return result, nil
}

// GetSkill fetches a single character skill.
func (c *Client) GetSkill(ctx context.Context, id sheet.SkillID) (*model.CharacterSkill, error) {
	var skill model.CharacterSkill
	if err := c.getJSON(ctx, "get skill", skillPath(id), &skill); err != nil {
		return nil, err
	}
	return &skill, nil
}

// ListSkills returns every skill of a character.
func (c *Client) ListSkills(ctx context.Context, characterID uint) ([]model.CharacterSkill, error) {
	var skills []model.CharacterSkill
	if err := c.getJSON(ctx, "list skills", fmt.Sprintf("/character/%d/skills", characterID), &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

// History returns the recorded mastery changes of a skill, newest first.
func (c *Client) History(ctx context.Context, id sheet.SkillID) ([]model.MasteryChange, error) {
	var changes []model.MasteryChange
	if err := c.getJSON(ctx, "skill history", skillPath(id)+"/history", &changes); err != nil {
		return nil, err
	}
	return changes, nil
}

// CreateSkill adds a skill to a character.
func (c *Client) CreateSkill(ctx context.Context, in model.CharacterSkillCreate) (*model.CharacterSkill, error) {
	const op = "create skill"

	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("%s: encode body: %w", op, err)
	}
	status, raw, err := c.do(ctx, op, http.MethodPost, "/character-skill", body, uuid.New().String())
	if err != nil {
		return nil, err
	}
	if err := checkStatus(op, status, raw); err != nil {
		return nil, err
	}

	var skill model.CharacterSkill
	if err := json.Unmarshal(raw, &skill); err != nil {
		return nil, &ErrDecode{Op: op, StatusCode: status, Err: err}
	}
	return &skill, nil
}

// skillPath escapes the opaque skill id into a single path segment.
func skillPath(id sheet.SkillID) string {
	return "/character-skill/" + url.PathEscape(string(id))
}

func (c *Client) getJSON(ctx context.Context, op, path string, v any) error {
	status, raw, err := c.do(ctx, op, http.MethodGet, path, nil, uuid.New().String())
	if err != nil {
		return err
	}
	if err := checkStatus(op, status, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &ErrDecode{Op: op, StatusCode: status, Err: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte, requestID string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &ErrTransport{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &ErrTransport{Op: op, Err: err}
	}
	return resp.StatusCode, raw, nil
}

// checkStatus turns a non-2xx response into *ErrAPI.
func checkStatus(op string, status int, raw []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	var envelope model.ErrorResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return &ErrDecode{Op: op, StatusCode: status, Err: err}
	}
	if envelope.Error == "" {
		envelope.Error = http.StatusText(status)
	}
	return &ErrAPI{StatusCode: status, Message: envelope.Error}
}
