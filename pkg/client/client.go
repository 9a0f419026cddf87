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
)

// Relay is a client of relay's REST API.
type Relay interface {
	Fire(ctx context.Context, req *FireRequest) (*Pipeline, error)
	ListTriggers(ctx context.Context, projectID string, page, perPage int) ([]*Trigger, error)
	CreateTrigger(ctx context.Context, projectID, description string) (*Trigger, error)
	DeleteTrigger(ctx context.Context, projectID, triggerID string) error
}

// APIError is returned for non-2xx responses.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("relay responded %d: %s", e.Status, strings.TrimSpace(e.Body))
}

type FireRequest struct {
	ProjectID string            `json:"-"`
	Token     string            `json:"token"`
	Ref       string            `json:"ref,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
	// ScopedRef targets the ref scoped endpoint instead of the
	// body ref.
	ScopedRef string `json:"-"`
}

type Pipeline struct {
	ID                    string    `json:"id" yaml:"id"`
	Ref                   string    `json:"ref" yaml:"ref"`
	SHA                   string    `json:"sha" yaml:"sha"`
	Source                string    `json:"source" yaml:"source"`
	Status                string    `json:"status" yaml:"status"`
	TriggeredByPipelineID *string   `json:"triggered_by_pipeline_id" yaml:"triggered_by_pipeline_id,omitempty"`
	CreatedAt             time.Time `json:"created_at" yaml:"created_at"`
}

type Trigger struct {
	ID          string    `json:"id" yaml:"id"`
	Token       string    `json:"token" yaml:"token"`
	Description string    `json:"description" yaml:"description"`
	OwnerID     *string   `json:"owner_id" yaml:"owner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

type client struct {
	server string
	token  string
	http   *http.Client
}

// Client returns a Relay for server. privateToken authenticates
// registry calls and may be empty for pipeline triggers.
func Client(server, privateToken string) Relay {
	return &client{
		server: strings.TrimSuffix(server, "/"),
		token:  privateToken,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *client) Fire(ctx context.Context, req *FireRequest) (*Pipeline, error) {
	path := fmt.Sprintf("/v1/projects/%v/trigger/pipeline", url.PathEscape(req.ProjectID))
	if req.ScopedRef != "" {
		path = fmt.Sprintf(
			"/v1/projects/%v/ref/%v/trigger/pipeline",
			url.PathEscape(req.ProjectID),
			url.PathEscape(req.ScopedRef),
		)
	}

	pipeline := &Pipeline{}
	return pipeline, c.do(ctx, http.MethodPost, path, req, pipeline)
}

func (c *client) ListTriggers(ctx context.Context, projectID string, page, perPage int) ([]*Trigger, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if perPage > 0 {
		q.Set("per_page", fmt.Sprint(perPage))
	}

	path := fmt.Sprintf("/v1/projects/%v/triggers", url.PathEscape(projectID))
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var triggers []*Trigger
	return triggers, c.do(ctx, http.MethodGet, path, nil, &triggers)
}

func (c *client) CreateTrigger(ctx context.Context, projectID, description string) (*Trigger, error) {
	path := fmt.Sprintf("/v1/projects/%v/triggers", url.PathEscape(projectID))

	trigger := &Trigger{}
	return trigger, c.do(ctx, http.MethodPost, path, map[string]string{"description": description}, trigger)
}

func (c *client) DeleteTrigger(ctx context.Context, projectID, triggerID string) error {
	path := fmt.Sprintf("/v1/projects/%v/triggers/%v", url.PathEscape(projectID), url.PathEscape(triggerID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.server+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("PRIVATE-TOKEN", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: string(buf)}
	}

	if out == nil || len(buf) == 0 {
		return nil
	}

	return json.Unmarshal(buf, out)
}
