package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// KPIValue holds a KPI that the API sends as either a string or a number.
type KPIValue string

func (v *KPIValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = KPIValue(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	*v = KPIValue(data)
	return nil
}

type KPI struct {
	Label string   `json:"label"`
	Value KPIValue `json:"value"`
}

type TimelineItem struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

type ProjectDetail struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	KPIs     []KPI          `json:"kpis"`
	Timeline []TimelineItem `json:"timeline"`
}

// ListProjects returns the projects visible to the session. ErrNotFound
// means the API has nothing for this user yet.
func (c *Client) ListProjects(ctx context.Context, session *http.Cookie) ([]Project, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/projects", nil, session)
	if err != nil {
		return nil, err
	}

	var projects []Project
	if err := c.doJSON(req, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject returns one project with its KPIs and timeline. A 404 or an
// empty body is ErrNotFound.
func (c *Client) GetProject(ctx context.Context, session *http.Cookie, id string) (*ProjectDetail, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/projects/"+url.PathEscape(id), nil, session)
	if err != nil {
		return nil, err
	}

	var project *ProjectDetail
	if err := c.doJSON(req, &project); err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	return project, nil
}
