package directory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ListPage fetches up to limit records starting at skip, projected to fields.
func (c *Client) ListPage(ctx context.Context, limit, skip int, fields []string) (Page, error) {
	if limit < 0 || skip < 0 {
		return Page{}, errors.New("directory list: limit and skip must be non-negative")
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("skip", strconv.Itoa(skip))
	if len(fields) > 0 {
		query.Set("select", strings.Join(fields, ","))
	}

	var page Page
	if err := c.do(ctx, "list_page", http.MethodGet, "/users", query, nil, &page); err != nil {
		return Page{}, err
	}
	if page.Records == nil {
		page.Records = []Record{}
	}
	return page, nil
}

// Get fetches a single record.
func (c *Client) Get(ctx context.Context, id int64) (Record, error) {
	var rec Record
	if err := c.do(ctx, "get", http.MethodGet, recordPath(id), nil, nil, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Create adds a record. The remote assigns the identifier and may omit some of
// the submitted fields from its response.
func (c *Client) Create(ctx context.Context, in RecordInput) (Record, error) {
	var rec Record
	if err := c.do(ctx, "create", http.MethodPost, "/users/add", nil, in, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Update replaces the writable fields of a record.
func (c *Client) Update(ctx context.Context, id int64, in RecordInput) (Record, error) {
	var rec Record
	if err := c.do(ctx, "update", http.MethodPut, recordPath(id), nil, in, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Delete removes a record. Callers only rely on success or failure.
func (c *Client) Delete(ctx context.Context, id int64) (Record, error) {
	var rec Record
	if err := c.do(ctx, "delete", http.MethodDelete, recordPath(id), nil, nil, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func recordPath(id int64) string {
	return fmt.Sprintf("/users/%s", url.PathEscape(strconv.FormatInt(id, 10)))
}
