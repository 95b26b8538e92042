package crudbridge_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrazmi/eventhub/bridge/scaffolding/crudbridge"
	"github.com/jrazmi/eventhub/bridge/scaffolding/errs"
	"github.com/jrazmi/eventhub/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/eventhub/bridge/scaffolding/mid"
	"github.com/jrazmi/eventhub/core/repositories"
	"github.com/jrazmi/eventhub/core/scaffolding/fop"
	"github.com/jrazmi/eventhub/infrastructure/web"
	"github.com/jrazmi/eventhub/sdk/logger"
)

type note struct {
	ID     string `db:"id" json:"id"`
	Author string `db:"author" json:"author"`
	Body   string `db:"body" json:"body"`
}

type createNote struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}

func (c createNote) Validate() error {
	if c.Body == "" {
		return errors.New("body is required")
	}
	return nil
}

type updateNote struct {
	Body *string `json:"body"`
}

type noteFilter struct {
	Author *string
}

var errLocked = errors.New("note is locked")

type notes struct {
	rows    []note
	orderBy fop.By
}

func (n *notes) find(id string) int {
	return slices.IndexFunc(n.rows, func(r note) bool { return r.ID == id })
}

func (n *notes) match(f noteFilter) []note {
	var out []note
	for _, r := range n.rows {
		if f.Author == nil || r.Author == *f.Author {
			out = append(out, r)
		}
	}
	return out
}

func (n *notes) Get(ctx context.Context, id string) (note, error) {
	if i := n.find(id); i >= 0 {
		return n.rows[i], nil
	}
	return note{}, fmt.Errorf("get note %s: %w", id, repositories.ErrNotFound)
}

func (n *notes) List(ctx context.Context, filter noteFilter, orderBy fop.By, page fop.PageStringCursor) ([]note, error) {
	n.orderBy = orderBy
	rows := n.match(filter)
	return rows[:min(len(rows), page.Limit)], nil
}

func (n *notes) Count(ctx context.Context, filter noteFilter) (int64, error) {
	return int64(len(n.match(filter))), nil
}

func (n *notes) Create(ctx context.Context, input createNote) (note, error) {
	r := note{ID: fmt.Sprintf("n%d", len(n.rows)+1), Author: input.Author, Body: input.Body}
	n.rows = append(n.rows, r)
	return r, nil
}

func (n *notes) Update(ctx context.Context, id string, input updateNote) (note, error) {
	i := n.find(id)
	if i < 0 {
		return note{}, repositories.ErrNotFound
	}
	if n.rows[i].Author == "locked" {
		return note{}, fmt.Errorf("update note %s: %w", id, errLocked)
	}
	if input.Body != nil {
		n.rows[i].Body = *input.Body
	}
	return n.rows[i], nil
}

func (n *notes) Delete(ctx context.Context, id string) error {
	i := n.find(id)
	if i < 0 {
		return repositories.ErrNotFound
	}
	n.rows = slices.Delete(n.rows, i, i+1)
	return nil
}

func (n *notes) Aggregate(ctx context.Context, filter noteFilter, spec fop.AggregateSpec) (fop.AggregateResult, error) {
	return fop.AggregateResult{Count: int64(len(n.match(filter)))}, nil
}

func (n *notes) GroupBy(ctx context.Context, by []string, filter noteFilter) ([]fop.Group, error) {
	if !slices.Equal(by, []string{"author"}) {
		return nil, fmt.Errorf("%w: %s", fop.ErrUnknownAggregateField, strings.Join(by, ","))
	}
	counts := map[string]int64{}
	var keys []string
	for _, r := range n.match(filter) {
		if counts[r.Author] == 0 {
			keys = append(keys, r.Author)
		}
		counts[r.Author]++
	}
	groups := make([]fop.Group, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, fop.Group{Keys: map[string]any{"author": k}, Count: counts[k]})
	}
	return groups, nil
}

func setup(t *testing.T) (*notes, http.Handler) {
	t.Helper()
	repo := &notes{rows: []note{
		{ID: "n1", Author: "ada", Body: "first"},
		{ID: "n2", Author: "ada", Body: "second"},
		{ID: "n3", Author: "locked", Body: "third"},
	}}

	log := logger.Discard()
	h, err := web.NewWebHandlerFromEnv("CRUDTEST", web.WithGlobalMiddleware(mid.Errors(log)))
	require.NoError(t, err)

	b := crudbridge.New(crudbridge.Config[note, createNote, updateNote, noteFilter]{
		Repository:   repo,
		Resource:     "notes",
		IDParam:      "note_id",
		OrderFields:  map[string]string{"body": "body"},
		DefaultOrder: fop.NewBy("id", fop.ASC),
		Filter: func(q *fopbridge.Query) noteFilter {
			return noteFilter{Author: q.String("author")}
		},
		Errors: func(err error) *errs.Error {
			if errors.Is(err, errLocked) {
				return errs.Newf(errs.FailedPrecondition, "%s", errLocked)
			}
			return nil
		},
	})
	b.AddRoutes(h.Group("/api"))
	return repo, h
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestList(t *testing.T) {
	repo, h := setup(t)

	w := do(h, http.MethodGet, "/api/notes?author=ada&limit=1&order=body,desc", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"records":[{"id":"n1","author":"ada","body":"first"}]`)
	assert.Contains(t, w.Body.String(), `"hasNext":true`)
	assert.Equal(t, fop.NewBy("body", fop.DESC), repo.orderBy)

	w = do(h, http.MethodGet, "/api/notes?order=secret", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "order")
}

func TestGet(t *testing.T) {
	_, h := setup(t)

	w := do(h, http.MethodGet, "/api/notes/n2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"record":{"id":"n2","author":"ada","body":"second"}}`, w.Body.String())

	w = do(h, http.MethodGet, "/api/notes/n9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"code":"not_found","message":"not found"}`, w.Body.String())
}

func TestCreate(t *testing.T) {
	repo, h := setup(t)

	w := do(h, http.MethodPost, "/api/notes", `{"author":"grace","body":"hello"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"record":{"id":"n4","author":"grace","body":"hello"}}`, w.Body.String())
	assert.Len(t, repo.rows, 4)

	w = do(h, http.MethodPost, "/api/notes", `{"author":"grace"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "body is required")

	w = do(h, http.MethodPost, "/api/notes", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdate(t *testing.T) {
	repo, h := setup(t)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		w := do(h, method, "/api/notes/n1", `{"body":"`+method+`"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, method, repo.rows[0].Body)
		assert.Equal(t, "ada", repo.rows[0].Author)
	}

	w := do(h, http.MethodPatch, "/api/notes/n3", `{"body":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"code":"failed_precondition","message":"note is locked"}`, w.Body.String())
}

func TestDelete(t *testing.T) {
	repo, h := setup(t)

	w := do(h, http.MethodDelete, "/api/notes/n1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Len(t, repo.rows, 2)

	w = do(h, http.MethodDelete, "/api/notes/n1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCountAggregateGroups(t *testing.T) {
	_, h := setup(t)

	w := do(h, http.MethodGet, "/api/notes/count?author=ada", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":2}`, w.Body.String())

	w = do(h, http.MethodGet, "/api/notes/aggregate", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"_count":3}`, w.Body.String())

	w = do(h, http.MethodGet, "/api/notes/groups?by=author", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"groups":[{"keys":{"author":"ada"},"_count":2},{"keys":{"author":"locked"},"_count":1}]}`, w.Body.String())

	w = do(h, http.MethodGet, "/api/notes/groups", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(h, http.MethodGet, "/api/notes/groups?by=body", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
