// Package backend is an in-memory fake of the collection API, for tests.
//
// It serves CRUD endpoints for every resource, and canned responses
// for statistics and simulation endpoints. Sorting requests are ignored,
// like a server not supporting them.
package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/opst/chronodemica/pkg/config/profiles"
	"github.com/opst/chronodemica/pkg/rest"
	"github.com/opst/chronodemica/pkg/utils/try"
)

const ApiRoot = "/api/v1"

type row = map[string]any

type failure struct {
	status int
	detail string
}

type Backend struct {
	mu sync.Mutex

	tables   map[string][]row
	nextId   map[string]int
	canned   map[string]any
	failures map[string]failure
	calls    []string

	server *httptest.Server
}

// New starts a fake server. It is closed when the test ends.
func New(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		tables:   map[string][]row{},
		nextId:   map[string]int{},
		canned:   map[string]any{},
		failures: map[string]failure{},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	setLogLevel(e)

	api := e.Group(ApiRoot, logRequests, b.record)
	api.GET("/statistics/*", b.cannedHandler("statistics"))
	api.GET("/simulation/*", b.cannedHandler("simulation"))
	api.POST("/simulation/*", b.cannedHandler("simulation"))
	api.GET("/data-structure/:model", b.cannedHandler("data-structure"))
	api.GET("/:resource", b.list)
	api.POST("/:resource/", b.create)
	api.GET("/:resource/:id", b.get)
	api.PUT("/:resource/:id", b.update)
	api.DELETE("/:resource/:id", b.delete)

	b.server = httptest.NewServer(e)
	t.Cleanup(b.server.Close)
	return b
}

func (b *Backend) Profile() *profiles.Profile {
	return &profiles.Profile{ApiRoot: b.server.URL + ApiRoot}
}

func (b *Backend) Client(t *testing.T, options ...rest.Option) *rest.Client {
	t.Helper()
	return try.To(rest.NewClient(b.Profile(), options...)).OrFatal(t)
}

// Close stops the server. Requests after that fail as network errors.
func (b *Backend) Close() {
	b.server.Close()
}

// Seed stores entities of model. Entities without id get new ids.
func (b *Backend) Seed(model rest.Model, entities ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range entities {
		b.insert(model.Path(), toRow(e))
	}
}

// Canned sets a response for GET/POST of the path, like "/statistics/period/3/pop-size".
func (b *Backend) Canned(path string, body any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.canned[strings.TrimSuffix(path, "/")] = body
}

// FailOn makes requests to "{METHOD} {path}" fail with status and detail message.
//
// path is under the api root, like "/pop/2".
func (b *Backend) FailOn(method string, path string, status int, detail string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, detail: detail}
}

// Calls returns requests received so far, like "GET /pop/1".
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string{}, b.calls...)
}

// CallsTo counts requests starting with prefix, like "PUT /pop-period".
func (b *Backend) CallsTo(prefix string) int {
	n := 0
	for _, c := range b.Calls() {
		if strings.HasPrefix(c, prefix) {
			n += 1
		}
	}
	return n
}

// Rows returns stored entities of model, in insertion order.
func (b *Backend) Rows(model rest.Model) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]row{}, b.tables[model.Path()]...)
}

func (b *Backend) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		key := req.Method + " " + strings.TrimPrefix(req.URL.Path, ApiRoot)

		b.mu.Lock()
		b.calls = append(b.calls, key)
		f, ok := b.failures[key]
		b.mu.Unlock()

		if ok {
			return c.JSON(f.status, map[string]string{"detail": f.detail})
		}
		return next(c)
	}
}

func toRow(v any) row {
	buf, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return decodeRow(bytes.NewReader(buf))
}

func decodeRow(r io.Reader) row {
	ret := row{}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&ret); err != nil {
		return nil
	}
	return ret
}

// b.mu should be locked.
func (b *Backend) insert(resource string, r row) row {
	id, ok := r["id"]
	if !ok || fmt.Sprint(id) == "0" {
		b.nextId[resource] += 1
		r["id"] = json.Number(strconv.Itoa(b.nextId[resource]))
	} else if n, err := strconv.Atoi(fmt.Sprint(id)); err == nil && b.nextId[resource] < n {
		b.nextId[resource] = n
	}
	b.tables[resource] = append(b.tables[resource], r)
	return r
}

// b.mu should be locked.
func (b *Backend) find(resource string, id string) (int, bool) {
	for i, r := range b.tables[resource] {
		if fmt.Sprint(r["id"]) == id {
			return i, true
		}
	}
	return 0, false
}

func notFound(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"detail": resource + " not found"})
}

func (b *Backend) list(c echo.Context) error {
	resource := c.Param("resource")
	query := c.QueryParams()

	skip, _ := strconv.Atoi(query.Get("skip"))
	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil {
		limit = rest.DefaultLimit
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	matched := []row{}
rows:
	for _, r := range b.tables[resource] {
		for k := range query {
			switch k {
			case "skip", "limit", "sort_by", "sort_direction":
				continue
			}
			if fmt.Sprint(r[k]) != query.Get(k) {
				continue rows
			}
		}
		matched = append(matched, r)
	}

	if skip < len(matched) {
		matched = matched[skip:]
	} else {
		matched = []row{}
	}
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return c.JSON(http.StatusOK, matched)
}

func (b *Backend) create(c echo.Context) error {
	r := decodeRow(c.Request().Body)
	if r == nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "validation error: body is not an object"})
	}
	delete(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	return c.JSON(http.StatusOK, b.insert(c.Param("resource"), r))
}

func (b *Backend) get(c echo.Context) error {
	resource := c.Param("resource")

	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.find(resource, c.Param("id"))
	if !ok {
		return notFound(c, resource)
	}
	return c.JSON(http.StatusOK, b.tables[resource][i])
}

func (b *Backend) update(c echo.Context) error {
	resource := c.Param("resource")
	change := decodeRow(c.Request().Body)
	if change == nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "validation error: body is not an object"})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.find(resource, c.Param("id"))
	if !ok {
		return notFound(c, resource)
	}
	updated := row{}
	for k, v := range b.tables[resource][i] {
		updated[k] = v
	}
	for k, v := range change {
		if k == "id" {
			continue
		}
		updated[k] = v
	}
	b.tables[resource][i] = updated
	return c.JSON(http.StatusOK, updated)
}

func (b *Backend) delete(c echo.Context) error {
	resource := c.Param("resource")

	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.find(resource, c.Param("id"))
	if !ok {
		return notFound(c, resource)
	}
	deleted := b.tables[resource][i]
	b.tables[resource] = append(b.tables[resource][:i:i], b.tables[resource][i+1:]...)
	return c.JSON(http.StatusOK, deleted)
}

func (b *Backend) cannedHandler(prefix string) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := strings.TrimSuffix(strings.TrimPrefix(c.Request().URL.Path, ApiRoot), "/")

		b.mu.Lock()
		body, ok := b.canned[path]
		b.mu.Unlock()

		if !ok {
			return c.JSON(http.StatusNotFound, map[string]string{"detail": prefix + " not found"})
		}
		return c.JSON(http.StatusOK, body)
	}
}
