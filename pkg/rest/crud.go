package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strconv"

	apierr "github.com/opst/chronodemica/pkg/api/errors"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// query parameter value of the direction
func (d Direction) param() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

const DefaultLimit = 100

type ListOptions struct {
	Skip int

	// max number of rows. 0 means DefaultLimit.
	Limit int

	// Sorting is requested only when both of SortBy and SortDirection are set.
	SortBy        string
	SortDirection Direction

	// equality filters, like {"period_id": 3}. nil values are ignored.
	Filters map[string]any
}

func (o ListOptions) sorted() bool {
	return o.SortBy != "" && o.SortDirection != ""
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	limit := o.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	q.Set("skip", strconv.Itoa(o.Skip))
	q.Set("limit", strconv.Itoa(limit))
	if o.sorted() {
		q.Set("sort_by", o.SortBy)
		q.Set("sort_direction", o.SortDirection.param())
	}
	for k, v := range o.Filters {
		if s, ok := filterValue(v); ok {
			q.Set(k, s)
		}
	}
	return q
}

func filterValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	return fmt.Sprint(rv.Interface()), true
}

func unknownModel[T any](model Model) Result[T] {
	return Err[T](apierr.NewFailure(
		apierr.Unexpected, apierr.WithVerbose(fmt.Sprintf("unknown model: %d", int(model))),
	))
}

// Create registers a new entity of model.
//
// "id" and fields with null or empty string are not sent.
func Create[T any](ctx context.Context, c *Client, model Model, data any) Result[T] {
	if model.Path() == "" {
		return unknownModel[T](model)
	}
	body, err := stripForCreate(data)
	if err != nil {
		return Err[T](apierr.NewFailure(
			apierr.Unexpected,
			apierr.WithVerbose("cannot encode "+model.Name()),
			apierr.WithCause(err),
		))
	}
	return Decode[T](c.do(ctx, request{
		method: http.MethodPost,
		path:   []string{model.Path(), ""}, // with trailing slash
		body:   body,
	}))
}

func stripForCreate(data any) (any, error) {
	buf, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(buf, &fields); err != nil {
		// not an object. send as it is.
		return json.RawMessage(buf), nil
	}
	delete(fields, "id")
	for k, v := range fields {
		if bytes.Equal(v, []byte("null")) || bytes.Equal(v, []byte(`""`)) {
			delete(fields, k)
		}
	}
	return fields, nil
}

// List fetches entities of model.
//
// When sorting is requested, rows are also sorted locally after they are received,
// in case the server ignores the request. Rows without the sort key go last
// in both directions. Strings are compared in locale-aware manner.
func List[T any](ctx context.Context, c *Client, model Model, opts ListOptions) Result[[]T] {
	if model.Path() == "" {
		return unknownModel[[]T](model)
	}
	r := c.do(ctx, request{
		method: http.MethodGet,
		path:   []string{model.Path()},
		query:  opts.query(),
	})
	if !r.Success() || !opts.sorted() {
		return Decode[[]T](r)
	}

	sorted, err := sortRows(r.Data(), opts.SortBy, opts.SortDirection)
	if err != nil {
		return Err[[]T](apierr.NewFailure(
			apierr.Unexpected,
			apierr.WithVerbose(model.Name()+" list is not an array"),
			apierr.WithCause(err),
		))
	}
	return Decode[[]T](Ok(sorted))
}

func sortRows(raw json.RawMessage, key string, direction Direction) (json.RawMessage, error) {
	rows := []json.RawMessage{}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}

	keys := make([]any, len(rows))
	for i, row := range rows {
		fields := map[string]any{}
		dec := json.NewDecoder(bytes.NewReader(row))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			continue // not an object. it has no key.
		}
		keys[i] = fields[key]
	}

	coll := collate.New(language.Und)
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := keys[order[i]], keys[order[j]]
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		cmp := compareValues(coll, a, b)
		if direction == Descending {
			cmp = -cmp
		}
		return cmp < 0
	})

	sorted := make([]json.RawMessage, len(rows))
	for i, o := range order {
		sorted[i] = rows[o]
	}
	return json.Marshal(sorted)
}

// compareValues compares JSON values of the same type. Values of different types are equal.
func compareValues(coll *collate.Collator, a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return coll.CompareString(av, bv)
		}
	case json.Number:
		if bv, ok := b.(json.Number); ok {
			af, aerr := av.Float64()
			bf, berr := bv.Float64()
			if aerr != nil || berr != nil {
				return 0
			}
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	}
	return 0
}

func GetById[T any](ctx context.Context, c *Client, model Model, id int) Result[T] {
	if model.Path() == "" {
		return unknownModel[T](model)
	}
	return Decode[T](c.do(ctx, request{
		method: http.MethodGet,
		path:   []string{model.Path(), strconv.Itoa(id)},
	}))
}

// Update replaces fields of the entity with data.
func Update[T any](ctx context.Context, c *Client, model Model, id int, data any) Result[T] {
	if model.Path() == "" {
		return unknownModel[T](model)
	}
	return Decode[T](c.do(ctx, request{
		method: http.MethodPut,
		path:   []string{model.Path(), strconv.Itoa(id)},
		body:   data,
	}))
}

func Delete[T any](ctx context.Context, c *Client, model Model, id int) Result[T] {
	if model.Path() == "" {
		return unknownModel[T](model)
	}
	return Decode[T](c.do(ctx, request{
		method: http.MethodDelete,
		path:   []string{model.Path(), strconv.Itoa(id)},
	}))
}

// MaxPages is the max number of pages ListAll requests in one call.
const MaxPages = 1000

// ListAll fetches all entities of model matching opts.Filters, page by page.
//
// opts.Limit is the page size. Sorting options are ignored.
//
// Paging stops at a short page. It also stops, with a log line, when a page
// starts with the same row as the previous page (the server ignores skip),
// or after MaxPages pages. Rows read so far are returned in those cases.
func ListAll[T any](ctx context.Context, c *Client, model Model, opts ListOptions) Result[[]T] {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	opts.SortBy, opts.SortDirection = "", ""

	all := []json.RawMessage{}
	var head json.RawMessage
	for pages := 0; ; pages += 1 {
		if MaxPages <= pages {
			c.logger.Printf("%s: stop paging after %d pages", model, pages)
			break
		}
		r := List[json.RawMessage](ctx, c, model, opts)
		if !r.Success() {
			return Err[[]T](r.Failure())
		}
		page := r.Data()
		if 0 < len(page) && head != nil && bytes.Equal(page[0], head) {
			c.logger.Printf("%s: page at skip=%d repeats the previous page. server may ignore skip", model, opts.Skip)
			break
		}
		all = append(all, page...)
		if len(page) < opts.Limit {
			break
		}
		head = page[0]
		opts.Skip += len(page)
	}

	buf, err := json.Marshal(all)
	if err != nil {
		return Err[[]T](apierr.NewFailure(
			apierr.Unexpected,
			apierr.WithVerbose(model.Name()+" list cannot be merged"),
			apierr.WithCause(err),
		))
	}
	return Decode[[]T](Ok(json.RawMessage(buf)))
}
