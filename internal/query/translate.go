// Package query turns an accumulated request context into the query
// parameters expected by the card/deck API.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"hsbot/internal/request"
)

// ErrEmptyRequest is returned when no filter is set. The API must not be
// called in that case: an unconstrained query would fetch everything.
var ErrEmptyRequest = errors.New("empty request")

// wireDateLayout is the mm/dd/yyyy form the API expects.
const wireDateLayout = "01/02/2006"

// Params is a translated outbound query.
type Params map[string]string

// Values encodes p for an HTTP query string.
func (p Params) Values() url.Values {
	v := url.Values{}
	for k, val := range p {
		v.Set(k, val)
	}
	return v
}

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Translate maps the filters of kind k in c to API parameters:
//   - numeric stats expand to <field>_min and <field>_max, both equal to the value
//   - list fields are comma joined
//   - dates are rewritten from dd.mm.yyyy to mm/dd/yyyy
//   - unset fields are omitted
func Translate(k request.Kind, c *request.Context) (Params, error) {
	params := Params{}
	for _, f := range request.Fields(k) {
		if !c.IsSet(f) {
			continue
		}
		switch {
		case f.Numeric():
			v := c.Value(f)
			params[string(f)+"_min"] = v
			params[string(f)+"_max"] = v
		case f.Multi():
			params[string(f)] = strings.Join(c.Values(f), ",")
		case f.Input() == request.InputDate:
			d, err := time.Parse(request.DateLayout, c.Value(f))
			if err != nil {
				// Dates are validated on entry; a bad one here is a defect.
				return nil, fmt.Errorf("translate %s: stored date %q: %w", f, c.Value(f), err)
			}
			params[string(f)] = d.Format(wireDateLayout)
		default:
			params[string(f)] = c.Value(f)
		}
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: no %s filters set", ErrEmptyRequest, k)
	}
	return params, nil
}
