package breeze

import (
	"net/url"
	"strconv"
	"time"

	"github.com/breeze-go/breeze/coerce"
)

// API paths below the instance URL.
const (
	pathPeople        = "/api/people"
	pathProfileFields = "/api/profile"
	pathEvents        = "/api/events"
	pathAttendance    = "/api/events/attendance"
	pathGiving        = "/api/giving"
	pathFunds         = "/api/funds"
	pathPledges       = "/api/pledges"
	pathForms         = "/api/forms"
	pathTags          = "/api/tags"
	pathVolunteers    = "/api/volunteers"
	pathAccount       = "/api/account"
)

// Listings known to be slow get a longer per-attempt timeout.
const slowTimeout = 180 * time.Second

// query builds url.Values while skipping unset parameters.
type query url.Values

func (q query) str(key, v string) query {
	if v != "" {
		q[key] = []string{v}
	}
	return q
}

func (q query) id(key string, v int64) query {
	if v != 0 {
		q[key] = []string{strconv.FormatInt(v, 10)}
	}
	return q
}

func (q query) num(key string, v int) query {
	if v > 0 {
		q[key] = []string{strconv.Itoa(v)}
	}
	return q
}

// flag sets key=1 when v is true.
func (q query) flag(key string, v bool) query {
	if v {
		q[key] = []string{"1"}
	}
	return q
}

// detailsFlag always sends details, since the service's default differs
// between endpoints.
func (q query) detailsFlag(v bool) query {
	if v {
		q["details"] = []string{"1"}
	} else {
		q["details"] = []string{"0"}
	}
	return q
}

func (q query) date(key string, t time.Time, f coerce.DateFormat) query {
	if !t.IsZero() {
		q[key] = []string{coerce.Format(t, f)}
	}
	return q
}

// ids joins ids with "-", the separator the giving endpoints expect.
func (q query) ids(key string, ids []int64) query {
	if len(ids) == 0 {
		return q
	}
	b := make([]byte, 0, len(ids)*6)
	for i, id := range ids {
		if i > 0 {
			b = append(b, '-')
		}
		b = strconv.AppendInt(b, id, 10)
	}
	q[key] = []string{string(b)}
	return q
}

func (q query) values() url.Values { return url.Values(q) }

func idPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}
