package dataset

import (
	"strconv"
	"strings"
	"time"

	"github.com/okian/skillpulse/internal/domain/model"
)

// Column names recognized in every source. Unknown columns are ignored and
// missing ones read as empty.
const (
	colTitle       = "title"
	colLocation    = "location"
	colSkills      = "skills"
	colDescription = "description"
	colPostedDate  = "posted_date"
)

// columnIndex maps known column names to their position in a row.
type columnIndex map[string]int

func indexColumns(names []string) columnIndex {
	idx := make(columnIndex, len(names))
	for i, n := range names {
		n = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(n, "\ufeff")))
		if _, dup := idx[n]; !dup {
			idx[n] = i
		}
	}
	return idx
}

func (c columnIndex) record(row []string) model.JobRecord {
	get := func(name string) string {
		if i, ok := c[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}
	return model.NewJobRecord(get(colTitle), get(colLocation), get(colSkills), get(colDescription), get(colPostedDate))
}

// stringify renders a database value as text. Dates keep day precision unless
// they carry a time of day.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.RFC3339)
	default:
		return ""
	}
}
