package nbaapi

import (
	"fmt"
	"strconv"
	"strings"
)

// response is the stats API envelope. Most endpoints return resultSets; a
// few return a single resultSet.
type response struct {
	ResultSets []resultSet `json:"resultSets"`
	ResultSet  *resultSet  `json:"resultSet"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// set returns the named result set, or the first one when name is empty.
func (r *response) set(name string) (*resultSet, error) {
	sets := r.ResultSets
	if r.ResultSet != nil {
		sets = append(sets, *r.ResultSet)
	}
	for i := range sets {
		if name == "" || sets[i].Name == name {
			return &sets[i], nil
		}
	}
	return nil, fmt.Errorf("result set %q not in response", name)
}

// row is one rowSet entry addressed by header name.
type row struct {
	index  map[string]int
	values []any
}

func (s *resultSet) rows() []row {
	index := make(map[string]int, len(s.Headers))
	for i, h := range s.Headers {
		index[strings.ToUpper(h)] = i
	}
	out := make([]row, len(s.RowSet))
	for i, v := range s.RowSet {
		out[i] = row{index: index, values: v}
	}
	return out
}

func (r row) raw(col string) any {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return nil
	}
	return r.values[i]
}

func (r row) str(col string) string {
	switch v := r.raw(col).(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// numPtr returns nil for null or non-numeric cells.
func (r row) numPtr(col string) *float64 {
	switch v := r.raw(col).(type) {
	case float64:
		return &v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func (r row) num(col string) float64 {
	if p := r.numPtr(col); p != nil {
		return *p
	}
	return 0
}

func (r row) id(col string) int64 {
	return int64(r.num(col))
}

// minutes accepts both decimal minutes and "MM:SS".
func (r row) minutes(col string) float64 {
	if s, ok := r.raw(col).(string); ok && strings.Contains(s, ":") {
		mm, ss, _ := strings.Cut(s, ":")
		m, _ := strconv.ParseFloat(mm, 64)
		sec, _ := strconv.ParseFloat(ss, 64)
		return m + sec/60
	}
	return r.num(col)
}
