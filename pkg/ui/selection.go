package ui

import (
	"sort"
	"strconv"
	"strings"

	"github.com/easypatcher/easypatcher/pkg/errors"
)

// ErrInvalidSelection is returned for an unparsable multi-selection
var ErrInvalidSelection = errors.New("invalid selection")

// ParseSelection reads a multi-selection over n items, such as "1,3,5-7" or "all".
// Choices are 1-based. The result is 0-based, sorted and without duplicates.
// An empty answer selects nothing.
func ParseSelection(answer string, n int) ([]int, error) {
	answer = strings.TrimSpace(answer)
	switch strings.ToLower(answer) {
	case "":
		return nil, nil
	case "all", "*":
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	seen := make(map[int]struct{})
	fields := strings.FieldsFunc(answer, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	for _, field := range fields {
		from, to, err := parseRange(field)
		if err != nil {
			return nil, err
		}
		if from < 1 || to > n || from > to {
			return nil, ErrInvalidSelection.Wrapf("%q is out of range 1-%d", field, n)
		}
		for i := from; i <= to; i++ {
			seen[i-1] = struct{}{}
		}
	}

	res := make([]int, 0, len(seen))
	for i := range seen {
		res = append(res, i)
	}
	sort.Ints(res)
	return res, nil
}

func parseRange(field string) (int, int, error) {
	lo, hi := field, field
	if i := strings.Index(field, "-"); i > 0 {
		lo, hi = field[:i], field[i+1:]
	}
	from, err := strconv.Atoi(lo)
	if err != nil {
		return 0, 0, ErrInvalidSelection.Wrapf("%q", field)
	}
	to, err := strconv.Atoi(hi)
	if err != nil {
		return 0, 0, ErrInvalidSelection.Wrapf("%q", field)
	}
	return from, to, nil
}
