package ui

import (
	"testing"

	"github.com/easypatcher/easypatcher/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	for _, toPin := range []struct {
		answer   string
		expected []int
	}{
		{"", nil},
		{"   ", nil},
		{"1", []int{0}},
		{"1,3,5-7", []int{0, 2, 4, 5, 6}},
		{"7, 1 3", []int{0, 2, 6}},
		{"2-3,3,2", []int{1, 2}},
		{"all", []int{0, 1, 2, 3, 4, 5, 6, 7}},
		{"ALL", []int{0, 1, 2, 3, 4, 5, 6, 7}},
		{"8", []int{7}},
	} {
		testCase := toPin
		t.Run(testCase.answer, func(t *testing.T) {
			got, err := ParseSelection(testCase.answer, 8)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, got)
		})
	}
}

func TestParseSelectionInvalid(t *testing.T) {
	for _, answer := range []string{"0", "9", "x", "1-x", "3-1", "-2", "1-9"} {
		_, err := ParseSelection(answer, 8)
		assert.True(t, errors.Is(err, ErrInvalidSelection), answer)
	}
}
