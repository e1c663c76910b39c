package utils

import (
	"errors"
	"strconv"
)

// ParsePositiveInt parses s as a positive integer, erroring on anything else
func ParsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, errors.New("must be positive")
	}
	return n, nil
}
