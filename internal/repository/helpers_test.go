package repository_test

import (
	"errors"

	"github.com/google/go-cmp/cmp/cmpopts"
)

var cmpEmptySlices = cmpopts.EquateEmpty()

func errorIs(err, target error) bool {
	return errors.Is(err, target)
}
