package commands

import (
	"testing"
)

func TestClear(t *testing.T) {
	cases := goldenTestSuite{
		"no-arg": {Args: []string{"clear"}},
	}

	cases.Run(t, Clear)
}
