package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solixos/solixsh/core/vos/vostest"
)

func TestPwd(t *testing.T) {
	cases := goldenTestSuite{
		"root": {Args: []string{"pwd"}},
	}

	cases.Run(t, Pwd)
}

func TestPwd_dir(t *testing.T) {
	cmd := vostest.Command(Pwd, "pwd")
	cmd.Dir = "/root"

	out, err := cmd.CombinedOutput()
	assert.NoError(t, err)
	assert.Equal(t, "/root\n", string(out))
}
