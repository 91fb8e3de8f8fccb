package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBanner(t *testing.T) {
	ts := newTestShell(t)

	banner := ts.Banner("1.2.3")
	lines := strings.Split(banner, "\n")

	assert.Len(t, lines, 7, banner)
	assert.True(t, strings.HasPrefix(lines[0], "╔"), lines[0])
	assert.Contains(t, banner, "Solix Custom Shell")
	assert.Contains(t, banner, "Version 1.2.3")
	assert.Contains(t, banner, "Built-in commands: cd, pwd, help, exit")
	assert.Contains(t, banner, "Type 'help' for more information")
	assert.NotContains(t, banner, "\x1b[", "color is disabled")
}
