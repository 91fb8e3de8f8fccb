package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/solixos/solixsh/core/config"
)

const (
	defaultUser     = "root"
	defaultHostname = "solix"
)

// hostname is replaceable in tests.
var hostname = os.Hostname

// colorEnabled reports whether shell messages are colored.
func (s *Shell) colorEnabled() bool {
	switch s.Config.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return s.VirtualOS.GetPTY().IsPTY
	}
}

func (s *Shell) newColor(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if s.colorEnabled() {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (s *Shell) infoColor() *color.Color {
	return s.newColor(color.FgBlue, color.Bold)
}

// Prompt renders the PS1 template:
//
//	\u  the value of USER, or root
//	\h  the host name
//	\w  the last two elements of the working directory
//	\$  a literal $
func (s *Shell) Prompt() string {
	template := s.VirtualOS.Getenv(EnvPrompt)
	if template == "" {
		template = s.Config.Prompt
	}

	user := s.VirtualOS.Getenv(EnvUser)
	if user == "" {
		user = defaultUser
	}

	host, err := hostname()
	if err != nil || host == "" {
		host = defaultHostname
	}

	cwd := "unknown"
	if wd, err := s.VirtualOS.Getwd(); err == nil {
		cwd = shortenPath(wd)
	}

	green := s.newColor(color.FgGreen, color.Bold)
	blue := s.newColor(color.FgBlue, color.Bold)
	replacer := strings.NewReplacer(
		`\u`, green.Sprint(user),
		`\h`, green.Sprint(host),
		`\w`, blue.Sprint(cwd),
		`\$`, "$",
	)
	return replacer.Replace(template)
}

// shortenPath keeps the last two elements of an absolute path.
func shortenPath(dir string) string {
	dir = filepath.Clean(dir)
	parts := strings.Split(strings.Trim(dir, "/"), "/")
	if len(parts) <= 2 {
		return dir
	}
	return filepath.Join(parts[len(parts)-2:]...)
}
