package process

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome_Status(t *testing.T) {
	cases := map[string]struct {
		outcome Outcome
		want    int
		str     string
	}{
		"success": {outcome: Exited(0), want: 0, str: "exited(0)"},
		"failure": {outcome: Exited(127), want: 127, str: "exited(127)"},
		"sigint":  {outcome: Killed(syscall.SIGINT), want: 130, str: "signaled(interrupt)"},
		"sigkill": {outcome: Killed(syscall.SIGKILL), want: 137, str: "signaled(killed)"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.outcome.Status())
			assert.Equal(t, tc.str, tc.outcome.String())
		})
	}
}

func lookSh(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func run(t *testing.T, spec Spec) (Outcome, error) {
	t.Helper()
	proc, err := OSSpawner{}.Start(context.Background(), spec)
	require.NoError(t, err)
	assert.NotZero(t, proc.Pid())
	return proc.Wait()
}

func TestOSSpawner(t *testing.T) {
	sh := lookSh(t)
	dir := t.TempDir()

	cases := map[string]struct {
		script     string
		stdin      string
		want       Outcome
		wantStdout string
	}{
		"exit code":   {script: "exit 3", want: Exited(3)},
		"stdout":      {script: "echo hi", want: Exited(0), wantStdout: "hi\n"},
		"stdin":       {script: "read line; echo got $line", stdin: "abc\n", want: Exited(0), wantStdout: "got abc\n"},
		"environment": {script: "echo $SOLIX_TEST", want: Exited(0), wantStdout: "value\n"},
		"directory":   {script: "pwd", want: Exited(0), wantStdout: dir + "\n"},
		"signaled":    {script: "kill -TERM $$", want: Killed(syscall.SIGTERM)},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			stdout := &bytes.Buffer{}
			got, err := run(t, Spec{
				Path:   sh,
				Argv:   []string{"sh", "-c", tc.script},
				Dir:    dir,
				Env:    []string{"SOLIX_TEST=value"},
				Stdin:  strings.NewReader(tc.stdin),
				Stdout: stdout,
			})

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantStdout, stdout.String())
		})
	}
}

func TestOSSpawner_startFailure(t *testing.T) {
	_, err := OSSpawner{}.Start(context.Background(), Spec{
		Path: "/nonexistent/solix-test",
		Argv: []string{"solix-test"},
	})
	assert.True(t, errors.Is(err, ErrCouldNotStart), "got %v", err)
}
