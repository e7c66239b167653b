package plan

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"mediakit/internal/toolerr"
	"mediakit/internal/util"
)

func TestPlanIsImmutable(t *testing.T) {
	args := []string{"-i", "in.mp4", "-y", "out.mp4"}
	p := New("ffmpeg", args, "out.mp4")

	args[1] = "changed.mp4"
	got := p.Args()
	got[0] = "-x"

	assert.Equal(t, []string{"-i", "in.mp4", "-y", "out.mp4"}, p.Args())
	assert.Equal(t, "out.mp4", p.ExpectedOutputPath())
}

func TestBuilderGuards(t *testing.T) {
	p := NewBuilder("ffmpeg").
		Opt("-i", "in.wav").
		OptIf(false, "-b:a", "192k").
		OptIf(true, "-ar", "44100").
		FlagIf(false, "-vn").
		Flag("-y", "out.mp3").
		Build("out.mp3")

	assert.Equal(t, []string{"-i", "in.wav", "-ar", "44100", "-y", "out.mp3"}, p.Args())
	v, ok := p.Value("-ar")
	assert.True(t, ok)
	assert.Equal(t, "44100", v)
	assert.False(t, p.Contains("-vn"))
}

func TestPlanYAML(t *testing.T) {
	p := New("ffmpeg", []string{"-i", "a b.mp4", "-y", "out.mp4"}, "out.mp4")
	data, err := yaml.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "ffmpeg", decoded["program"])
	assert.Equal(t, "out.mp4", decoded["output"])
	assert.Equal(t, "ffmpeg -i 'a b.mp4' -y out.mp4", decoded["command"])
}

type scriptedRunner struct {
	res util.CmdResult
	err error
}

func (s scriptedRunner) Run(ctx context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	return s.res, s.err
}

func TestRun(t *testing.T) {
	p := New("ffmpeg", []string{"-version"}, "")

	t.Run("success", func(t *testing.T) {
		r := scriptedRunner{res: util.CmdResult{Stdout: []byte("ffmpeg version 6"), Started: true}}
		res, err := Run(context.Background(), r, p, ExecOptions{})
		require.NoError(t, err)
		assert.True(t, res.Succeeded)
		assert.Equal(t, "ffmpeg version 6", res.Stdout)
	})

	t.Run("non-zero exit is a result, not an error", func(t *testing.T) {
		r := scriptedRunner{
			res: util.CmdResult{Stderr: []byte("Invalid data found"), Code: 1, Started: true},
			err: fmt.Errorf("command failed (exit 1): %w", errors.New("exit status 1")),
		}
		res, err := Run(context.Background(), r, p, ExecOptions{})
		require.NoError(t, err)
		assert.False(t, res.Succeeded)
		assert.Equal(t, 1, res.ExitCode)
		assert.Equal(t, "Invalid data found", res.Stderr)
	})

	t.Run("missing binary", func(t *testing.T) {
		r := scriptedRunner{
			res: util.CmdResult{Code: -1},
			err: &exec.Error{Name: "ffmpeg", Err: exec.ErrNotFound},
		}
		_, err := Run(context.Background(), r, p, ExecOptions{})
		assert.True(t, errors.Is(err, toolerr.ErrToolMissing))
	})
}
