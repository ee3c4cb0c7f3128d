package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion(t *testing.T) {
	cmd := Completion()

	require.NotNil(t, cmd)
	assert.Equal(t, "completion [bash|zsh|fish|powershell]", cmd.Use)
	assert.Equal(t, "Generate shell completion scripts", cmd.Short)
	assert.Equal(t, []string{"bash", "zsh", "fish", "powershell"}, cmd.ValidArgs)
	assert.True(t, cmd.DisableFlagsInUseLine)
}

func TestCompletion_Output(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			root := Root()
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})

			require.NoError(t, root.Execute())
			assert.Contains(t, out.String(), "missionctl")
		})
	}
}

func TestCompletion_InvalidArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown shell", []string{"completion", "invalid"}},
		{"no shell", []string{"completion"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := Root()
			root.SetOut(&bytes.Buffer{})
			root.SetArgs(tt.args)

			assert.Error(t, root.Execute())
		})
	}
}
