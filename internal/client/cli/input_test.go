package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("hello world\n"))

	got, err := GetSimpleText(reader, "Say something", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Contains(t, out.String(), "Say something")
}

func TestGetSimpleText_EOFWithPartialLine(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("partial"))

	got, err := GetSimpleText(reader, "Prompt", &out)
	require.NoError(t, err)
	assert.Equal(t, "partial", got)
}

func TestGetSimpleText_TrimsWhitespace(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("  padded  \n"))

	got, err := GetSimpleText(reader, "Prompt", &out)
	require.NoError(t, err)
	assert.Equal(t, "padded", got)
}

func TestGetPassword_UsesTerminalReader(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(fd int) ([]byte, error) {
		return []byte("sekret"), nil
	}

	var out bytes.Buffer
	pw, err := GetPassword("Enter password", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("sekret"), pw)
	assert.Contains(t, out.String(), "Enter password")
}

func TestPositionalArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"no flags", []string{"upload", "g1", "file.txt"}, []string{"upload", "g1", "file.txt"}},
		{"flag with value", []string{"-a", "http://x", "groups"}, []string{"groups"}},
		{"flag with equals", []string{"-a=http://x", "groups"}, []string{"groups"}},
		{"mixed", []string{"-c", "cfg.json", "invite", "g1", "u1"}, []string{"invite", "g1", "u1"}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, positionalArgs(tt.args))
		})
	}
}
