package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	out := strings.Builder{}
	err := run([]string{"x^2 - y,", "y^2 - x"}, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	require.Equal(t, "# ring x,y; ideal x^2 - y, -x + y^2", lines[0])
	require.Equal(t, "000001,0,-1,(3,3),{x^2 - y, y^2 - x}", lines[1])
	require.Equal(t, "# 3 cones", lines[4])
}

func TestRunBadInput(t *testing.T) {
	out := strings.Builder{}
	require.Error(t, run([]string{"x^2 + * y"}, &out))
	require.Error(t, run([]string{"0"}, &out))
}
