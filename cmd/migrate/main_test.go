package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_List(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"-list"}, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "0001_create_expenses  "))
	assert.True(t, strings.HasPrefix(lines[1], "0002_create_audit_logs  "))
}

func TestRun_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	var out bytes.Buffer
	err := run(context.Background(), nil, &out)
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestRun_BadFlag(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"-nope"}, &out)
	assert.Error(t, err)
}
