/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: metrics_writer_test.go
Description: Tests for synthesis run records.
*/

package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWriteRunRecord tests the timestamped record layout
func TestWriteRunRecord(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(cwd)

	path, err := WriteRunRecord(&RunRecord{
		PlanID:     "plan-1",
		Validated:  true,
		Lang:       "python",
		InputRows:  4,
		OutputRows: 2,
		DurationMS: 12,
		Version:    "1.0.0",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("metrics", "synthesis"), filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_synthesis_v1.0.0.json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var record RunRecord
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "plan-1", record.PlanID)
	assert.True(t, record.Validated)
	assert.Equal(t, "python", record.Lang)
	assert.False(t, record.WrittenAt.IsZero())
}
