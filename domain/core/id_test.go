package core

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestNewIDOrdering checks that v7 IDs sort in creation order
func TestNewIDOrdering(t *testing.T) {
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = NewID().String()
	}
	assert.True(t, sort.StringsAreSorted(ids))
}

func TestIDIsEmpty(t *testing.T) {
	assert.True(t, ID("").IsEmpty())
	assert.False(t, NewID().IsEmpty())
	assert.Equal(t, "test-123", ID("test-123").String())
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{"canonical", "0190a6e0-0000-7000-8000-000000000001", "0190a6e0-0000-7000-8000-000000000001", false},
		{"upper case is normalized", "0190A6E0-0000-7000-8000-00000000000A", "0190a6e0-0000-7000-8000-00000000000a", false},
		{"blank", "  ", "", true},
		{"not a uuid", "run-1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
