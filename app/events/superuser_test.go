package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuperUsers_IsSuper(t *testing.T) {
	tests := []struct {
		name     string
		super    SuperUsers
		userName string
		userID   int64
		want     bool
	}{
		{name: "by name", super: SuperUsers{"Alice", "Bob"}, userName: "alice", want: true},
		{name: "not in list", super: SuperUsers{"Alice", "Bob"}, userName: "Charlie", userID: 3, want: false},
		{name: "with at prefix", super: SuperUsers{"@Alice"}, userName: "Alice", want: true},
		{name: "by id", super: SuperUsers{"Alice", "12345"}, userName: "other", userID: 12345, want: true},
		{name: "no name and id", super: SuperUsers{"Alice"}, want: false},
		{name: "empty list allows all", super: nil, userName: "anyone", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.super.IsSuper(tt.userName, tt.userID))
		})
	}
}
