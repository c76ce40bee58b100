package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMasterSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil", nil, []string{}},
		{"empty", []string{}, []string{}},
		{"keeps order", []string{"my_bot", "my_nickname"}, []string{"my_bot", "my_nickname"}},
		{"drops duplicates", []string{"a", "b", "a", "c", "b"}, []string{"a", "b", "c"}},
		{"case variants are distinct", []string{"Admin", "admin"}, []string{"Admin", "admin"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewMasterSet(tt.input)
			assert.Equal(t, tt.want, s.Names())
			assert.Equal(t, len(tt.want), s.Len())
		})
	}
}

func TestMasterSet_Contains(t *testing.T) {
	t.Parallel()

	s := NewMasterSet([]string{"my_bot", "my_nickname"})

	tests := []struct {
		nick string
		want bool
	}{
		{"my_bot", true},
		{"my_nickname", true},
		{"MY_BOT", false},
		{"my_bot ", false},
		{"stranger", false},
		{"", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.nick, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, s.Contains(tt.nick), "Contains(%q)", tt.nick)
		})
	}
}

func TestMasterSet_NamesReturnsCopy(t *testing.T) {
	t.Parallel()

	input := []string{"alice", "bob"}
	s := NewMasterSet(input)

	input[0] = "mallory"
	names := s.Names()
	names[1] = "eve"

	assert.Equal(t, []string{"alice", "bob"}, s.Names())
	assert.False(t, s.Contains("mallory"))
}

func TestMasterSet_ZeroValue(t *testing.T) {
	t.Parallel()

	var s MasterSet
	assert.False(t, s.Contains("anyone"))
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Names())
}
