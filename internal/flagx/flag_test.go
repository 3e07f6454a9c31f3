package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		owned []string
		want  []string
	}{
		{
			name:  "separate value",
			args:  []string{"-a", "http://backend:8000", "-x", "1"},
			owned: []string{"a"},
			want:  []string{"-a", "http://backend:8000"},
		},
		{
			name:  "equals form",
			args:  []string{"-s=vault.db", "-a", "http://h"},
			owned: []string{"s"},
			want:  []string{"-s=vault.db"},
		},
		{
			name:  "double dash matches single dash name",
			args:  []string{"--config=alt.json", "-c", "other.json"},
			owned: []string{"c", "config"},
			want:  []string{"--config=alt.json", "-c", "other.json"},
		},
		{
			name:  "unknown flags and positionals ignored",
			args:  []string{"-x", "1", "--y=2", "positional"},
			owned: []string{"c"},
			want:  []string{},
		},
		{
			name:  "flag at the end keeps no value",
			args:  []string{"-t"},
			owned: []string{"t"},
			want:  []string{"-t"},
		},
		{
			name:  "next flag is not taken as value",
			args:  []string{"-l", "-t", "3"},
			owned: []string{"l", "t"},
			want:  []string{"-l", "-t", "3"},
		},
		{
			name:  "empty args",
			args:  nil,
			owned: []string{"a"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.owned...))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "cfg.json", ConfigPath([]string{"-a", "x", "-c", "cfg.json"}))
	assert.Equal(t, "long.json", ConfigPath([]string{"-config=long.json"}))
	assert.Equal(t, "", ConfigPath([]string{"-a", "x"}))
}
