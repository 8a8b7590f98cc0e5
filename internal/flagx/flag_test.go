package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "http://localhost"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "double dash with equals",
			args:         []string{"--config=alt.toml", "-a", "http://localhost"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"--config=alt.toml"},
		},
		{
			name:         "double dash with separate value",
			args:         []string{"--config", "alt.json"},
			allowedFlags: []string{"-config"},
			want:         []string{"--config", "alt.json"},
		},
		{
			name:         "unknown flags and positionals ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-c", "-s", "session"},
			allowedFlags: []string{"-c", "-s"},
			want:         []string{"-c", "-s", "session"},
		},
		{
			name:         "repeated flag keeps order",
			args:         []string{"-a", "http://one", "-a", "http://two"},
			allowedFlags: []string{"-a"},
			want:         []string{"-a", "http://one", "-a", "http://two"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "/etc/safescan.json", ConfigFileFlag([]string{"-c", "/etc/safescan.json"}))
	assert.Equal(t, "cfg.toml", ConfigFileFlag([]string{"-a", "http://x", "-config", "cfg.toml"}))
	assert.Equal(t, "2.json", ConfigFileFlag([]string{"-c", "1.json", "-config", "2.json"}))
	assert.Empty(t, ConfigFileFlag([]string{"-x", "1"}))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, SplitList(" http://a, ,http://b ,"))
	assert.Empty(t, SplitList(""))
}
