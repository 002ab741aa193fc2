package conjure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/conjure/ir"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string][]string
		want    Options
		wantErr bool
	}{
		{
			name:   "empty",
			values: nil,
			want:   Options{},
		},
		{
			name: "all options",
			values: map[string][]string{
				"safety-declarations": {"required"},
				"strict":              {"true"},
				"version":             {"1"},
			},
			want: Options{SafetyDeclarations: SafetyRequired, Strict: true, Version: 1},
		},
		{
			name:    "unknown safety mode",
			values:  map[string][]string{"safety-declarations": {"sometimes"}},
			wantErr: true,
		},
		{
			name:    "negative version",
			values:  map[string][]string{"version": {"-1"}},
			wantErr: true,
		},
		{
			name:    "not a number",
			values:  map[string][]string{"version": {"one"}},
			wantErr: true,
		},
		{
			name:    "unknown key",
			values:  map[string][]string{"color": {"blue"}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptions(tt.values)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid options")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptions_Defaults(t *testing.T) {
	var o Options
	assert.Equal(t, ir.SupportedVersion, o.version())
	assert.False(t, o.requireSafety())

	o = Options{Version: 3, SafetyDeclarations: SafetyRequired}
	assert.Equal(t, 3, o.version())
	assert.True(t, o.requireSafety())
}
