package notation

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func TestRenderOnsets_Golden(t *testing.T) {
	g := goldie.New(t)

	tests := []struct {
		name   string
		text   string
		parse  func(string) (Pat, error)
		cycles int
	}{
		{"gates_seq", "1 2 3 4", ParseGates, 1},
		{"gates_euclid", "1(3,8)", ParseGates, 1},
		{"sounds_alternation", "<bd sn> hh", ParseSounds, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.parse(tt.text)
			require.NoError(t, err)
			g.Assert(t, tt.name, []byte(RenderOnsets(p, tt.cycles)))
		})
	}
}
