package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeNullaryIsBareKeyword(t *testing.T) {
	got := Encode(New(ListModes), Context{})
	require.Equal(t, "listModes", got)
	require.Equal(t, strings.TrimSpace(got), got)
}

func TestEncodePayloadVerbatim(t *testing.T) {
	got := Encode(NewWithPayload(SetMode, "1920x1080"), Context{})
	require.Equal(t, "setMode 1920x1080", got)
}

func TestEncodeScreenModifier(t *testing.T) {
	got := Encode(New(CurrentMode), Context{Screen: "HDMI1"})
	require.Equal(t, "currentMode --screen HDMI1", got)
}

func TestEncodeTrailingArgs(t *testing.T) {
	got := Encode(New(ListOutputs), Context{Args: []string{"--verbose", "2"}})
	require.Equal(t, "listOutputs --verbose 2", got)
}

func TestEncodeFixedOrder(t *testing.T) {
	cmd := NewWithPayload(SetOutput, "1280x720@60")
	ctx := Context{Screen: "DP-2", Args: []string{"--dry-run", "now"}}
	require.Equal(t, "setOutput 1280x720@60 --screen DP-2 --dry-run now", Encode(cmd, ctx))
}

func TestEncodeMatrix(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		ctx  Context
		want string
	}{
		{
			name: "rotation payload",
			cmd:  NewWithPayload(SetRotation, "270"),
			want: "setRotation 270",
		},
		{
			name: "screenshot with screen",
			cmd:  New(GetScreenshot),
			ctx:  Context{Screen: "VGA-1"},
			want: "getScreenshot --screen VGA-1",
		},
		{
			name: "touch mapping plain",
			cmd:  New(MapTouchScreen),
			want: "mapTouchScreen",
		},
		{
			name: "payload then trailing args without screen",
			cmd:  NewWithPayload(SetMode, "640x480"),
			ctx:  Context{Args: []string{"--force"}},
			want: "setMode 640x480 --force",
		},
		{
			name: "nullary with screen and trailing args",
			cmd:  New(CurrentRefresh),
			ctx:  Context{Screen: "HDMI2", Args: []string{"--raw"}},
			want: "currentRefresh --screen HDMI2 --raw",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Encode(tc.cmd, tc.ctx))
		})
	}
}

func TestSpecsCoverEveryVerbExactlyOnce(t *testing.T) {
	wantKeywords := []string{
		"listModes", "listOutputs", "currentMode", "currentOutput",
		"currentResolution", "currentRotation", "currentRefresh",
		"currentBackend", "setMode", "setOutput", "setRotation",
		"getScreenshot", "mapTouchScreen", "minToMaxResolution",
	}

	specs := Specs()
	require.Len(t, specs, len(wantKeywords))

	seen := make(map[Verb]bool, len(specs))
	for i, spec := range specs {
		require.Equal(t, wantKeywords[i], string(spec.Verb))
		require.False(t, seen[spec.Verb], "duplicate verb %s", spec.Verb)
		seen[spec.Verb] = true
	}
}

func TestKeywordsHaveNoPrefixCollisions(t *testing.T) {
	specs := Specs()
	for _, a := range specs {
		for _, b := range specs {
			if a.Verb == b.Verb {
				continue
			}
			require.False(t, strings.HasPrefix(string(a.Verb), string(b.Verb)),
				"%s is a prefix of %s", b.Verb, a.Verb)
		}
	}
}

func TestOnlySetVerbsTakeValues(t *testing.T) {
	for _, spec := range Specs() {
		takesValue := spec.Verb == SetMode || spec.Verb == SetOutput || spec.Verb == SetRotation
		require.Equal(t, takesValue, spec.TakesValue, "verb %s", spec.Verb)
		if spec.Verb == SetRotation {
			require.Equal(t, []string{"0", "90", "180", "270"}, spec.ValidValues)
		} else {
			require.Empty(t, spec.ValidValues, "verb %s", spec.Verb)
		}
	}
}
