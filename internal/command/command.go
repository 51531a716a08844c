// Package command defines the closed set of regmsgd verbs and encodes them
// into single-line daemon requests.
package command

import "strings"

// Verb is a daemon request keyword. The string value is the exact keyword
// sent on the wire.
type Verb string

const (
	ListModes          Verb = "listModes"
	ListOutputs        Verb = "listOutputs"
	CurrentMode        Verb = "currentMode"
	CurrentOutput      Verb = "currentOutput"
	CurrentResolution  Verb = "currentResolution"
	CurrentRotation    Verb = "currentRotation"
	CurrentRefresh     Verb = "currentRefresh"
	CurrentBackend     Verb = "currentBackend"
	SetMode            Verb = "setMode"
	SetOutput          Verb = "setOutput"
	SetRotation        Verb = "setRotation"
	GetScreenshot      Verb = "getScreenshot"
	MapTouchScreen     Verb = "mapTouchScreen"
	MinToMaxResolution Verb = "minToMaxResolution"
)

// Rotations are the only payload values setRotation accepts.
var Rotations = []string{"0", "90", "180", "270"}

// Spec describes one verb for CLI registration: whether it takes a leading
// payload token and, if so, what that token is called and which values it
// admits.
type Spec struct {
	Verb        Verb
	Summary     string
	TakesValue  bool
	ValueName   string
	ValidValues []string
}

// Specs enumerates every daemon verb. The slice is rebuilt per call so
// callers cannot mutate the shared definition.
func Specs() []Spec {
	return []Spec{
		{Verb: ListModes, Summary: "List all available display modes"},
		{Verb: ListOutputs, Summary: "List all available display outputs"},
		{Verb: CurrentMode, Summary: "Show the current display mode"},
		{Verb: CurrentOutput, Summary: "Show the current output"},
		{Verb: CurrentResolution, Summary: "Show the current resolution"},
		{Verb: CurrentRotation, Summary: "Show the current screen rotation"},
		{Verb: CurrentRefresh, Summary: "Show the current refresh rate"},
		{Verb: CurrentBackend, Summary: "Show the current window system"},
		{Verb: SetMode, Summary: "Set the display mode", TakesValue: true, ValueName: "mode"},
		{Verb: SetOutput, Summary: "Set the output resolution and refresh rate (WxH or WxH@R)", TakesValue: true, ValueName: "output"},
		{Verb: SetRotation, Summary: "Set the screen rotation", TakesValue: true, ValueName: "rotation", ValidValues: Rotations},
		{Verb: GetScreenshot, Summary: "Take a screenshot of the current screen"},
		{Verb: MapTouchScreen, Summary: "Map the touchscreen to the matching display"},
		{Verb: MinToMaxResolution, Summary: "Switch to the maximum supported resolution"},
	}
}

// Command pairs a verb with its payload. Arity is fixed at construction:
// the three set verbs carry exactly one payload token, every other verb is
// nullary.
type Command struct {
	verb    Verb
	payload string
}

// New builds a nullary command.
func New(v Verb) Command {
	return Command{verb: v}
}

// NewWithPayload builds a command carrying one payload token.
func NewWithPayload(v Verb, payload string) Command {
	return Command{verb: v, payload: payload}
}

// Verb returns the command's wire keyword.
func (c Command) Verb() Verb {
	return c.verb
}

// Context carries the per-invocation modifiers attached to one command:
// an optional target screen and the trailing raw tokens forwarded to the
// daemon untouched.
type Context struct {
	Screen string
	Args   []string
}

// Encode renders the single-line request sent to the daemon. The order is
// fixed: keyword, payload, screen modifier, trailing args. Values pass
// through verbatim; the daemon grammar has no quoting rule, so tokens with
// embedded whitespace must be rejected before they reach this point.
func Encode(cmd Command, ctx Context) string {
	var b strings.Builder
	b.WriteString(string(cmd.verb))
	if cmd.payload != "" {
		b.WriteByte(' ')
		b.WriteString(cmd.payload)
	}
	if ctx.Screen != "" {
		b.WriteString(" --screen ")
		b.WriteString(ctx.Screen)
	}
	if len(ctx.Args) > 0 {
		b.WriteByte(' ')
		b.WriteString(strings.Join(ctx.Args, " "))
	}
	return b.String()
}
