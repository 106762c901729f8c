//go:build js && wasm

// Command wasm exposes the translator and its playback engine to a browser
// page as the global lottieEngine object.
package main

import (
	"encoding/json"
	"errors"
	"syscall/js"

	"github.com/inamate/inamate/lottiegen/internal/document"
	"github.com/inamate/inamate/lottiegen/internal/engine"
	"github.com/inamate/inamate/lottiegen/internal/issues"
	"github.com/inamate/inamate/lottiegen/internal/translate"
)

var (
	eng  = engine.NewEngine(translate.Options{})
	opts translate.Options
)

type handler func(args []js.Value) any

// exports is the lottieEngine API. Translation calls return a JSON report,
// playback calls return nothing, and queries return JSON strings or plain
// values.
var exports = map[string]handler{
	"translate":       translateDocument,
	"translateSample": translateSample,
	"setOptions":      setOptions,

	"seek":         seek,
	"seekProgress": func(args []js.Value) any { return arg(args, 0, eng.SetProgress) },
	"play":         func([]js.Value) any { eng.Play(); return nil },
	"pause":        func([]js.Value) any { eng.Pause(); return nil },
	"togglePlay":   func([]js.Value) any { eng.TogglePlay(); return nil },
	"tick":         func([]js.Value) any { return eng.Tick() },

	"select":          selectNodes,
	"hitTest":         hitTest,
	"render":          func([]js.Value) any { return eng.Render() },
	"selection":       func([]js.Value) any { return eng.GetSelection() },
	"selectionBounds": func([]js.Value) any { return eng.GetSelectionBounds() },
	"scene":           func([]js.Value) any { return eng.GetScene() },
	"issues":          func([]js.Value) any { return eng.GetIssues() },
	"playback":        func([]js.Value) any { return eng.GetPlaybackState() },
}

func main() {
	api := js.Global().Get("Object").New()
	for name, h := range exports {
		api.Set(name, js.FuncOf(func(_ js.Value, args []js.Value) any { return h(args) }))
	}
	js.Global().Set("lottieEngine", api)
	js.Global().Set("lottieWasmReady", js.ValueOf(true))

	select {}
}

// report is what translate returns to the page.
type report struct {
	Error    string               `json:"error,omitempty"`
	Code     issues.Code          `json:"code,omitempty"`
	Width    float64              `json:"width,omitempty"`
	Height   float64              `json:"height,omitempty"`
	Issues   []issues.Issue       `json:"issues"`
	Playback engine.PlaybackState `json:"playback"`
}

func (r report) String() string {
	if r.Issues == nil {
		r.Issues = []issues.Issue{}
	}
	data, _ := json.Marshal(r)
	return string(data)
}

func failure(err error) string {
	rep := report{Error: err.Error()}
	var unsupported *issues.UnsupportedError
	if errors.As(err, &unsupported) {
		rep.Code = unsupported.Issue.Code
	}
	return rep.String()
}

func load(comp *document.Composition) any {
	result, err := translate.Translate(comp, opts)
	if err != nil {
		return failure(err)
	}
	eng.Load(result)
	return report{
		Width:    result.Width,
		Height:   result.Height,
		Issues:   result.Issues,
		Playback: eng.PlaybackState(),
	}.String()
}

// translateDocument takes the document JSON and, optionally, options JSON
// that replace the current options.
func translateDocument(args []js.Value) any {
	if len(args) < 1 {
		return failure(errors.New("missing document JSON"))
	}
	if len(args) > 1 && args[1].Type() == js.TypeString {
		if rep := setOptions(args[1:]); rep != nil {
			return rep
		}
	}
	comp, err := document.Decode([]byte(args[0].String()))
	if err != nil {
		return failure(err)
	}
	return load(comp)
}

func translateSample([]js.Value) any {
	return load(document.NewSampleComposition())
}

func setOptions(args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	var next translate.Options
	if err := json.Unmarshal([]byte(args[0].String()), &next); err != nil {
		return failure(err)
	}
	opts = next
	eng.SetOptions(opts)
	return nil
}

func seek(args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.SetPlayhead(args[0].Int())
	return nil
}

func arg(args []js.Value, i int, set func(float64)) any {
	if len(args) > i {
		set(args[i].Float())
	}
	return nil
}

func selectNodes(args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		eng.SetSelection(nil)
		return nil
	}
	ids := make([]int, args[0].Length())
	for i := range ids {
		ids[i] = args[0].Index(i).Int()
	}
	eng.SetSelection(ids)
	return nil
}

func hitTest(args []js.Value) any {
	if len(args) < 2 {
		return 0
	}
	return eng.HitTest(args[0].Float(), args[1].Float())
}
