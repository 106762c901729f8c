package engine

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/inamate/inamate/lottiegen/internal/document"
	"github.com/inamate/inamate/lottiegen/internal/scene"
	"github.com/inamate/inamate/lottiegen/internal/translate"
)

const defaultFPS = 30

// Engine plays back a translated composition. It owns the playhead and the
// retained scene graph, and answers render and hit-test queries.
// An Engine is not safe for concurrent use.
type Engine struct {
	opts     translate.Options
	result   *translate.Result
	programs *Programs

	// Retained scene graph
	sceneGraph *SceneGraph

	// Playback state
	frame       int
	playing     bool
	fps         float64
	totalFrames int

	selection []int

	// Dirty flag - scene graph needs rebuild
	dirty bool
}

// NewEngine creates an engine that translates documents with opts.
func NewEngine(opts translate.Options) *Engine {
	return &Engine{
		opts:     opts,
		programs: NewPrograms(),
		fps:      defaultFPS,
		dirty:    true,
	}
}

// --- Commands ---

// SetOptions sets the translation options for documents loaded after it.
func (e *Engine) SetOptions(opts translate.Options) {
	e.opts = opts
}

// LoadDocument decodes a composition from its JSON interchange form,
// translates it and resets playback.
func (e *Engine) LoadDocument(jsonData string) error {
	comp, err := document.Decode([]byte(jsonData))
	if err != nil {
		return err
	}
	result, err := translate.Translate(comp, e.opts)
	if err != nil {
		return fmt.Errorf("translate document: %w", err)
	}
	e.Load(result)
	return nil
}

// LoadSampleDocument loads the built-in sample composition.
func (e *Engine) LoadSampleDocument() error {
	result, err := translate.Translate(document.NewSampleComposition(), e.opts)
	if err != nil {
		return fmt.Errorf("translate sample: %w", err)
	}
	e.Load(result)
	return nil
}

// Load plays an already translated composition from its first frame.
func (e *Engine) Load(result *translate.Result) {
	e.result = result
	e.fps = result.FrameRate
	if e.fps <= 0 {
		e.fps = defaultFPS
	}
	e.totalFrames = max(1, int(math.Ceil(result.Duration)))
	e.frame = 0
	e.playing = false
	e.selection = nil
	e.sceneGraph = nil
	e.dirty = true
}

// SetPlayhead sets the current frame, relative to the composition's in
// point.
func (e *Engine) SetPlayhead(frame int) {
	frame = max(0, min(frame, e.totalFrames-1))
	if e.frame != frame {
		e.frame = frame
		e.dirty = true
	}
}

// SetProgress moves the playhead to the frame nearest to progress.
func (e *Engine) SetProgress(progress float64) {
	if e.result == nil {
		return
	}
	e.SetPlayhead(int(math.Round(progress * e.result.Duration)))
}

// Play starts playback.
func (e *Engine) Play() {
	e.playing = true
}

// Pause stops playback.
func (e *Engine) Pause() {
	e.playing = false
}

// TogglePlay toggles play/pause state.
func (e *Engine) TogglePlay() {
	e.playing = !e.playing
}

// SetSelection sets the selected node ids.
func (e *Engine) SetSelection(ids []int) {
	e.selection = ids
}

// Advance moves to the next frame, wrapping at the end, if playing.
func (e *Engine) Advance() {
	if e.playing && e.totalFrames > 0 {
		e.frame = (e.frame + 1) % e.totalFrames
		e.dirty = true
	}
}

// Tick advances the frame if playing and returns draw commands.
func (e *Engine) Tick() string {
	e.Advance()
	return e.Render()
}

// --- Queries ---

// Progress is the root progress of the current frame.
func (e *Engine) Progress() float64 {
	if e.result == nil || e.result.Duration <= 0 {
		return 0
	}
	return math.Min(1, float64(e.frame)/e.result.Duration)
}

// SceneGraph evaluates the scene at the playhead, rebuilding only when the
// playhead moved.
func (e *Engine) SceneGraph() (*SceneGraph, error) {
	if e.result == nil {
		return nil, nil
	}
	if e.dirty || e.sceneGraph == nil {
		st := Evaluate(e.result.Root, e.Progress(), e.programs)
		sg, err := BuildSceneGraph(st, e.result.Root, e.result.Width, e.result.Height)
		if err != nil {
			return nil, err
		}
		e.sceneGraph = sg
		e.dirty = false
	}
	return e.sceneGraph, nil
}

// Commands returns the draw commands of the current frame.
func (e *Engine) Commands() ([]DrawCommand, error) {
	sg, err := e.SceneGraph()
	if err != nil {
		return nil, err
	}
	return CompileDrawCommands(sg), nil
}

// Render evaluates the scene graph and returns draw commands as JSON. A
// frame that cannot be evaluated renders as an empty list.
func (e *Engine) Render() string {
	commands, err := e.Commands()
	if err != nil {
		return "[]"
	}
	result, _ := DrawCommandsToJSON(commands)
	return result
}

// HitTest returns the id of the topmost painted node at the given
// coordinates, or 0.
func (e *Engine) HitTest(x, y float64) int {
	sg, err := e.SceneGraph()
	if err != nil {
		return 0
	}
	return HitTest(sg, x, y)
}

// GetSelectionBounds returns the bounding box of the current selection as JSON.
func (e *Engine) GetSelectionBounds() string {
	sg, err := e.SceneGraph()
	if err != nil || sg == nil || len(e.selection) == 0 {
		return RectToJSON(Rect{})
	}
	return RectToJSON(Bounds(sg, e.selection))
}

// GetSelection returns the selected node ids as JSON.
func (e *Engine) GetSelection() string {
	if e.selection == nil {
		return "[]"
	}
	data, _ := json.Marshal(e.selection)
	return string(data)
}

// GetScene returns the structural dump of the translated scene as JSON.
func (e *Engine) GetScene() string {
	if e.result == nil {
		return "{}"
	}
	data, err := scene.MarshalJSON(e.result.Root)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// GetIssues returns the translation issues as JSON.
func (e *Engine) GetIssues() string {
	if e.result == nil {
		return "[]"
	}
	data, _ := json.Marshal(e.result.Issues)
	return string(data)
}

// PlaybackState is the playhead as reported to clients.
type PlaybackState struct {
	Frame       int     `json:"frame"`
	Progress    float64 `json:"progress"`
	Playing     bool    `json:"playing"`
	FPS         float64 `json:"fps"`
	TotalFrames int     `json:"totalFrames"`
}

func (e *Engine) PlaybackState() PlaybackState {
	return PlaybackState{
		Frame:       e.frame,
		Progress:    e.Progress(),
		Playing:     e.playing,
		FPS:         e.fps,
		TotalFrames: e.totalFrames,
	}
}

// GetPlaybackState returns the current playback state as JSON.
func (e *Engine) GetPlaybackState() string {
	data, _ := json.Marshal(e.PlaybackState())
	return string(data)
}

// GetFrame returns the current frame number.
func (e *Engine) GetFrame() int {
	return e.frame
}

// IsPlaying returns whether playback is active.
func (e *Engine) IsPlaying() bool {
	return e.playing
}

// GetFPS returns the frames per second.
func (e *Engine) GetFPS() float64 {
	return e.fps
}

// GetTotalFrames returns the total number of frames.
func (e *Engine) GetTotalFrames() int {
	return e.totalFrames
}
