package document

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeAppliesDefaults(t *testing.T) {
	src := `{
		"name": "c", "width": 100, "height": 100, "inPoint": 0, "outPoint": 10, "fps": 30,
		"layers": [
			{"ty": "shape", "name": "s", "index": 1, "outPoint": 10, "contents": [
				{"ty": "rectangle", "size": {"value": {"x": 10, "y": 20}}},
				{"ty": "fill", "color": {"value": {"a": 1, "r": 1, "g": 0, "b": 0}}},
				{"ty": "trimPath"}
			]}
		]
	}`
	c, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(c.Layers) != 1 {
		t.Fatalf("got %d layers, want 1", len(c.Layers))
	}
	sl, ok := c.Layers[0].(*ShapeLayer)
	if !ok {
		t.Fatalf("got %T, want *ShapeLayer", c.Layers[0])
	}
	if got := sl.Transform.Scale.InitialValue; got != Uniform3(100) {
		t.Errorf("default scale: got %v, want 100%%", got)
	}
	if got := sl.TimeStretch; got != 1 {
		t.Errorf("default time stretch: got %v, want 1", got)
	}
	fill := sl.Contents[1].(*SolidColorFill)
	if got := fill.Opacity.InitialValue; got != 100 {
		t.Errorf("default fill opacity: got %v, want 100", got)
	}
	if fill.Color.InitialValue != Red {
		t.Errorf("fill color: got %v, want red", fill.Color.InitialValue)
	}
	trim := sl.Contents[2].(*TrimPath)
	if trim.End.InitialValue != 100 || trim.Start.InitialValue != 0 {
		t.Errorf("default trim: got %v..%v, want 0..100", trim.Start.InitialValue, trim.End.InitialValue)
	}
}

func TestEncodeDecodeSample(t *testing.T) {
	want := NewSampleComposition()
	data, err := Encode(want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), `"ty": "shape"`) {
		t.Errorf("encoded layers lack a type tag:\n%s", data)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sample changed after encoding (-want +got):\n%s", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "unknown layer",
			src:  `{"width":1,"height":1,"outPoint":1,"layers":[{"ty":"audio"}]}`,
			want: "unknown layer type",
		},
		{
			name: "missing tag",
			src:  `{"width":1,"height":1,"outPoint":1,"layers":[{"name":"x"}]}`,
			want: "missing \"ty\"",
		},
		{
			name: "empty window",
			src:  `{"width":1,"height":1,"inPoint":5,"outPoint":5,"layers":[]}`,
			want: "must be after",
		},
		{
			name: "unordered keyframes",
			src: `{"width":1,"height":1,"outPoint":1,"layers":[{"ty":"null","transform":{"rotation":
				{"keyframes":[{"frame":5,"value":0},{"frame":1,"value":1}]}}}]}`,
			want: "precedes",
		},
		{
			name: "unknown parent",
			src:  `{"width":1,"height":1,"outPoint":1,"layers":[{"ty":"null","index":1,"parent":7}]}`,
			want: "unknown parent",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestMaskDefaults(t *testing.T) {
	var lc LayerCollection
	if err := lc.UnmarshalJSON([]byte(`[{"ty":"shape","masks":[{}]}]`)); err != nil {
		t.Fatal(err)
	}
	m := lc[0].Base().Masks[0]
	if m.Mode != MaskModeAdd || m.Opacity.InitialValue != 100 {
		t.Errorf("got mode %q opacity %v, want add at 100", m.Mode, m.Opacity.InitialValue)
	}
}
