// Package scene is an in-memory composition object model: visuals, shapes,
// geometries, brushes and the animations that drive their properties. The
// translator builds scenes through a Compositor; the engine plays them back.
package scene

import (
	"fmt"

	"github.com/inamate/inamate/lottiegen/internal/document"
)

type (
	Vector2 = document.Vector2
	Vector3 = document.Vector3
	Color   = document.Color
)

func Vec2(x, y float64) Vector2 { return document.Vec2(x, y) }

// ColorFromRGB returns an opaque color.
func ColorFromRGB(r, g, b float64) Color { return document.ColorFromRGB(r, g, b) }

// Node is any object created by a Compositor.
type Node interface {
	Base() *Object
	Kind() string
}

// Object carries what every node has in common: an identity, an optional
// description, custom properties and the animations started on it.
type Object struct {
	id          int
	description string
	properties  *PropertySet
	animators   []*Animator
}

func (o *Object) Base() *Object { return o }

// ID is unique within the Compositor that created the node.
func (o *Object) ID() int { return o.id }

func (o *Object) Description() string { return o.description }

// SetDescription annotates the node. A node is described at most once.
func (o *Object) SetDescription(d string) {
	if o.description != "" {
		panic(fmt.Sprintf("scene: node %d already described as %q", o.id, o.description))
	}
	o.description = d
}

// Properties returns the node's custom property set, creating it on first
// use.
func (o *Object) Properties() *PropertySet {
	if o.properties == nil {
		o.properties = &PropertySet{}
	}
	return o.properties
}

// HasProperties reports whether any custom property was inserted.
func (o *Object) HasProperties() bool {
	return o.properties != nil && len(o.properties.names) > 0
}

// Animators returns the animations started on the node in start order.
func (o *Object) Animators() []*Animator { return o.animators }

// StartAnimation binds an animation to a property of the node. Starting a
// second animation on the same property replaces the first.
func (o *Object) StartAnimation(property string, a Animation) *Animator {
	for _, an := range o.animators {
		if an.Property == property {
			an.Animation = a
			an.Controller = nil
			return an
		}
	}
	an := &Animator{Property: property, Animation: a}
	o.animators = append(o.animators, an)
	return an
}

// TryGetAnimationController returns the controller of the animation running
// on property, or nil when nothing is animating it. Expression animations
// have no controller.
func (o *Object) TryGetAnimationController(property string) *AnimationController {
	an := o.Animator(property)
	if an == nil {
		return nil
	}
	if _, ok := an.Animation.(*ExpressionAnimation); ok {
		return nil
	}
	if an.Controller == nil {
		an.Controller = &AnimationController{}
	}
	return an.Controller
}

// Animator returns the animator bound to property, if any.
func (o *Object) Animator(property string) *Animator {
	for _, an := range o.animators {
		if an.Property == property {
			return an
		}
	}
	return nil
}

// Animator is an animation running on one property of a node.
type Animator struct {
	Property   string
	Animation  Animation
	Controller *AnimationController
}

// AnimationController controls the playback of a keyframe animation. A
// paused controller whose Progress is bound by an expression animation
// follows that expression instead of the clock.
type AnimationController struct {
	Object
	Paused bool
}

func (*AnimationController) Kind() string { return "AnimationController" }

func (c *AnimationController) Pause()  { c.Paused = true }
func (c *AnimationController) Resume() { c.Paused = false }

// PropertySet holds named custom values on a node. Values are float64,
// Vector2, Vector3, Color or Matrix3x2.
type PropertySet struct {
	names  []string
	values map[string]any
}

func (ps *PropertySet) insert(name string, v any) {
	if ps.values == nil {
		ps.values = make(map[string]any)
	}
	if _, ok := ps.values[name]; !ok {
		ps.names = append(ps.names, name)
	}
	ps.values[name] = v
}

func (ps *PropertySet) InsertScalar(name string, v float64)   { ps.insert(name, v) }
func (ps *PropertySet) InsertVector2(name string, v Vector2)  { ps.insert(name, v) }
func (ps *PropertySet) InsertVector3(name string, v Vector3)  { ps.insert(name, v) }
func (ps *PropertySet) InsertColor(name string, v Color)      { ps.insert(name, v) }
func (ps *PropertySet) InsertMatrix(name string, v Matrix3x2) { ps.insert(name, v) }

// Get returns the value of a custom property.
func (ps *PropertySet) Get(name string) (any, bool) {
	if ps == nil {
		return nil, false
	}
	v, ok := ps.values[name]
	return v, ok
}

// Names returns the property names in insertion order.
func (ps *PropertySet) Names() []string {
	if ps == nil {
		return nil
	}
	return ps.names
}
