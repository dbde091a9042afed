package canopy

import "fmt"

// Entity identifies an ECS entity by slot index and generation. The bridge
// never owns entities; it only uses them as keys.
type Entity struct {
	Index      uint32
	Generation uint32
}

// Less orders entities by Index, then Generation. All deterministic output
// of the bridge (diff records, removal order) uses this ordering.
func (e Entity) Less(other Entity) bool {
	if e.Index != other.Index {
		return e.Index < other.Index
	}
	return e.Generation < other.Generation
}

// String returns "index:generation".
func (e Entity) String() string {
	return fmt.Sprintf("%d:%d", e.Index, e.Generation)
}

// WidgetKind selects which toolkit widget represents an entity.
type WidgetKind uint8

const (
	KindContainer WidgetKind = iota // group widget with no visual output of its own
	KindLabel                       // static text
	KindButton                      // clickable text box
	KindSlider                      // horizontal value slider over Range
	KindArc                         // circular value gauge over Range
)

var kindNames = [...]string{"container", "label", "button", "slider", "arc"}

func (k WidgetKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// StyleID refers to a toolkit-side style. The bridge passes it through
// untouched.
type StyleID uint16

// Range is the inclusive value range of a Slider or Arc.
type Range struct {
	Min, Max int32
}

// Clamp returns v limited to [r.Min, r.Max].
func (r Range) Clamp(v int32) int32 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Rect is a widget's position relative to its parent and its size, in
// display pixels.
type Rect struct {
	X, Y, Width, Height int32
}

// GuiTag marks an entity that should have a widget. An entity carries at most
// one GuiTag.
type GuiTag struct {
	Kind   WidgetKind
	Text   string
	Value  int32
	Range  Range
	Style  StyleID
	Bounds Rect
}

// ParentLink places an entity's widget under the widget of Parent. Parent
// must itself carry a GuiTag.
type ParentLink struct {
	Parent Entity
}

// WidgetHandle is an opaque reference into the toolkit's retained tree.
// The zero value is never a valid handle.
type WidgetHandle uint32

// Field names one GUI-relevant field of an entity's components.
type Field uint16

const (
	FieldKind   Field = 1 << iota // GuiTag.Kind; a change rebuilds the widget
	FieldText                     // GuiTag.Text (string)
	FieldValue                    // GuiTag.Value (int32)
	FieldRange                    // GuiTag.Range (Range)
	FieldStyle                    // GuiTag.Style (StyleID)
	FieldBounds                   // GuiTag.Bounds (Rect)
	FieldParent                   // ParentLink; structural
)

// propertyFields lists the fields applied through Toolkit.SetProperty, in the
// order the engine applies them.
var propertyFields = [...]Field{FieldText, FieldValue, FieldRange, FieldStyle, FieldBounds}

var fieldNames = map[Field]string{
	FieldKind:   "kind",
	FieldText:   "text",
	FieldValue:  "value",
	FieldRange:  "range",
	FieldStyle:  "style",
	FieldBounds: "bounds",
	FieldParent: "parent",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("field(%#x)", uint16(f))
}

// FieldSet is a bitmask of Fields.
type FieldSet = Field

// PropertyFields is the set of fields applied through SetProperty.
const PropertyFields FieldSet = FieldText | FieldValue | FieldRange | FieldStyle | FieldBounds

// Has reports whether every field in f is set in s.
func (s Field) Has(f Field) bool {
	return s&f == f
}

// PropertyValue returns the value of field f in tag, typed as documented on
// the Field constants. It returns nil for fields that are not properties.
func PropertyValue(tag *GuiTag, f Field) any {
	switch f {
	case FieldText:
		return tag.Text
	case FieldValue:
		return tag.Value
	case FieldRange:
		return tag.Range
	case FieldStyle:
		return tag.Style
	case FieldBounds:
		return tag.Bounds
	}
	return nil
}

// State is the GUI-relevant component state of one entity as observed in a
// single tick.
type State struct {
	Tag    GuiTag
	Link   ParentLink
	Linked bool // Link is meaningful only when Linked is true
}

// changedFields compares two states field by field.
func changedFields(prev, next *State) FieldSet {
	var s FieldSet
	if prev.Tag.Kind != next.Tag.Kind {
		s |= FieldKind
	}
	if prev.Tag.Text != next.Tag.Text {
		s |= FieldText
	}
	if prev.Tag.Value != next.Tag.Value {
		s |= FieldValue
	}
	if prev.Tag.Range != next.Tag.Range {
		s |= FieldRange
	}
	if prev.Tag.Style != next.Tag.Style {
		s |= FieldStyle
	}
	if prev.Tag.Bounds != next.Tag.Bounds {
		s |= FieldBounds
	}
	if prev.Linked != next.Linked || (next.Linked && prev.Link != next.Link) {
		s |= FieldParent
	}
	return s
}
