package registry

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/mhalter/nodeloom/pkg/document"
)

// Well-known catalog identifiers the editing interface treats specially.
const (
	// ReferenceArtboard marks nodes constrained to be direct children of
	// the implicit root parent.
	ReferenceArtboard = "artboard"
	// ReferenceMerge is the canonical layer definition: one graphic output,
	// two graphic inputs (below, above).
	ReferenceMerge = "merge"
	// ReferenceIdentity passes its single input through unchanged.
	ReferenceIdentity = "identity"
)

// TypeGraphic is the stand-in type for rendered content flowing between
// layers. The editing interface only compares types, it never evaluates
// them, so a structural object type is sufficient here.
var TypeGraphic = cty.Object(map[string]cty.Type{
	"width":  cty.Number,
	"height": cty.Number,
	"data":   cty.String,
})

func graphicInput(exposed bool) document.Input {
	return document.ValueInput(document.DefaultForType(TypeGraphic), exposed)
}

func numberInput(v float64, exposed bool) document.Input {
	return document.ValueInput(document.NewValue(cty.NumberFloatVal(v)), exposed)
}

func stringInput(v string, exposed bool) document.Input {
	return document.ValueInput(document.NewValue(cty.StringVal(v)), exposed)
}

// Builtin returns the small catalog used by the CLI and tests. The real
// node catalog is an external collaborator; these entries exist so a
// document can be edited and type-resolved without one.
func Builtin() *Static {
	return NewStatic(
		Definition{
			Identifier:       ReferenceIdentity,
			DisplayName:      "Identity",
			Category:         "General",
			DefaultInputs:    []document.Input{document.ValueInput(document.UnitValue(), true)},
			InputNames:       []string{"In"},
			HasPrimaryOutput: true,
			Signatures: []Signature{
				{Inputs: []cty.Type{cty.DynamicPseudoType}, Output: cty.DynamicPseudoType},
			},
		},
		Definition{
			Identifier:       ReferenceMerge,
			DisplayName:      "Merge",
			Category:         "General",
			DefaultInputs:    []document.Input{graphicInput(true), graphicInput(true)},
			InputNames:       []string{"Below", "Above"},
			HasPrimaryOutput: true,
			Signatures: []Signature{
				{Inputs: []cty.Type{TypeGraphic, TypeGraphic}, Output: TypeGraphic},
			},
		},
		Definition{
			Identifier:       ReferenceArtboard,
			DisplayName:      "Artboard",
			Category:         "General",
			DefaultInputs:    []document.Input{graphicInput(true), graphicInput(true), stringInput("Artboard", false)},
			InputNames:       []string{"Canvas", "Contents", "Label"},
			HasPrimaryOutput: true,
			Signatures: []Signature{
				{Inputs: []cty.Type{TypeGraphic, TypeGraphic, cty.String}, Output: TypeGraphic},
			},
		},
		Definition{
			Identifier:       "opacity",
			DisplayName:      "Opacity",
			Category:         "Style",
			DefaultInputs:    []document.Input{graphicInput(true), numberInput(100, false)},
			InputNames:       []string{"Graphic", "Factor"},
			HasPrimaryOutput: true,
			Signatures: []Signature{
				{Inputs: []cty.Type{TypeGraphic, cty.Number}, Output: TypeGraphic},
			},
		},
		Definition{
			Identifier:       "add",
			DisplayName:      "Add",
			Category:         "Math",
			DefaultInputs:    []document.Input{numberInput(0, true), numberInput(0, true)},
			InputNames:       []string{"A", "B"},
			HasPrimaryOutput: true,
			Signatures: []Signature{
				{Inputs: []cty.Type{cty.Number, cty.Number}, Output: cty.Number},
				{Inputs: []cty.Type{cty.String, cty.String}, Output: cty.String},
			},
		},
	)
}
