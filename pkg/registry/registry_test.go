package registry

import (
	"errors"
	"testing"

	"github.com/zclconf/go-cty/cty"

	"github.com/mhalter/nodeloom/pkg/document"
)

func TestRegisterRejectsDuplicate(t *testing.T) {
	s := NewStatic(Definition{Identifier: "blur"})
	if err := s.Register(Definition{Identifier: "blur"}); !errors.Is(err, ErrDuplicateDefinition) {
		t.Fatalf("Register() = %v, want %v", err, ErrDuplicateDefinition)
	}
}

func TestNewStaticPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewStatic should panic on duplicate identifiers")
		}
	}()
	NewStatic(Definition{Identifier: "blur"}, Definition{Identifier: "blur"})
}

func TestTemplateInstantiation(t *testing.T) {
	def := Definition{
		Identifier:       "blur",
		DisplayName:      "Blur",
		DefaultInputs:    []document.Input{document.ValueInput(document.UnitValue(), true)},
		InputNames:       []string{"Graphic"},
		HasPrimaryOutput: true,
	}

	tmpl := def.Template()
	if tmpl.Node.Implementation.Proto != "blur" {
		t.Errorf("proto = %q, want blur", tmpl.Node.Implementation.Proto)
	}
	if tmpl.Metadata.Reference != "blur" || tmpl.Metadata.DisplayName != "Blur" {
		t.Errorf("metadata = %+v, want reference and display name filled", tmpl.Metadata)
	}
	if !tmpl.Metadata.HasPrimaryOutput {
		t.Error("template lost the primary output flag")
	}

	// The template owns its input slice.
	tmpl.Metadata.InputNames[0] = "changed"
	if def.InputNames[0] != "Graphic" {
		t.Error("template aliases the definition's input names")
	}
}

func TestTemplatePanicsOnWireDefault(t *testing.T) {
	def := Definition{
		Identifier:    "bad",
		DefaultInputs: []document.Input{document.NodeInput("other", 0)},
	}
	defer func() {
		if recover() == nil {
			t.Fatal("Template should panic on a graph reference default")
		}
	}()
	def.Template()
}

func TestBuiltinCatalog(t *testing.T) {
	s := Builtin()

	merge, ok := s.Definition(ReferenceMerge)
	if !ok {
		t.Fatal("merge definition missing")
	}
	if len(merge.DefaultInputs) != 2 {
		t.Errorf("merge inputs = %d, want 2", len(merge.DefaultInputs))
	}

	sigs := s.Signatures("add")
	if len(sigs) != 2 {
		t.Fatalf("add signatures = %d, want 2", len(sigs))
	}
	if !sigs[0].Output.Equals(cty.Number) {
		t.Errorf("first add output = %s, want number", sigs[0].Output.FriendlyName())
	}

	if got := s.Signatures("nonexistent"); got != nil {
		t.Errorf("Signatures(nonexistent) = %v, want nil", got)
	}
}
