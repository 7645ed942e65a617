package stage

import (
	"github.com/rotisserie/eris"
	"github.com/wI2L/jsondiff"

	"github.com/tetra-engine/tetra/internal/core/ecs"
	"github.com/tetra-engine/tetra/internal/core/serialization"
	"github.com/tetra-engine/tetra/internal/core/serialization/jsontree"
	"github.com/tetra-engine/tetra/pkg/guid"
)

// DocumentVersion is written into every stage document. Documents without a
// version are read as version 1.
const DocumentVersion uint32 = 1

// Serialize writes the stage document:
//
//	{"version", "guid", "name", "entity_manager": {...}, "component_manager": {...}}
func (s *Stage) Serialize(ctx serialization.Context) error {
	if err := ctx.WriteUint("version", DocumentVersion); err != nil {
		return err
	}
	if err := guid.Write(ctx, "guid", s.guid); err != nil {
		return err
	}
	if err := ctx.WriteString("name", s.name); err != nil {
		return err
	}
	if err := serialization.WriteObject(ctx, "entity_manager", s.entities); err != nil {
		return err
	}
	return serialization.WriteObject(ctx, "component_manager", s.components)
}

// Deserialize replaces the stage's identity and content with the document's.
func (s *Stage) Deserialize(ctx serialization.Context) error {
	version := DocumentVersion
	if ctx.HasKey("version") {
		v, err := ctx.ReadUint("version")
		if err != nil {
			return eris.Wrap(err, "stage version")
		}
		version = v
	}
	if version == 0 || version > DocumentVersion {
		return eris.Wrapf(serialization.ErrUnsupportedVersion, "stage document version %d", version)
	}

	id, err := guid.Read(ctx, "guid")
	if err != nil {
		return eris.Wrap(err, "stage guid")
	}
	name, err := ctx.ReadString("name")
	if err != nil {
		return eris.Wrap(err, "stage name")
	}

	if err := serialization.ReadObject(ctx, "entity_manager", s.entities); err != nil {
		return err
	}
	if err := serialization.ReadObject(ctx, "component_manager", s.components); err != nil {
		return err
	}
	s.guid = id
	s.name = name
	return nil
}

// Marshal renders s as a JSON document.
func Marshal(s *Stage, pretty bool) (string, error) {
	if s == nil {
		return "", ErrNilStage
	}
	w := jsontree.NewWriter()
	if err := s.Serialize(w); err != nil {
		return "", eris.Wrapf(err, "serialize stage %s", s.guid)
	}
	return w.Text(pretty)
}

// Unmarshal builds a new stage from a JSON document.
func Unmarshal(text string, registry *ecs.Registry, opts ...Option) (*Stage, error) {
	doc, err := jsontree.Parse(text)
	if err != nil {
		return nil, err
	}
	s := New(registry, opts...)
	if err := s.Deserialize(jsontree.NewReader(doc)); err != nil {
		return nil, eris.Wrap(err, "load stage")
	}
	return s, nil
}

// VerifyRoundTrip loads text and saves it again. Any difference between the
// two documents is reported as ErrDocumentDrift with the JSON patch.
func VerifyRoundTrip(text string, registry *ecs.Registry) error {
	s, err := Unmarshal(text, registry)
	if err != nil {
		return err
	}
	out, err := Marshal(s, false)
	if err != nil {
		return err
	}
	patch, err := jsondiff.CompareJSON([]byte(text), []byte(out))
	if err != nil {
		return eris.Wrap(err, "compare documents")
	}
	if len(patch) > 0 {
		return eris.Wrapf(ErrDocumentDrift, "%s", patch.String())
	}
	return nil
}
