package schema

import (
	"github.com/samber/lo"

	"github.com/zfedoran/brine-kiwi/kiwierr"
)

// reservedNames mirrors the original compiler's RESERVED_NAMES: identifiers
// a schema may not reuse for a Definition.
var reservedNames = map[string]bool{
	"ByteBuffer": true,
	"package":    true,
}

const recursionUnvisited = 0
const recursionVisiting = 1
const recursionDone = 2

// Validate checks s for: unique definition names that are neither reserved
// nor builtin type names, in-range and resolvable user-type references,
// per-definition field-name uniqueness, enum-discriminant and
// message-field-ID rules, struct fields carrying no value, and absence of
// recursive struct containment. It does not check that names are
// well-formed identifiers.
func Validate(s *Schema) error {
	names := make(map[string]bool, len(s.Defs))
	for _, def := range s.Defs {
		if names[def.Name] {
			return kiwierr.New(kiwierr.DuplicateName, "definition %q is defined twice", def.Name)
		}
		if reservedNames[def.Name] {
			return kiwierr.New(kiwierr.DuplicateName, "definition name %q is reserved", def.Name)
		}
		if _, isBuiltin := BuiltinByName(def.Name); isBuiltin {
			return kiwierr.New(kiwierr.DuplicateName, "definition name %q shadows a builtin type", def.Name)
		}
		names[def.Name] = true
	}

	for i := range s.Defs {
		if err := validateDefinition(s, &s.Defs[i]); err != nil {
			return err
		}
	}

	return validateNoRecursiveStructs(s)
}

func validateDefinition(s *Schema, def *Definition) error {
	fieldNames := make(map[string]bool, len(def.Fields))
	seenIDs := make(map[uint32]bool, len(def.Fields))

	for _, f := range def.Fields {
		if fieldNames[f.Name] {
			return kiwierr.New(kiwierr.DuplicateName, "field %q of %q is defined twice", f.Name, def.Name)
		}
		fieldNames[f.Name] = true

		if f.Type.IsUser() {
			if f.Type.Ref < 0 || f.Type.Ref >= len(s.Defs) {
				return kiwierr.New(kiwierr.UnknownType, "field %q of %q references an undefined type", f.Name, def.Name)
			}
		}

		switch def.Kind {
		case KindEnum:
			if seenIDs[f.Value] {
				return kiwierr.New(kiwierr.DuplicateEnumValue, "enum value %d is used twice in %q", f.Value, def.Name)
			}
			seenIDs[f.Value] = true

		case KindMessage:
			if f.Value == 0 {
				return kiwierr.New(kiwierr.MessageFieldMissingID, "field %q of message %q has no id", f.Name, def.Name)
			}
			if seenIDs[f.Value] {
				return kiwierr.New(kiwierr.DuplicateFieldID, "field id %d is used twice in %q", f.Value, def.Name)
			}
			seenIDs[f.Value] = true

		case KindStruct:
			if f.Value != 0 {
				return kiwierr.New(kiwierr.StructFieldHasID, "field %q of struct %q must not have an id", f.Name, def.Name)
			}
		}
	}
	return nil
}

// validateNoRecursiveStructs runs a three-state depth-first walk (unvisited
// / visiting / done) over every definition's non-array struct-typed fields.
// A struct reached while still "visiting" closes a cycle.
func validateNoRecursiveStructs(s *Schema) error {
	state := make([]byte, len(s.Defs))
	var visit func(idx int) error
	visit = func(idx int) error {
		def := &s.Defs[idx]
		if def.Kind != KindStruct {
			return nil
		}
		switch state[idx] {
		case recursionVisiting:
			return kiwierr.New(kiwierr.RecursiveStruct, "recursive nesting of %q is not allowed", def.Name)
		case recursionDone:
			return nil
		}
		state[idx] = recursionVisiting
		refs := lo.FilterMap(def.Fields, func(f Field, _ int) (int, bool) {
			return f.Type.Ref, !f.IsArray && f.Type.IsUser()
		})
		for _, ref := range refs {
			if err := visit(ref); err != nil {
				return err
			}
		}
		state[idx] = recursionDone
		return nil
	}
	for i := range s.Defs {
		if err := visit(i); err != nil {
			return err
		}
	}
	return nil
}
