package compile

import (
	"github.com/zfedoran/brine-kiwi/kiwierr"
	"github.com/zfedoran/brine-kiwi/parse"
	"github.com/zfedoran/brine-kiwi/schema"
)

// Compile resolves one or more parsed files into a single schema.Schema.
// Definitions across files share one namespace; a file's "package"
// declaration, if any, is recorded on each of its Definitions but never
// affects name resolution or encoding. Returns nil if env accumulated any
// errors; callers should check env.HasErrors() (or inspect env.Err())
// rather than relying on a non-nil return alone, since Compile keeps
// resolving what it can after the first failure.
func Compile(files []*parse.File, env *Env) *schema.Schema {
	s := &schema.Schema{}
	index := make(map[string]int)

	for _, f := range files {
		for _, pd := range f.Defs {
			if _, dup := index[pd.Name]; dup {
				env.Errorf(kiwierr.DuplicateName, "definition %q at %s is defined more than once", pd.Name, pd.P)
				continue
			}
			index[pd.Name] = len(s.Defs)
			s.Defs = append(s.Defs, schema.Definition{
				Name:    pd.Name,
				Kind:    defKind(pd.Keyword),
				Package: f.Package,
			})
		}
	}

	fi := 0
	compiled := make(map[string]bool, len(index))
	for _, f := range files {
		for _, pd := range f.Defs {
			defIdx, ok := index[pd.Name]
			if !ok || compiled[pd.Name] {
				continue // duplicate, already reported above
			}
			compiled[pd.Name] = true
			s.Defs[defIdx].Fields = compileFields(s, index, pd, env)
			fi++
		}
	}

	if env.HasErrors() {
		return nil
	}
	if err := schema.Validate(s); err != nil {
		env.Errorf(kiwierr.ErrorKind(err), "%s", err.Error())
		return nil
	}
	return s
}

func defKind(keyword string) schema.DefKind {
	switch keyword {
	case "enum":
		return schema.KindEnum
	case "message":
		return schema.KindMessage
	default:
		return schema.KindStruct
	}
}

func compileFields(s *schema.Schema, index map[string]int, pd parse.Definition, env *Env) []schema.Field {
	fields := make([]schema.Field, 0, len(pd.Fields))
	for _, pf := range pd.Fields {
		switch pd.Keyword {
		case "enum":
			if !pf.HasValue {
				env.Errorf(kiwierr.EnumFieldMissingID, "enum member %q of %q at %s has no value", pf.Name, pd.Name, pf.P)
				continue
			}
			fields = append(fields, schema.Field{Name: pf.Name, Value: pf.Value})
			continue

		case "message":
			if !pf.HasValue {
				env.Errorf(kiwierr.MessageFieldMissingID, "field %q of message %q at %s has no id", pf.Name, pd.Name, pf.P)
				continue
			}

		case "struct":
			if pf.HasValue {
				env.Errorf(kiwierr.StructFieldHasID, "field %q of struct %q at %s must not have an id", pf.Name, pd.Name, pf.P)
				continue
			}
		}

		typ, ok := resolveType(s, index, pf.Type, env)
		if !ok {
			continue
		}
		fields = append(fields, schema.Field{
			Name:       pf.Name,
			Type:       typ,
			IsArray:    pf.Type.IsArray,
			Deprecated: pf.Deprecated,
			Value:      pf.Value,
		})
	}
	return fields
}

func resolveType(s *schema.Schema, index map[string]int, t parse.TypeRef, env *Env) (schema.Type, bool) {
	if prim, ok := schema.BuiltinByName(t.Name); ok {
		return schema.Type{Prim: prim}, true
	}
	if defIdx, ok := index[t.Name]; ok {
		return schema.Type{Prim: schema.TypeUser, Ref: defIdx}, true
	}
	env.Errorf(kiwierr.UnknownType, "reference to undefined type %q at %s", t.Name, t.P)
	return schema.Type{}, false
}
