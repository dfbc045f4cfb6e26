package golang

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"

	"github.com/zfedoran/brine-kiwi/schema"
)

var headerTemplate = template.Must(template.New("header").Parse(
	`// Code generated from a schema by codegen/golang. DO NOT EDIT.

package {{.PackageName}}

import (
	"fmt"

	"{{.BBImportPath}}"
)

var _ = fmt.Sprintf
var _ = bb.NewWriter
`))

// headerData feeds the fixed preamble every generated file starts with; the
// per-definition bodies that follow are built directly, since their control
// flow (array loops, per-field error propagation, message tag dispatch)
// doesn't fit template syntax any more cleanly than it fits Go.
type headerData struct {
	PackageName  string
	BBImportPath string
}

// Generate emits Go source implementing every definition in s: one type plus
// an encode/decode function pair per definition, depending only on bb.
// bbImportPath is the import path generated code uses to reach the runtime
// ByteBuffer package (typically "<module>/bb"). The result has already been
// run through go/format.Source.
func Generate(s *schema.Schema, packageName, bbImportPath string) ([]byte, error) {
	var buf bytes.Buffer
	if err := headerTemplate.Execute(&buf, headerData{PackageName: packageName, BBImportPath: bbImportPath}); err != nil {
		return nil, fmt.Errorf("kiwi: codegen header template: %w", err)
	}

	for i := range s.Defs {
		def := &s.Defs[i]
		switch def.Kind {
		case schema.KindEnum:
			genEnum(&buf, def)
		case schema.KindStruct:
			genStruct(&buf, s, def)
		case schema.KindMessage:
			genMessage(&buf, s, def)
		}
	}

	pretty, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("kiwi: codegen produced invalid Go source: %w", err)
	}
	return pretty, nil
}

func genEnum(buf *bytes.Buffer, def *schema.Definition) {
	fmt.Fprintf(buf, "\ntype %s uint32\n\nconst (\n", def.Name)
	for _, f := range def.Fields {
		fmt.Fprintf(buf, "\t%s%s %s = %d\n", def.Name, exportGo(f.Name), def.Name, f.Value)
	}
	buf.WriteString(")\n\n")

	fmt.Fprintf(buf, "func (v %s) String() string {\n\tswitch v {\n", def.Name)
	for _, f := range def.Fields {
		fmt.Fprintf(buf, "\tcase %s%s:\n\t\treturn %q\n", def.Name, exportGo(f.Name), f.Name)
	}
	fmt.Fprintf(buf, "\tdefault:\n\t\treturn fmt.Sprintf(\"%s(%%d)\", uint32(v))\n\t}\n}\n\n", def.Name)

	fmt.Fprintf(buf, "func encode%s(w *bb.Writer, v %s) {\n\tw.WriteVarUint(uint32(v))\n}\n\n", def.Name, def.Name)
	fmt.Fprintf(buf, "func decode%s(r *bb.Reader) (%s, error) {\n\traw, err := r.ReadVarUint()\n\treturn %s(raw), err\n}\n", def.Name, def.Name, def.Name)
}

func genStruct(buf *bytes.Buffer, s *schema.Schema, def *schema.Definition) {
	fmt.Fprintf(buf, "\ntype %s struct {\n", def.Name)
	for _, f := range def.Fields {
		if f.Deprecated {
			fmt.Fprintf(buf, "\t// Deprecated: %s is kept only for wire compatibility.\n", f.Name)
		}
		fmt.Fprintf(buf, "\t%s %s\n", exportGo(f.Name), fieldGo(s, f, false))
	}
	buf.WriteString("}\n\n")

	fmt.Fprintf(buf, "func encode%s(w *bb.Writer, v *%s) {\n", def.Name, def.Name)
	for _, f := range def.Fields {
		buf.WriteString(encodeFieldStmt(s, f, "v."+exportGo(f.Name)))
	}
	buf.WriteString("}\n\n")

	fmt.Fprintf(buf, "func decode%s(r *bb.Reader) (*%s, error) {\n\tv := &%s{}\n", def.Name, def.Name, def.Name)
	for _, f := range def.Fields {
		buf.WriteString(decodeFieldStmt(s, f, "v."+exportGo(f.Name)))
	}
	buf.WriteString("\treturn v, nil\n}\n")
}

func genMessage(buf *bytes.Buffer, s *schema.Schema, def *schema.Definition) {
	fmt.Fprintf(buf, "\ntype %s struct {\n", def.Name)
	for _, f := range def.Fields {
		if f.Deprecated {
			fmt.Fprintf(buf, "\t// Deprecated: %s is kept only for wire compatibility.\n", f.Name)
		}
		fmt.Fprintf(buf, "\t%s %s // field id %d\n", exportGo(f.Name), fieldGo(s, f, true), f.Value)
	}
	buf.WriteString("}\n\n")

	fmt.Fprintf(buf, "func encode%s(w *bb.Writer, v *%s) {\n", def.Name, def.Name)
	for _, f := range def.Fields {
		accessor := "v." + exportGo(f.Name)
		fmt.Fprintf(buf, "\tif %s {\n\t\tw.WriteVarUint(%d)\n", presentCheck(s, f, accessor), f.Value)
		buf.WriteString(encodeFieldStmt(s, f, derefExpr(s, f, accessor)))
		buf.WriteString("\t}\n")
	}
	buf.WriteString("\tw.WriteVarUint(0)\n}\n\n")

	fmt.Fprintf(buf, "func decode%s(r *bb.Reader) (*%s, error) {\n\tv := &%s{}\n\tfor {\n\t\tid, err := r.ReadVarUint()\n\t\tif err != nil {\n\t\t\treturn nil, err\n\t\t}\n\t\tif id == 0 {\n\t\t\treturn v, nil\n\t\t}\n\t\tswitch id {\n", def.Name, def.Name, def.Name)
	for _, f := range def.Fields {
		fmt.Fprintf(buf, "\t\tcase %d:\n", f.Value)
		buf.WriteString(decodeMessageFieldStmt(s, f, "v."+exportGo(f.Name)))
	}
	fmt.Fprintf(buf, "\t\tdefault:\n\t\t\treturn nil, fmt.Errorf(\"%s: unknown field id %%d\", id)\n", def.Name)
	buf.WriteString("\t\t}\n\t}\n}\n")
}
