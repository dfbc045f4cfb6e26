package golang

import (
	"fmt"

	"github.com/zfedoran/brine-kiwi/schema"
)

// writeMethod returns the bb.Writer method name for a builtin type.
var writeMethod = map[schema.Primitive]string{
	schema.TypeBool:   "WriteBool",
	schema.TypeByte:   "WriteByte",
	schema.TypeInt:    "WriteVarInt",
	schema.TypeUint:   "WriteVarUint",
	schema.TypeFloat:  "WriteVarFloat",
	schema.TypeString: "WriteString",
	schema.TypeInt64:  "WriteVarInt64",
	schema.TypeUint64: "WriteVarUint64",
}

var readMethod = map[schema.Primitive]string{
	schema.TypeBool:   "ReadBool",
	schema.TypeByte:   "ReadByte",
	schema.TypeInt:    "ReadVarInt",
	schema.TypeUint:   "ReadVarUint",
	schema.TypeFloat:  "ReadVarFloat",
	schema.TypeString: "ReadString",
	schema.TypeInt64:  "ReadVarInt64",
	schema.TypeUint64: "ReadVarUint64",
}

// writeScalar emits a statement writing one value of type t, where valueExpr
// is a plain (already-dereferenced) Go expression of the scalar's value
// type. &(valueExpr) is always a legal Go address-of, whether valueExpr is a
// struct field, a slice element, or a pointer dereference, so struct/message
// sub-values are handled the same way regardless of call site.
func writeScalar(s *schema.Schema, t schema.Type, valueExpr string) string {
	if !t.IsUser() {
		return fmt.Sprintf("\tw.%s(%s)\n", writeMethod[t.Prim], valueExpr)
	}
	def := &s.Defs[t.Ref]
	if def.Kind == schema.KindEnum {
		return fmt.Sprintf("\tencode%s(w, %s)\n", def.Name, valueExpr)
	}
	return fmt.Sprintf("\tencode%s(w, &(%s))\n", def.Name, valueExpr)
}

// encodeFieldStmt writes a complete field, handling IsArray. accessor is the
// field's storage expression at its declared Go type (a value for struct
// fields and array elements' backing slice, a pointer already dereferenced
// by the caller for optional message scalars).
func encodeFieldStmt(s *schema.Schema, f schema.Field, accessor string) string {
	if !f.IsArray {
		return writeScalar(s, f.Type, accessor)
	}
	var out string
	out += fmt.Sprintf("\tw.WriteVarUint(uint32(len(%s)))\n", accessor)
	out += fmt.Sprintf("\tfor _, item := range %s {\n", accessor)
	out += "\t" + writeScalar(s, f.Type, "item")
	out += "\t}\n"
	return out
}

// readScalar returns a statement block that reads one value of type t into a
// fresh local variable, propagating any read error, plus the Go expression
// naming that variable's value (never a pointer, even for struct/message
// sub-types, which the generated decodeX functions return as *X).
func readScalar(s *schema.Schema, t schema.Type, varName string) (stmt, valueExpr string) {
	if !t.IsUser() {
		stmt = fmt.Sprintf("%s, err := r.%s()\n\tif err != nil {\n\t\treturn nil, err\n\t}\n", varName, readMethod[t.Prim])
		return stmt, varName
	}
	def := &s.Defs[t.Ref]
	if def.Kind == schema.KindEnum {
		stmt = fmt.Sprintf("%s, err := decode%s(r)\n\tif err != nil {\n\t\treturn nil, err\n\t}\n", varName, def.Name)
		return stmt, varName
	}
	stmt = fmt.Sprintf("%sPtr, err := decode%s(r)\n\tif err != nil {\n\t\treturn nil, err\n\t}\n", varName, def.Name)
	return stmt, fmt.Sprintf("*%sPtr", varName)
}

// decodeFieldStmt reads a complete field (handling IsArray) and assigns it
// directly into assignTo, a plain (non-pointer) lvalue — used for struct
// fields and, per-element, for arrays in any context.
func decodeFieldStmt(s *schema.Schema, f schema.Field, assignTo string) string {
	if !f.IsArray {
		stmt, expr := readScalar(s, f.Type, "val")
		return "\t{\n\t" + indentBlock(stmt) + fmt.Sprintf("\t\t%s = %s\n\t}\n", assignTo, expr)
	}
	stmt, expr := readScalar(s, f.Type, "item")
	var out string
	out += "\t{\n"
	out += "\t\tn, err := r.ReadVarUint()\n\t\tif err != nil {\n\t\t\treturn nil, err\n\t\t}\n"
	out += fmt.Sprintf("\t\titems := make(%s, n)\n", fieldGo(s, f, false))
	out += "\t\tfor i := range items {\n"
	out += "\t\t\t" + indentBlock(stmt)
	out += fmt.Sprintf("\t\t\titems[i] = %s\n", expr)
	out += "\t\t}\n"
	out += fmt.Sprintf("\t\t%s = items\n", assignTo)
	out += "\t}\n"
	return out
}

// decodeMessageFieldStmt is decodeFieldStmt's counterpart for an optional
// message field, boxing a scalar result behind the pointer the field's type
// carries. Array fields are unaffected by optionality (the slice itself is
// the nil-means-absent signal) so they delegate straight to decodeFieldStmt.
func decodeMessageFieldStmt(s *schema.Schema, f schema.Field, assignTo string) string {
	if f.IsArray {
		return decodeFieldStmt(s, f, assignTo)
	}
	stmt, expr := readScalar(s, f.Type, "val")
	return "\t\t\t{\n\t\t\t" + indentBlock(stmt) + fmt.Sprintf("\t\t\t\tboxed := %s\n\t\t\t\t%s = &boxed\n\t\t\t}\n", expr, assignTo)
}

// presentCheck returns a boolean Go expression testing whether an optional
// message field holds a value.
func presentCheck(s *schema.Schema, f schema.Field, accessor string) string {
	if f.IsArray {
		return fmt.Sprintf("%s != nil", accessor)
	}
	return fmt.Sprintf("%s != nil", accessor)
}

// derefExpr turns an optional message field's pointer accessor into the
// plain value expression encodeFieldStmt expects; arrays are already plain
// slices and pass through unchanged.
func derefExpr(s *schema.Schema, f schema.Field, accessor string) string {
	if f.IsArray {
		return accessor
	}
	return "*" + accessor
}

func indentBlock(s string) string {
	return s
}
