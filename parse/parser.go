package parse

import (
	"io"
	"strconv"
	"text/scanner"

	"github.com/zfedoran/brine-kiwi/kiwierr"
)

// Parse reads one schema source file and returns its parse tree. baseName is
// recorded as the File's BaseName; the errors Parse returns carry only a
// line and column, not the file name.
func Parse(baseName string, src io.Reader) (*File, error) {
	p := newParser(baseName, src)
	return p.parseFile()
}

type parser struct {
	sc      scanner.Scanner
	tok     rune
	lastErr error
}

func newParser(baseName string, src io.Reader) *parser {
	p := &parser{}
	p.sc.Init(src)
	p.sc.Filename = baseName
	// Identifiers, integer literals, and both comment styles; nothing else
	// in this grammar needs float/string/char scanning.
	p.sc.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanComments | scanner.SkipComments
	p.sc.Error = func(_ *scanner.Scanner, msg string) {
		p.lastErr = kiwierr.AtPosition(kiwierr.UnexpectedToken, p.pos(), "%s", msg)
	}
	return p
}

func (p *parser) pos() kiwierr.Position {
	pos := p.sc.Position
	if pos.Line == 0 {
		pos = p.sc.Pos()
	}
	return kiwierr.Position{Line: pos.Line, Column: pos.Column}
}

func (p *parser) next() rune {
	p.tok = p.sc.Scan()
	return p.tok
}

func (p *parser) text() string { return p.sc.TokenText() }

func (p *parser) errorf(format string, args ...interface{}) error {
	return kiwierr.AtPosition(kiwierr.UnexpectedToken, p.pos(), format, args...)
}

// expectIdent consumes the current token if it is the identifier want, else
// returns a syntax error; expectRune does the same for a punctuation rune.
func (p *parser) expectIdent(want string) error {
	if p.tok != scanner.Ident || p.text() != want {
		return p.errorf("expected %q, got %q", want, p.text())
	}
	p.next()
	return nil
}

func (p *parser) expectRune(want rune) error {
	if p.tok != want {
		return p.errorf("expected %q, got %q", string(want), p.text())
	}
	p.next()
	return nil
}

func (p *parser) parseFile() (*File, error) {
	f := &File{BaseName: p.sc.Filename}
	p.next()

	if p.tok == scanner.Ident && p.text() == "package" {
		pkg, err := p.parsePackageDecl()
		if err != nil {
			return nil, err
		}
		f.Package = pkg
	}

	for p.tok != scanner.EOF {
		def, err := p.parseDefinition()
		if err != nil {
			return nil, err
		}
		f.Defs = append(f.Defs, *def)
	}
	if p.lastErr != nil {
		return nil, p.lastErr
	}
	return f, nil
}

func (p *parser) parsePackageDecl() (string, error) {
	if err := p.expectIdent("package"); err != nil {
		return "", err
	}
	if p.tok != scanner.Ident {
		return "", p.errorf("expected package name, got %q", p.text())
	}
	name := p.text()
	p.next()
	if err := p.expectRune(';'); err != nil {
		return "", err
	}
	return name, nil
}

var defKeywords = map[string]bool{"enum": true, "struct": true, "message": true}

func (p *parser) parseDefinition() (*Definition, error) {
	if p.tok != scanner.Ident || !defKeywords[p.text()] {
		return nil, p.errorf("expected one of enum/struct/message, got %q", p.text())
	}
	pp := p.pos()
	def := &Definition{Keyword: p.text(), P: Pos{Line: pp.Line, Col: pp.Column}}
	p.next()

	if p.tok != scanner.Ident {
		return nil, p.errorf("expected definition name, got %q", p.text())
	}
	def.Name = p.text()
	p.next()

	if err := p.expectRune('{'); err != nil {
		return nil, err
	}
	for p.tok != '}' {
		if p.tok == scanner.EOF {
			return nil, p.errorf("unexpected end of file inside %q", def.Name)
		}
		field, err := p.parseField(def.Keyword)
		if err != nil {
			return nil, err
		}
		def.Fields = append(def.Fields, *field)
	}
	p.next() // consume '}'
	return def, nil
}

// parseField parses one member line. For "enum" it is "IDENT = INT;"; for
// "struct"/"message" it is "type IDENT ( = INT )? tag? ;".
func (p *parser) parseField(keyword string) (*Field, error) {
	fp := p.pos()
	f := &Field{P: Pos{Line: fp.Line, Col: fp.Column}}

	if keyword == "enum" {
		if p.tok != scanner.Ident {
			return nil, p.errorf("expected enum member name, got %q", p.text())
		}
		f.Name = p.text()
		p.next()
		if err := p.expectRune('='); err != nil {
			return nil, err
		}
		v, err := p.parseUint()
		if err != nil {
			return nil, err
		}
		f.HasValue = true
		f.Value = v
		return f, p.expectRune(';')
	}

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	f.Type = *typ

	if p.tok != scanner.Ident {
		return nil, p.errorf("expected field name, got %q", p.text())
	}
	f.Name = p.text()
	p.next()

	if p.tok == '=' {
		p.next()
		v, err := p.parseUint()
		if err != nil {
			return nil, err
		}
		f.HasValue = true
		f.Value = v
	}

	if p.tok == '[' {
		if err := p.parseTag(f); err != nil {
			return nil, err
		}
	}

	return f, p.expectRune(';')
}

// parseTag parses the single supported tag, "[deprecated]".
func (p *parser) parseTag(f *Field) error {
	if err := p.expectRune('['); err != nil {
		return err
	}
	if err := p.expectIdent("deprecated"); err != nil {
		return err
	}
	f.Deprecated = true
	return p.expectRune(']')
}

func (p *parser) parseType() (*TypeRef, error) {
	if p.tok != scanner.Ident {
		return nil, p.errorf("expected type name, got %q", p.text())
	}
	tp := p.pos()
	t := &TypeRef{Name: p.text(), P: Pos{Line: tp.Line, Col: tp.Column}}
	p.next()
	if p.tok == '[' {
		p.next()
		if err := p.expectRune(']'); err != nil {
			return nil, err
		}
		t.IsArray = true
	}
	return t, nil
}

func (p *parser) parseUint() (uint32, error) {
	if p.tok != scanner.Int {
		return 0, p.errorf("expected integer, got %q", p.text())
	}
	n, err := strconv.ParseUint(p.text(), 10, 32)
	if err != nil {
		return 0, p.errorf("invalid integer literal %q: %v", p.text(), err)
	}
	p.next()
	return uint32(n), nil
}
