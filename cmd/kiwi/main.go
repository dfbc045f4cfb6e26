// kiwi is the command-line front end for the schema compiler, runtime
// codec, and Go code generator: compile a .kiwi schema to its binary form,
// decode message bytes against a schema to JSON, or generate Go bindings.
package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/zfedoran/brine-kiwi/codegen/golang"
	"github.com/zfedoran/brine-kiwi/compile"
	"github.com/zfedoran/brine-kiwi/kiwierr"
	"github.com/zfedoran/brine-kiwi/parse"
	"github.com/zfedoran/brine-kiwi/render"
	"github.com/zfedoran/brine-kiwi/schema"
	"github.com/zfedoran/brine-kiwi/value"
)

// Exit codes: 0 success, 1 usage error, 2 compile/codec error.
const (
	exitOK      = 0
	exitUsage   = 1
	exitFailure = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return exitUsage
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	switch args[0] {
	case "compile":
		return runCompile(args[1:], logger)
	case "decode":
		return runDecode(args[1:], logger)
	case "gen-go":
		return runGenGo(args[1:], logger)
	case "-h", "--help", "help":
		printUsage()
		return exitOK
	default:
		fmt.Fprintf(os.Stderr, "kiwi: unknown command %q\n", args[0])
		printUsage()
		return exitUsage
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: kiwi <command> [flags]

commands:
  compile   parse a .kiwi schema and write its binary form
  decode    decode message bytes against a binary schema and print JSON
  gen-go    generate Go bindings from a .kiwi schema`)
}

func runCompile(args []string, logger *zap.Logger) int {
	fs := pflag.NewFlagSet("kiwi compile", pflag.ContinueOnError)
	schemaPath := fs.StringP("in", "i", "", "path to the .kiwi schema file")
	outPath := fs.StringP("out", "o", "", "path to write the binary schema to")
	maxErrors := fs.Int("max-errors", 0, "stop accumulating compile errors after this many (0 = default)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *schemaPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "kiwi compile: --in and --out are required")
		return exitUsage
	}

	f, err := os.Open(*schemaPath)
	if err != nil {
		logger.Error("open schema", zap.Error(err))
		return exitFailure
	}
	defer f.Close()

	pf, err := parse.Parse(*schemaPath, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kiwi compile: %v\n", err)
		return exitFailure
	}

	env := compile.NewEnv(*maxErrors)
	s := compile.Compile([]*parse.File{pf}, env)
	if env.HasErrors() {
		fmt.Fprintf(os.Stderr, "kiwi compile: %v\n", env.Err())
		return exitFailure
	}

	if err := ioutil.WriteFile(*outPath, schema.Encode(s), 0644); err != nil {
		logger.Error("write binary schema", zap.Error(err))
		return exitFailure
	}
	logger.Info("compiled schema", zap.String("schema", *schemaPath), zap.Int("definitions", len(s.Defs)))
	return exitOK
}

func runDecode(args []string, logger *zap.Logger) int {
	fs := pflag.NewFlagSet("kiwi decode", pflag.ContinueOnError)
	dataPath := fs.StringP("in", "i", "", "path to the encoded message bytes")
	schemaPath := fs.StringP("schema", "s", "", "path to the binary schema file")
	root := fs.StringP("root", "r", "", "name of the root definition in the schema")
	auxPath := fs.String("aux-schema", "", "path to a newer binary schema, used to skip unknown fields")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *schemaPath == "" || *dataPath == "" || *root == "" {
		fmt.Fprintln(os.Stderr, "kiwi decode: --in, --schema, and --root are required")
		return exitUsage
	}

	s, err := loadBinarySchema(*schemaPath)
	if err != nil {
		logger.Error("load schema", zap.Error(err))
		return exitFailure
	}

	var aux *schema.Schema
	if *auxPath != "" {
		aux, err = loadBinarySchema(*auxPath)
		if err != nil {
			logger.Error("load aux schema", zap.Error(err))
			return exitFailure
		}
	}

	_, rootIdx, ok := s.DefByName(*root)
	if !ok {
		fmt.Fprintf(os.Stderr, "kiwi decode: no definition named %q in schema\n", *root)
		return exitFailure
	}

	data, err := ioutil.ReadFile(*dataPath)
	if err != nil {
		logger.Error("read message bytes", zap.Error(err))
		return exitFailure
	}

	v, err := value.Decode(s, rootIdx, data, aux)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kiwi decode: %v (%s)\n", err, kiwierr.ErrorKind(err))
		return exitFailure
	}

	out, err := render.ToJSON(v)
	if err != nil {
		logger.Error("render json", zap.Error(err))
		return exitFailure
	}
	fmt.Println(string(out))
	return exitOK
}

func runGenGo(args []string, logger *zap.Logger) int {
	fs := pflag.NewFlagSet("kiwi gen-go", pflag.ContinueOnError)
	schemaPath := fs.StringP("in", "i", "", "path to the .kiwi schema file")
	outPath := fs.StringP("out", "o", "", "path to write the generated .go file to")
	pkgName := fs.String("package", "", "Go package name for the generated file (defaults to the schema's \"package\" declaration, else \"kiwipb\")")
	bbImport := fs.String("bb-import", "", "import path of the bb runtime package (required)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *schemaPath == "" || *outPath == "" || *bbImport == "" {
		fmt.Fprintln(os.Stderr, "kiwi gen-go: --in, --out, and --bb-import are required")
		return exitUsage
	}

	f, err := os.Open(*schemaPath)
	if err != nil {
		logger.Error("open schema", zap.Error(err))
		return exitFailure
	}
	defer f.Close()

	pf, err := parse.Parse(*schemaPath, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kiwi gen-go: %v\n", err)
		return exitFailure
	}

	env := compile.NewEnv(0)
	s := compile.Compile([]*parse.File{pf}, env)
	if env.HasErrors() {
		fmt.Fprintf(os.Stderr, "kiwi gen-go: %v\n", env.Err())
		return exitFailure
	}

	goPackage := *pkgName
	if goPackage == "" {
		goPackage = "kiwipb"
		if len(s.Defs) > 0 && s.Defs[0].Package != "" {
			goPackage = s.Defs[0].Package
		}
	}

	src, err := golang.Generate(s, goPackage, *bbImport)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kiwi gen-go: %v\n", err)
		return exitFailure
	}

	if err := ioutil.WriteFile(*outPath, src, 0644); err != nil {
		logger.Error("write generated Go file", zap.Error(err))
		return exitFailure
	}
	logger.Info("generated Go bindings", zap.String("schema", *schemaPath), zap.String("out", *outPath))
	return exitOK
}

func loadBinarySchema(path string) (*schema.Schema, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return schema.Decode(data)
}
