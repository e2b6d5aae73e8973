package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"golang.org/x/term"

	"github.com/vimtools/vimtree/internal/ast"
	"github.com/vimtools/vimtree/internal/config"
	"github.com/vimtools/vimtree/internal/grammar"
	"github.com/vimtools/vimtree/internal/util"
)

const (
	configDefault = ".vimtree.json"
	configEnv     = "VIMTREE_CONFIG"
)

var (
	hidePanic = true // Hide full trace on panics
)

// CLI options; defaults may come from the config file.
//
var (
	asJSON    bool
	queryPath string
	prettyOut bool
	noColor   bool
)

// showUsageHint prints a terse usage string.
//
func showUsageHint() {
	_, _ = fmt.Fprintf(config.ErrOut, "see '%s --help' for more information\n", config.Me)
}

// showHelp
//
//goland:noinspection GoUnhandledErrorResult // fmt.*
func showHelp() {
	fmt.Fprintf(config.ErrOut, "Usage:\n")
	fmt.Fprintf(config.ErrOut, "       %s [option ...] <script.vim> [...]\n", config.Me)
	fmt.Fprintf(config.ErrOut, "       (reads stdin when no file is given)\n")
	fmt.Fprintln(config.ErrOut, "Options:")
	fmt.Fprintln(config.ErrOut, "  -j, --json")
	fmt.Fprintln(config.ErrOut, "        Emit the parse tree as JSON instead of a tree dump")
	fmt.Fprintln(config.ErrOut, "  -q, --query <path>")
	fmt.Fprintf(config.ErrOut, "        Apply a gjson path to the JSON tree\n")
	fmt.Fprintf(config.ErrOut, "        ex: %s -q 'root.stmts.#(kind==\"FuncDef\").name' plugin.vim\n", config.Me)
	fmt.Fprintln(config.ErrOut, "  -p, --pretty")
	fmt.Fprintln(config.ErrOut, "        Indent JSON output (default when stdout is a terminal)")
	fmt.Fprintln(config.ErrOut, "  -t, --tokens")
	fmt.Fprintln(config.ErrOut, "        Dump the token stream while parsing (stderr)")
	fmt.Fprintln(config.ErrOut, "  -v")
	fmt.Fprintln(config.ErrOut, "        Trace scanner/grammar functions (stderr)")
	fmt.Fprintln(config.ErrOut, "      --version")
	fmt.Fprintln(config.ErrOut, "        Show version and exit")
	fmt.Fprintln(config.ErrOut, "Note:")
	fmt.Fprintln(config.ErrOut, "  Options accept '-' | '--'")
	fmt.Fprintf(config.ErrOut, "  Defaults can be set in '%s' (looked up from $PWD towards $HOME)\n", configDefault)
}

// showVersion
//
func showVersion() {
	fmt.Println("vimtree", versionString())
}

// main
//
//goland:noinspection GoUnhandledErrorResult // fmt.*
func main() {
	// NOTE: Instead of os.Exit, set exitCode then return
	//
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	config.ErrOut = os.Stderr
	config.Me = path.Base(os.Args[0])
	// Configure logging
	//
	log.SetFlags(0)
	log.SetPrefix(config.Me + ": ")
	// Capture panics as log messages
	//
	//goland:noinspection GoBoolExpressions
	if hidePanic {
		defer func() {
			if r := recover(); r != nil {
				// ~= log.Fatal
				log.Print(r)
				exitCode = 1
			}
		}()
	}

	// 'version' as a bare first arg works like --version
	//
	if len(os.Args) > 1 && strings.EqualFold(os.Args[1], "version") {
		showVersion()
		return
	}

	prettyOut = term.IsTerminal(int(os.Stdout.Fd()))
	loadConfigDefaults()

	var stop bool
	if exitCode, stop = parseArgs(); stop {
		return
	}

	// No file arguments means stdin
	//
	files := os.Args
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		fileBytes, err := readInput(file)
		if err != nil {
			if pathErr, ok := err.(*os.PathError); ok {
				err = pathErr.Unwrap()
			}
			log.Printf("ERROR: %s: %s", file, err)
			exitCode = 2
			return
		}
		tree := grammar.ParseBytes(fileBytes)
		for _, d := range tree.Diags {
			fmt.Fprintf(config.ErrOut, "%s:%d:%d: %s\n", displayName(file), d.At.Line, d.At.Col, d.Msg)
		}
		if len(tree.Diags) > 0 && exitCode == 0 {
			exitCode = 1
		}
		if err = emit(tree); err != nil {
			log.Printf("ERROR: %s", err)
			exitCode = 2
			return
		}
	}
}

// emit prints one parsed tree per the output options.
//
func emit(tree *ast.Tree) error {
	if !asJSON && queryPath == "" {
		ast.Fprint(os.Stdout, tree)
		return nil
	}
	doc, err := ast.Marshal(tree)
	if err != nil {
		return err
	}
	if queryPath != "" {
		res := gjson.GetBytes(doc, queryPath)
		if !res.Exists() {
			fmt.Println("null")
			return nil
		}
		doc = []byte(res.Raw)
	}
	if prettyOut {
		doc = pretty.Pretty(doc)
		if !noColor && term.IsTerminal(int(os.Stdout.Fd())) {
			doc = pretty.Color(doc, nil)
		}
	}
	_, err = os.Stdout.Write(doc)
	if err == nil && (len(doc) == 0 || doc[len(doc)-1] != '\n') {
		_, err = fmt.Println()
	}
	return err
}

func parseArgs() (int, bool) {
	flag.CommandLine.Init(config.Me, flag.ContinueOnError)
	flag.CommandLine.SetOutput(config.ErrOut)

	var showHelpOpt bool
	var showVersionOpt bool
	flag.BoolVar(&showHelpOpt, "help", false, "")
	flag.BoolVar(&showHelpOpt, "h", false, "")
	flag.BoolVar(&showVersionOpt, "version", false, "")
	flag.BoolVar(&asJSON, "json", asJSON, "")
	flag.BoolVar(&asJSON, "j", asJSON, "")
	flag.StringVar(&queryPath, "query", queryPath, "")
	flag.StringVar(&queryPath, "q", queryPath, "")
	flag.BoolVar(&prettyOut, "pretty", prettyOut, "")
	flag.BoolVar(&prettyOut, "p", prettyOut, "")
	flag.BoolVar(&noColor, "no-color", noColor, "")
	flag.BoolVar(&config.ShowTokens, "tokens", config.ShowTokens, "")
	flag.BoolVar(&config.ShowTokens, "t", config.ShowTokens, "")
	flag.BoolVar(&config.EnableFnTrace, "v", config.EnableFnTrace, "")
	exitCode := 0
	// Invoked if error parsing args - sets exit code 2
	//
	flag.CommandLine.Usage = func() {
		showUsageHint()
		exitCode = 2
	}
	flag.Parse()
	if exitCode != 0 {
		return exitCode, true
	}
	if showHelpOpt {
		showHelp()
		return 2, true
	}
	if showVersionOpt {
		showVersion()
		return 0, true
	}
	os.Args = flag.Args()
	return 0, false
}

// loadConfigDefaults seeds the output options from the nearest config
// file, when one exists. Flags still win.
//
func loadConfigDefaults() {
	file := util.GetEnvOrDefault(configEnv, "")
	if file == "" {
		file = tryFindConfig()
	}
	if file == "" {
		return
	}
	bytes, exists, err := util.ReadFileIfExists(file)
	if !exists || err != nil {
		return
	}
	if !gjson.ValidBytes(bytes) {
		log.Printf("WARNING: %s: not valid JSON, ignoring", file)
		return
	}
	if v := gjson.GetBytes(bytes, "json"); v.Exists() {
		asJSON = v.Bool()
	}
	if v := gjson.GetBytes(bytes, "pretty"); v.Exists() {
		prettyOut = v.Bool()
	}
	if v := gjson.GetBytes(bytes, "noColor"); v.Exists() {
		noColor = v.Bool()
	}
	if v := gjson.GetBytes(bytes, "query"); v.Exists() {
		queryPath = v.String()
	}
}

// tryFindConfig looks for '.vimtree.json' in the working directory,
// then walks up. $HOME is an INCLUSIVE stop; filesystem root otherwise.
//
func tryFindConfig() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	wd = path.Clean(wd)
	home := path.Clean(os.Getenv("HOME")) // not present => '.'
	for {
		file := filepath.Join(wd, configDefault)
		if _, exists, _ := util.StatIfExists(file); exists {
			return file
		}
		if wd == home {
			return ""
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return ""
		}
		wd = parent
	}
}

// displayName gives stdin a printable name in diagnostics.
//
func displayName(file string) string {
	if file == "-" {
		return "<stdin>"
	}
	return file
}

// readInput returns the contents of the file, or stdin for '-'.
//
func readInput(file string) ([]byte, error) {
	if file == "-" {
		return ioutil.ReadAll(os.Stdin)
	}
	var (
		err   error
		f     *os.File
		bytes []byte
	)
	// filePath.Clean to appease the gosec gods [G304 (CWE-22)]
	//
	if f, err = os.Open(filepath.Clean(file)); err == nil {
		defer func() { _ = f.Close() }()
		if bytes, err = ioutil.ReadAll(f); err == nil {
			return bytes, nil
		}
	}
	return nil, err
}
