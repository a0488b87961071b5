package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/parsejoy/grammarlang"
	"github.com/npillmayer/parsejoy/lr"
	"github.com/npillmayer/parsejoy/lr/glr"
	"github.com/npillmayer/parsejoy/lr/sppf"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

// tracers of the parsejoy packages, for setting trace levels
var traceKeys = []string{"parsejoy.lr", "parsejoy.scanner", "parsejoy.grammar"}

// main() reads a grammar, bootstraps an automaton for it and parses the input
// given by flag -code or by the command line arguments. With flag -i it
// goes into interactive mode afterwards, parsing every line entered.
func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	grammarFile := flag.String("grammar", "", "Grammar file")
	codeFile := flag.String("code", "", "Input file to parse")
	repeat := flag.Int("repeat", 1, "Number of parse runs for throughput measurement")
	printAST := flag.Bool("ast", false, "Print syntax tree of grammar as YAML")
	dotFile := flag.String("dot", "", "Write automaton to GraphViz file")
	htmlFile := flag.String("html", "", "Write automaton tables to HTML file")
	debug := flag.Bool("debug", false, "Trace every input offset of a parse run")
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	interactive := flag.Bool("i", false, "Interactive mode")
	flag.Parse()
	setTraceLevel(traceLevel(*tlevel))
	pterm.Info.Println("Welcome to joy")
	//
	if *grammarFile == "" {
		pterm.Error.Println("You need to specify a grammar file via the -grammar flag")
		os.Exit(1)
	}
	source, err := os.ReadFile(*grammarFile)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	if *printAST {
		ast, err := grammarlang.ParseAST(string(source))
		if err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(2)
		}
		if err = grammarlang.DumpAST(os.Stdout, ast); err != nil {
			pterm.Error.Println(err.Error())
		}
	}
	a, err := grammarlang.Bootstrap(string(source), grammarlang.Name(*grammarFile))
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	a.Grammar().Dump() // only visible in debug mode
	pterm.Info.Printf("Grammar has %d rules, automaton has %d states\n",
		a.Grammar().Size(), a.StateCount())
	if err = export(a, *dotFile, *htmlFile); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(3)
	}
	//
	joy := &Joy{
		parser: glr.NewParser(a, glr.Debug(*debug)),
		a:      a,
		repeat: *repeat,
	}
	input := strings.TrimSpace(strings.Join(flag.Args(), " "))
	name := "args"
	if *codeFile != "" {
		code, err := os.ReadFile(*codeFile)
		if err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(1)
		}
		input, name = string(code), *codeFile
	}
	if input != "" {
		if err = joy.Parse(name, input); err != nil && !*interactive {
			os.Exit(4)
		}
	}
	if *interactive {
		repl, err := readline.New("joy> ")
		if err != nil {
			tracer().Errorf(err.Error())
			os.Exit(3)
		}
		joy.repl = repl
		pterm.Info.Println("Quit with <ctrl>D")
		joy.REPL()
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func export(a *lr.Automaton, dotFile, htmlFile string) error {
	if dotFile != "" {
		f, err := os.Create(dotFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err = a.ToGraphViz(f); err != nil {
			return err
		}
		pterm.Info.Printf("Automaton written to %s\n", dotFile)
	}
	if htmlFile != "" {
		f, err := os.Create(htmlFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err = lr.TablesAsHTML(a, f); err != nil {
			return err
		}
		pterm.Info.Printf("Tables written to %s\n", htmlFile)
	}
	return nil
}

// Joy is our interpreter object.
type Joy struct {
	parser *glr.Parser
	a      *lr.Automaton
	repeat int
	repl   *readline.Instance
}

// REPL starts interactive mode. Lines starting with ':' are commands, every
// other line is parsed.
func (joy *Joy) REPL() {
	for {
		line, err := joy.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if quit := joy.Execute(line[1:]); quit {
				break
			}
			continue
		}
		joy.Parse("line", line)
	}
	println("Good bye!")
}

// Execute executes a REPL command.
func (joy *Joy) Execute(cmd string) bool {
	switch cmd {
	case "q", "quit":
		return true
	case "rules":
		pterm.Println(joy.a.Grammar().String())
	case "states":
		for s := 0; s < joy.a.StateCount(); s++ {
			pterm.Println(joy.a.State(s).String())
		}
	default:
		pterm.Error.Printf("Unknown command :%s, use one of :rules :states :quit\n", cmd)
	}
	return false
}

// Parse parses an input, repeatedly if requested, and prints the outcome.
func (joy *Joy) Parse(name, input string) error {
	in := lr.NewTextInput(name, input)
	n := joy.repeat
	if n < 1 {
		n = 1
	}
	var result *glr.Result
	start := time.Now()
	for i := 0; i < n; i++ {
		result = joy.parser.Parse(in)
	}
	elapsed := time.Since(start)
	if n > 1 {
		pterm.Info.Printf("%d runs in %v, %.2f MB/s\n", n, elapsed,
			float64(n*len(input))/elapsed.Seconds()/1024/1024)
	}
	if !result.OK() {
		failure := result.Failure()
		from := failure.Offset - 100
		if from < 0 {
			from = 0
		}
		pterm.Error.Println(failure.Error())
		pterm.Println("... " + input[from:failure.Offset] + " <---")
		return failure
	}
	values := result.Values()
	pterm.Info.Printf("Accepted, %d interpretation(s), %d ambiguities, %d heads\n",
		len(values), len(result.Ambiguities), result.HeadCount())
	root := pterm.NewTreeFromLeveledList(leveledValue(result.Value()))
	pterm.DefaultTree.WithRoot(root).Render()
	return nil
}

// leveledValue flattens a semantic value into a leveled list, for display as a
// tree. The list is created in pre-order.
func leveledValue(v *sppf.Value) pterm.LeveledList {
	type entry struct {
		v     *sppf.Value
		level int
	}
	var ll pterm.LeveledList
	stack := []entry{{v, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.v.IsTerminal() {
			ll = append(ll, pterm.LeveledListItem{Level: e.level, Text: e.v.String()})
			continue
		}
		ll = append(ll, pterm.LeveledListItem{
			Level: e.level,
			Text:  fmt.Sprintf("%s %v", e.v.Symbol.Name, e.v.Span),
		})
		for k := len(e.v.Children) - 1; k >= 0; k-- {
			stack = append(stack, entry{e.v.Children[k], e.level + 1})
		}
	}
	return ll
}

func setTraceLevel(level tracing.TraceLevel) {
	gtrace.SyntaxTracer.SetTraceLevel(level)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}
