// Command jsmid is a thin demonstration driver for the middle-end: it
// reads a JSON-encoded AST fixture (lexing and parsing remain out of
// scope, spec.md §1), lowers it to a CFG, converts to SSA, optimizes, and
// prints the to_string dump of spec.md §6. Modeled directly on
// slowlang-slow's cmd/slow/main.go: one cli.Command per verb, a
// tlog-rooted context threaded into every call, errors wrapped with
// tlog.app/go/errors before being handed back to cli.RunAndExit.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Manifest-Son/JS-Compiler-Project/ast"
	"github.com/Manifest-Son/JS-Compiler-Project/cfgbuild"
	"github.com/Manifest-Son/JS-Compiler-Project/dom"
	"github.com/Manifest-Son/JS-Compiler-Project/ir"
	"github.com/Manifest-Son/JS-Compiler-Project/ssa"
	"github.com/Manifest-Son/JS-Compiler-Project/transform"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

func main() {
	dumpCmd := &cli.Command{
		Name:        "dump",
		Description: "lower a JSON AST fixture to SSA and print every CFG",
		Action:      dumpAct,
		Args:        cli.Args{},
	}

	optCmd := &cli.Command{
		Name:        "optimize",
		Description: "dump, then run constant folding, CSE and DCE to a fixed point",
		Action:      optimizeAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "jsmid",
		Description: "jsmid lowers a JS AST fixture through the middle-end pipeline",
		Commands: []*cli.Command{
			dumpCmd,
			optCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func dumpAct(c *cli.Command) error {
	ctx := rootContext()
	return withUnit(ctx, c, func(unit *cfgbuild.Unit) error {
		return printUnit(ctx, unit, false)
	})
}

func optimizeAct(c *cli.Command) error {
	ctx := rootContext()
	return withUnit(ctx, c, func(unit *cfgbuild.Unit) error {
		return printUnit(ctx, unit, true)
	})
}

func rootContext() context.Context {
	return tlog.ContextWithSpan(context.Background(), tlog.Root())
}

// withUnit reads, parses and lowers every fixture path in c.Args, calling
// fn once per resulting Unit.
func withUnit(ctx context.Context, c *cli.Command, fn func(*cfgbuild.Unit) error) error {
	for _, path := range c.Args {
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(err, "read fixture %v", path)
		}
		prog, err := ast.DecodeProgram(data)
		if err != nil {
			return errors.Wrap(err, "decode fixture %v", path)
		}
		unit, err := cfgbuild.Build(ctx, prog)
		if err != nil {
			return errors.Wrap(err, "build %v", path)
		}
		if err := fn(unit); err != nil {
			return errors.Wrap(err, "process %v", path)
		}
	}
	return nil
}

func printUnit(ctx context.Context, unit *cfgbuild.Unit, optimize bool) error {
	if err := toSSA(ctx, unit.Main, optimize); err != nil {
		return err
	}
	fmt.Printf("// main\n%s\n", unit.Main.String())
	for _, fn := range unit.Functions {
		if err := toSSA(ctx, fn.CFG, optimize); err != nil {
			return err
		}
		fmt.Printf("// function %s\n%s\n", fn.Name, fn.CFG.String())
	}
	return nil
}

func toSSA(ctx context.Context, g *ir.ControlFlowGraph, optimize bool) error {
	dom.Compute(ctx, g)
	if err := ssa.InsertPhis(ctx, g); err != nil {
		return err
	}
	if err := ssa.Rename(ctx, g); err != nil {
		return err
	}
	if err := g.Validate(true); err != nil {
		return errors.Wrap(err, "validate")
	}
	if !optimize {
		return nil
	}
	for {
		folded, err := transform.ConstantFold(ctx, g)
		if err != nil {
			return err
		}
		cseChanged := transform.CommonSubexpressionElimination(ctx, g)
		dceChanged, err := transform.DeadCodeElimination(ctx, g)
		if err != nil {
			return err
		}
		if !folded && !cseChanged && !dceChanged {
			return nil
		}
	}
}
