package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"

	"sable/internal/ast"
	"sable/internal/ir"
	"sable/internal/lexer"
	"sable/internal/parser"
	"sable/internal/types"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "sable",
	Short:   "Sable language CLI",
	Version: version,
}

var checkCmd = &cobra.Command{
	Use:   "check <file.sb>",
	Short: "Parse and type-check a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := parseFile(args[0])
		if err != nil {
			return err
		}
		if err := types.Check(prog); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	},
}

var inferCmd = &cobra.Command{
	Use:   "infer <file.sb>",
	Short: "Infer and print the types of unannotated bindings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := parseFile(args[0])
		if err != nil {
			return err
		}
		bindings, err := types.Infer(prog)
		if err != nil {
			return err
		}

		byName := make(map[string]string, len(bindings.Lets))
		for let, typ := range bindings.Lets {
			byName[fmt.Sprintf("%d:%d %s", let.Pos().Line, let.Pos().Column, let.Name)] = typ.String()
		}
		keys := maps.Keys(byName)
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s: %s\n", k, byName[k])
		}
		return nil
	},
}

var (
	buildOptimize bool
	buildDumpIR   bool
)

var buildCmd = &cobra.Command{
	Use:   "build <file.sb>",
	Short: "Type-check and lower a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := parseFile(args[0])
		if err != nil {
			return err
		}
		if err := types.Check(prog); err != nil {
			return err
		}
		mod, err := ir.Lower(prog)
		if err != nil {
			return err
		}
		if buildOptimize {
			if err := ir.Optimize(mod); err != nil {
				return err
			}
		}
		if buildDumpIR {
			fmt.Print(mod)
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVarP(&buildOptimize, "optimize", "O", false, "run the optimizer")
	buildCmd.Flags().BoolVar(&buildDumpIR, "dump-ir", false, "print the lowered instructions")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(inferCmd)
	rootCmd.AddCommand(buildCmd)
}

func parseFile(path string) (*ast.Program, error) {
	if ext := filepath.Ext(path); ext != ".sb" {
		return nil, fmt.Errorf("%s: expected a .sb source file", path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	l := lexer.New(string(src))
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("%s:\n  %s", path, strings.Join(errs, "\n  "))
	}
	return prog, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
