// Command sqllint checks that every SQL statement declared as a Go string constant or
// variable starts with a `--sql <uuid>` marker line and that no two statements share
// a marker. Run it over internal/sqlinline before committing new queries.
package main

import (
	"errors"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"uniformgen/internal/infra"
)

var statementKeywords = map[string]bool{
	"select": true, "insert": true, "update": true, "delete": true,
	"with": true, "create": true, "alter": true, "drop": true,
}

var statementClauses = []string{" from ", " into ", " table ", " set ", " index ", " where "}

type violation struct {
	file    string
	name    string
	line    int
	message string
}

func (v violation) String() string {
	return fmt.Sprintf("%s:%d %s (%s)", v.file, v.line, v.message, v.name)
}

func main() {
	flag.Parse()
	targets := flag.Args()
	if len(targets) == 0 {
		targets = []string{"."}
	}
	os.Exit(run(targets, os.Stderr))
}

func run(targets []string, stderr io.Writer) int {
	violations, err := lint(targets)
	if err != nil {
		fmt.Fprintf(stderr, "sqllint: %v\n", err)
		return 1
	}
	if len(violations) > 0 {
		fmt.Fprintln(stderr, "sqllint: SQL audit marker problems")
		for _, v := range violations {
			fmt.Fprintf(stderr, "  %s\n", v)
		}
		return 1
	}
	return 0
}

func lint(targets []string) ([]violation, error) {
	l := &linter{fset: token.NewFileSet(), seen: map[string]string{}}
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if filepath.Ext(target) == ".go" {
				if err := l.lintFile(target, nil); err != nil {
					return nil, err
				}
			}
			continue
		}
		err = filepath.WalkDir(target, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if path != target && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			return l.lintFile(path, nil)
		})
		if err != nil {
			return nil, err
		}
	}
	return l.violations, nil
}

type linter struct {
	fset       *token.FileSet
	seen       map[string]string
	violations []violation
}

// lintFile parses path, or src when it is non-nil, and records violations.
func (l *linter) lintFile(path string, src any) error {
	file, err := parser.ParseFile(l.fset, path, src, parser.SkipObjectResolution)
	if err != nil {
		return err
	}
	ast.Inspect(file, func(n ast.Node) bool {
		vs, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		for i, value := range vs.Values {
			bl, ok := value.(*ast.BasicLit)
			if !ok || bl.Kind != token.STRING {
				continue
			}
			raw, err := unquote(bl.Value)
			if err != nil || !looksLikeStatement(raw) {
				continue
			}
			name := "_"
			if i < len(vs.Names) {
				name = vs.Names[i].Name
			}
			l.check(path, name, l.fset.Position(bl.Pos()).Line, raw)
		}
		return true
	})
	return nil
}

func (l *linter) check(path, name string, line int, raw string) {
	marker, _, err := infra.ExtractMarker(raw)
	if errors.Is(err, infra.ErrMissingMarker) {
		l.violations = append(l.violations, violation{file: path, name: name, line: line, message: "missing or invalid --sql <uuid> marker"})
		return
	}
	if prev, dup := l.seen[marker]; dup {
		l.violations = append(l.violations, violation{file: path, name: name, line: line, message: "marker " + marker + " already used by " + prev})
		return
	}
	l.seen[marker] = name
}

// looksLikeStatement reports whether the first non-comment line opens with an SQL verb
// followed by a clause keyword somewhere in the text.
func looksLikeStatement(raw string) bool {
	body := raw
	for {
		body = strings.TrimLeft(body, "\n\r \t")
		if !strings.HasPrefix(body, "--") {
			break
		}
		_, rest, ok := strings.Cut(body, "\n")
		if !ok {
			return false
		}
		body = rest
	}
	first, _, _ := strings.Cut(body, " ")
	if !statementKeywords[strings.ToLower(strings.TrimSpace(first))] {
		return false
	}
	flat := " " + strings.ToLower(strings.Join(strings.Fields(body), " ")) + " "
	for _, clause := range statementClauses {
		if strings.Contains(flat, clause) {
			return true
		}
	}
	return false
}

func unquote(v string) (string, error) {
	if len(v) == 0 {
		return v, nil
	}
	if v[0] == '`' {
		return v[1 : len(v)-1], nil
	}
	return strconv.Unquote(v)
}
