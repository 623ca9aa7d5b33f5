package analyzer

import (
	"context"
	"fmt"
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

const (
	parserTreeSitter  = "tree-sitter"
	parserKeywordScan = "keyword-scan"
)

// grammar describes how to read complexity and structure out of one language's syntax tree.
type grammar struct {
	language *sitter.Language

	// node types that add one decision point
	decisions map[string]bool

	// node types whose operator child adds a decision point when it is in boolOps
	binaryNode string
	boolOps    map[string]bool

	functions map[string]bool
	classes   map[string]bool
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

var (
	pythonGrammar = &grammar{
		language:   python.GetLanguage(),
		decisions:  set("if_statement", "elif_clause", "for_statement", "while_statement", "except_clause"),
		binaryNode: "boolean_operator",
		boolOps:    set("and", "or"),
		functions:  set("function_definition"),
		classes:    set("class_definition"),
	}

	goGrammar = &grammar{
		language:   golang.GetLanguage(),
		decisions:  set("if_statement", "for_statement", "expression_case", "type_case", "communication_case"),
		binaryNode: "binary_expression",
		boolOps:    set("&&", "||"),
		functions:  set("function_declaration", "method_declaration"),
		classes:    set("struct_type"),
	}

	jsDecisions = set("if_statement", "for_statement", "for_in_statement", "while_statement",
		"do_statement", "catch_clause", "switch_case", "ternary_expression")
	jsFunctions = set("function_declaration", "function", "function_expression", "arrow_function",
		"method_definition", "generator_function_declaration")

	javascriptGrammar = &grammar{
		language:   javascript.GetLanguage(),
		decisions:  jsDecisions,
		binaryNode: "binary_expression",
		boolOps:    set("&&", "||", "??"),
		functions:  jsFunctions,
		classes:    set("class_declaration", "class"),
	}

	typescriptGrammar = &grammar{
		language:   typescript.GetLanguage(),
		decisions:  jsDecisions,
		binaryNode: "binary_expression",
		boolOps:    set("&&", "||", "??"),
		functions:  jsFunctions,
		classes:    set("class_declaration", "class", "abstract_class_declaration"),
	}
)

var grammars = map[string]*grammar{
	"python":     pythonGrammar,
	"go":         goGrammar,
	"javascript": javascriptGrammar,
	"typescript": typescriptGrammar,
}

type structure struct {
	complexity int
	functions  *int
	classes    *int
	parser     string
}

// measureStructure parses code with the language's grammar when one exists and
// falls back to a keyword scan for other languages or code with syntax errors.
func measureStructure(ctx context.Context, code, language string) (structure, error) {
	g, ok := grammars[language]
	if !ok {
		return keywordStructure(code), nil
	}

	st, parsed, err := treeStructure(ctx, g, []byte(code))
	if err != nil {
		return structure{}, err
	}
	if !parsed {
		return keywordStructure(code), nil
	}
	return st, nil
}

func treeStructure(ctx context.Context, g *grammar, src []byte) (structure, bool, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(g.language)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return structure{}, false, fmt.Errorf("failed to parse code: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return structure{}, false, nil
	}

	complexity, functions, classes := 1, 0, 0
	walk(root, func(n *sitter.Node) {
		// keyword tokens such as "function" or "class" share names with node types
		if !n.IsNamed() {
			return
		}
		typ := n.Type()
		switch {
		case g.decisions[typ]:
			complexity++
		case typ == g.binaryNode:
			if op := n.ChildByFieldName("operator"); op != nil && g.boolOps[op.Type()] {
				complexity++
			}
		}
		if g.functions[typ] {
			functions++
		}
		if g.classes[typ] {
			classes++
		}
	})

	return structure{
		complexity: complexity,
		functions:  &functions,
		classes:    &classes,
		parser:     parserTreeSitter,
	}, true, nil
}

func walk(n *sitter.Node, visit func(*sitter.Node)) {
	visit(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}

var decisionKeywords = []*regexp.Regexp{
	regexp.MustCompile(`\bif\b`),
	regexp.MustCompile(`\bfor\b`),
	regexp.MustCompile(`\bwhile\b`),
	regexp.MustCompile(`\bswitch\b`),
	regexp.MustCompile(`\bcatch\b`),
	regexp.MustCompile(`\bcase\b`),
	regexp.MustCompile(`&&`),
	regexp.MustCompile(`\|\|`),
}

func keywordComplexity(code string) int {
	complexity := 1
	for _, re := range decisionKeywords {
		complexity += len(re.FindAllStringIndex(code, -1))
	}
	return complexity
}

func keywordStructure(code string) structure {
	return structure{
		complexity: keywordComplexity(code),
		parser:     parserKeywordScan,
	}
}
