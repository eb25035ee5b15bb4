package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/chrlskrt/bisayaplusplus/pkg/ast"
	"github.com/chrlskrt/bisayaplusplus/pkg/driver"
	"github.com/chrlskrt/bisayaplusplus/pkg/token"
)

func newCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file...]",
		Short: "Scan and parse programs without running them",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := args
			if len(targets) == 0 {
				targets = []string{""}
			}
			failed := 0
			for _, target := range targets {
				var sourceArgs []string
				if target != "" {
					sourceArgs = []string{target}
				}
				src, err := c.loadProgramSource(sourceArgs)
				if err != nil {
					return err
				}
				if _, err := driver.Compile(src); err != nil {
					failed++
					fmt.Fprintln(c.stderr, src.Path+":")
					_ = c.reportError(err)
					continue
				}
				fmt.Fprintln(c.stdout, c.palette.ok("ok"), src.Path)
			}
			if failed > 0 {
				return exitError{code: 1}
			}
			return nil
		},
	}
}

func newTokensCmd(c *cli) *cobra.Command {
	var reconstruct bool
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.loadProgramSource(args)
			if err != nil {
				return err
			}
			tokens, err := driver.Tokenize(src)
			if err != nil {
				return c.reportError(err)
			}
			if reconstruct {
				fmt.Fprint(c.stdout, token.Reconstruct(tokens))
				return nil
			}
			table := tablewriter.NewWriter(c.stdout)
			table.SetHeader([]string{"Line", "Kind", "Lexeme", "Literal"})
			table.SetAutoWrapText(false)
			table.SetAutoFormatHeaders(false)
			for _, tok := range tokens {
				table.Append([]string{
					strconv.Itoa(tok.Line),
					tok.Kind.String(),
					displayLexeme(tok.Lexeme),
					displayLiteral(tok.Literal),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&reconstruct, "reconstruct", false, "print source rebuilt from the tokens instead of a table")
	return cmd
}

func newASTCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ast [file]",
		Short: "Print the parsed syntax tree of a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.loadProgramSource(args)
			if err != nil {
				return err
			}
			prog, err := driver.Compile(src)
			if err != nil {
				return c.reportError(err)
			}
			fmt.Fprintln(c.stdout, ast.Format(prog.Statements))
			return nil
		},
	}
}

func displayLexeme(lexeme string) string {
	return strings.ReplaceAll(lexeme, "\n", `\n`)
}

func displayLiteral(lit any) string {
	switch v := lit.(type) {
	case nil:
		return ""
	case rune:
		return strconv.QuoteRune(v)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}
