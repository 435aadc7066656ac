package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wizenheimer/trecsearch"
)

// consoleTopDocs is how many ranked documents the console prints per query
const consoleTopDocs = 5

var consoleMethod string

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "answer queries typed on stdin",
	Long:  `console loads the index (building it first when the index file does not exist) and answers one query per line until "EXIT".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if consoleMethod != trecsearch.MethodTerm && consoleMethod != trecsearch.MethodTfIdf {
			return fmt.Errorf("invalid method %q: use %q or %q", consoleMethod, trecsearch.MethodTerm, trecsearch.MethodTfIdf)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.engine.Open(); err != nil {
			return err
		}
		return runConsole(a.engine, consoleMethod, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().StringVarP(&consoleMethod, "method", "m", trecsearch.MethodTerm, "search method: term or tfidf")
}

// runConsole reads queries from in until "EXIT" or end of input and writes the
// answers to out
func runConsole(engine *trecsearch.Engine, method string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Index loaded with %d terms.\n", engine.Index().Len())
	if method == trecsearch.MethodTfIdf {
		fmt.Fprintln(out, `Enter your search query with TFIDF search (or type "EXIT" to quit):`)
	} else {
		fmt.Fprintln(out, `Enter your search query with term search (or type "EXIT" to quit):`)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		query := scanner.Text()
		if query == "EXIT" {
			fmt.Fprintln(out, "Good Bye!")
			return nil
		}

		var err error
		if method == trecsearch.MethodTfIdf {
			err = printTfIdf(engine, query, out)
		} else {
			err = printTerm(engine, query, out)
		}
		if err != nil {
			return err
		}
	}
}

func printTerm(engine *trecsearch.Engine, query string, out io.Writer) error {
	docIDs, err := engine.QueryWithTerm(query)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, docIDs)
	fmt.Fprintf(out, "Total %d documents found.\n", len(docIDs))
	return nil
}

func printTfIdf(engine *trecsearch.Engine, query string, out io.Writer) error {
	result, err := engine.QueryWithTfIdf(query, engine.DefaultTfIdfOptions())
	if err != nil {
		return err
	}

	top := result.Documents[:min(consoleTopDocs, len(result.Documents))]
	docs := make([]string, len(top))
	for i, doc := range top {
		docs[i] = fmt.Sprintf("(%d, %.4f)", doc.DocID, doc.Score)
	}
	terms := make([]string, len(result.Suggestions))
	for i, term := range result.Suggestions {
		terms[i] = fmt.Sprintf("(%s, %.4f)", term.Term, term.Score)
	}

	fmt.Fprintf(out, "Top Documents: [%s]\n", strings.Join(docs, ", "))
	fmt.Fprintf(out, "Suggested Terms: [%s]\n", strings.Join(terms, ", "))
	fmt.Fprintf(out, "Total %d documents found.\n", len(result.Documents))
	return nil
}
