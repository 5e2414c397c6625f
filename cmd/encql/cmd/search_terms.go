package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/solatis/encql"
	"github.com/solatis/encql/internal/core/config"
	"github.com/solatis/encql/internal/types"
	"github.com/spf13/cobra"
)

var (
	termsInput     string
	identityClaims []string
)

var searchTermsCmd = &cobra.Command{
	Use:   "search-terms",
	Short: "Encrypt a batch of query terms and print their wire literals",
	Long: `Reads a JSON array of query terms, performs one engine round trip,
and prints one formatted search value per term. Null terms print as null
at their original position.`,
	RunE: runSearchTerms,
}

func init() {
	rootCmd.AddCommand(searchTermsCmd)
	searchTermsCmd.Flags().StringVar(&termsInput, "input", "-", "terms file (JSON array), - for stdin")
	searchTermsCmd.Flags().StringSliceVar(&identityClaims, "identity-claim", nil, "identity claims to scope the session to")
}

// termSpec is the JSON wire form of one term on the CLI.
type termSpec struct {
	Table       string         `json:"table"`
	Column      string         `json:"column"`
	Indexes     types.IndexSet `json:"indexes"`
	Path        any            `json:"path,omitempty"`
	Value       any            `json:"value,omitempty"`
	Contains    map[string]any `json:"contains,omitempty"`
	ContainedBy map[string]any `json:"containedBy,omitempty"`
	QueryType   string         `json:"queryType,omitempty"`
	ReturnType  string         `json:"returnType,omitempty"`
}

func runSearchTerms(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	accessKey, err := config.AccessKey()
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}

	specs, err := readTermSpecs(termsInput)
	if err != nil {
		return err
	}

	terms := make([]encql.QueryTerm, 0, len(specs))
	for i, spec := range specs {
		term, err := spec.toTerm()
		if err != nil {
			return fmt.Errorf("term %d: %w", i, err)
		}
		terms = append(terms, term)
	}

	eng := encql.NewHTTPEngine(cfg.EngineURL, cfg.WorkspaceID, accessKey, cfg.RequestTimeout)
	client := encql.New(eng, encql.WithLogger(logger))

	op := client.CreateSearchTerms(terms)
	if subject := config.SubjectToken(); subject != "" {
		op = op.WithLockContext(encql.NewTokenResolver(cfg.TokenServiceURL, subject, identityClaims))
	}

	results, err := op.Execute(context.Background())
	if err != nil {
		return err
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	return out.Encode(results)
}

func readTermSpecs(input string) ([]termSpec, error) {
	var r io.Reader = os.Stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var specs []termSpec
	if err := json.NewDecoder(r).Decode(&specs); err != nil {
		return nil, fmt.Errorf("failed to decode terms: %w", err)
	}
	return specs, nil
}

func (s termSpec) toTerm() (encql.QueryTerm, error) {
	kind, err := types.ParseOperationKind(s.QueryType)
	if err != nil {
		return encql.QueryTerm{}, err
	}
	rt, err := types.ParseReturnType(s.ReturnType)
	if err != nil {
		return encql.QueryTerm{}, err
	}
	return encql.QueryTerm{
		Table:       s.Table,
		Column:      encql.Column{Name: s.Column, Indexes: s.Indexes},
		Path:        s.Path,
		Value:       s.Value,
		Contains:    s.Contains,
		ContainedBy: s.ContainedBy,
		QueryType:   kind,
		ReturnType:  rt,
	}, nil
}
