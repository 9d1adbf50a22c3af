package cmd

import (
	"fmt"
	"os"
	"regexp"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/thisprojects/pgfrag"
	"gopkg.in/yaml.v3"
)

// composeSpec is the YAML document format accepted by the compose and run
// commands. Placeholders in every query body are written $1, $2... relative
// to that body's own args list; composition renumbers them.
type composeSpec struct {
	Query   string        `yaml:"query"`
	Args    []interface{} `yaml:"args"`
	CTEs    []cteSpec     `yaml:"ctes"`
	Filters []filterSpec  `yaml:"filters"`
	SetOps  []setOpSpec   `yaml:"set_ops"`
}

type cteSpec struct {
	Name    string        `yaml:"name"`
	Columns []string      `yaml:"columns"`
	Query   string        `yaml:"query"`
	Args    []interface{} `yaml:"args"`
}

// filterSpec describes one subquery filter appended to the base query's
// WHERE clause. Exactly one of the subquery fields must be set. A base
// query with no WHERE clause of its own gets one added by the first filter.
type filterSpec struct {
	Column string        `yaml:"column"`
	In     string        `yaml:"in"`
	NotIn  string        `yaml:"not_in"`
	Exists string        `yaml:"exists"`
	Args   []interface{} `yaml:"args"`
}

type setOpSpec struct {
	Op    string        `yaml:"op"`
	Query string        `yaml:"query"`
	Args  []interface{} `yaml:"args"`
}

var stripBodies bool

// wherePattern decides whether the base query already filters. A WHERE
// inside a subquery of the base text also matches; a base query that only
// filters inside subqueries must spell out its own WHERE clause.
var wherePattern = regexp.MustCompile(`(?i)\bWHERE\b`)

var composeCmd = &cobra.Command{
	Use:   "compose file.yaml",
	Short: "Compose a base query with CTE, filter and set-operation fragments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := readSpec(args[0])
		if err != nil {
			return err
		}
		sql, sqlArgs, err := compose(spec)
		if err != nil {
			return err
		}
		fmt.Println(sql)
		for i, arg := range sqlArgs {
			fmt.Printf("$%d = %v\n", i+1, arg)
		}
		return nil
	},
}

func init() {
	composeCmd.Flags().BoolVar(&stripBodies, "strip", false, "strip SQL comments from query bodies before composing")
	rootCmd.AddCommand(composeCmd)
}

func readSpec(path string) (*composeSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var spec composeSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if spec.Query == "" {
		return nil, fmt.Errorf("%s: missing base query", path)
	}
	return &spec, nil
}

func compose(spec *composeSpec) (string, []interface{}, error) {
	body := func(s string) string {
		if stripBodies {
			return pgfrag.StripComments(s)
		}
		return s
	}

	text := body(spec.Query)
	args := append([]interface{}(nil), spec.Args...)

	for i, f := range spec.Filters {
		frag, err := buildFilter(f, body)
		if err != nil {
			return "", nil, err
		}
		shifted := frag.Renumbered(len(args))
		logrus.Debugf("filter fragment: %s", shifted.Text)
		sep := " AND "
		if i == 0 && !wherePattern.MatchString(text) {
			sep = " WHERE "
		}
		text += sep + shifted.Text
		args = append(args, shifted.Args...)
	}

	if len(spec.SetOps) > 0 {
		b := pgfrag.NewSetOpBuilder()
		for _, s := range spec.SetOps {
			var err error
			switch s.Op {
			case "", "union":
				err = b.Union(body(s.Query), s.Args...)
			case "union all":
				err = b.UnionAll(body(s.Query), s.Args...)
			case "intersect":
				err = b.Intersect(body(s.Query), s.Args...)
			case "except":
				err = b.Except(body(s.Query), s.Args...)
			default:
				err = fmt.Errorf("unknown set operation %q", s.Op)
			}
			if err != nil {
				return "", nil, err
			}
		}
		text, args = b.Build(text, args)
	}

	if len(spec.CTEs) > 0 {
		b := pgfrag.NewCTEBuilder()
		for _, c := range spec.CTEs {
			if err := b.With(c.Name, body(c.Query), c.Args, c.Columns...); err != nil {
				return "", nil, err
			}
		}
		text, args = b.Build(text, args)
	}

	return text, args, nil
}

func buildFilter(f filterSpec, body func(string) string) (pgfrag.Fragment, error) {
	switch {
	case f.In != "":
		return pgfrag.InSubquery(f.Column, body(f.In), f.Args...)
	case f.NotIn != "":
		return pgfrag.NotInSubquery(f.Column, body(f.NotIn), f.Args...)
	case f.Exists != "":
		return pgfrag.ExistsSubquery(body(f.Exists), f.Args...)
	}
	return pgfrag.Fragment{}, fmt.Errorf("filter on %q: one of in, not_in, exists is required", f.Column)
}
