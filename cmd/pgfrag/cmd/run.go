package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

var driverName = map[string]string{
	"postgres": "pgx",
	"sqlite":   "sqlite3",
}

const maxRows = 1000

var (
	runDSN    string
	runEngine string
)

var runCmd = &cobra.Command{
	Use:   "run file.yaml",
	Short: "Compose a query document and execute it against a database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := readSpec(args[0])
		if err != nil {
			return err
		}
		query, queryArgs, err := compose(spec)
		if err != nil {
			return err
		}

		driver, ok := driverName[runEngine]
		if !ok {
			return fmt.Errorf("no driver for engine %q", runEngine)
		}
		db, err := sql.Open(driver, runDSN)
		if err != nil {
			return fmt.Errorf("open: %w", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping: %w", err)
		}

		logrus.Debugf("executing: %s %v", query, queryArgs)
		rows, err := db.QueryContext(ctx, query, queryArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(cols, "\t"))

		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		n := 0
		for rows.Next() && n < maxRows {
			if err := rows.Scan(ptrs...); err != nil {
				return err
			}
			fields := make([]string, len(vals))
			for i, v := range vals {
				if b, ok := v.([]byte); ok {
					v = string(b)
				}
				fields[i] = fmt.Sprintf("%v", v)
			}
			fmt.Println(strings.Join(fields, "\t"))
			n++
		}
		return rows.Err()
	},
}

func init() {
	runCmd.Flags().BoolVar(&stripBodies, "strip", false, "strip SQL comments from query bodies before composing")
	runCmd.Flags().StringVar(&runDSN, "dsn", "", "database connection string")
	runCmd.Flags().StringVar(&runEngine, "engine", "postgres", "database engine: postgres or sqlite")
	_ = runCmd.MarkFlagRequired("dsn")
	rootCmd.AddCommand(runCmd)
}
