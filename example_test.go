package pgfrag_test

import (
	"errors"
	"fmt"

	"github.com/thisprojects/pgfrag"
)

func ExampleIdent() {
	for _, name := range []string{"total_amount", "user", "public.users", "first name"} {
		s, err := pgfrag.Ident(name)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println(s)
	}
	// Output:
	// total_amount
	// "user"
	// public.users
	// "first name"
}

func ExampleStripComments() {
	fmt.Printf("%q\n", pgfrag.StripComments("SELECT id -- inline note\nFROM t /* block */WHERE a = 1"))
	fmt.Println(pgfrag.StripComments("SELECT '-- not a comment' FROM t"))
	// Output:
	// "SELECT id \nFROM t WHERE a = 1"
	// SELECT '-- not a comment' FROM t
}

func ExampleCheckExpression() {
	fmt.Println(pgfrag.CheckExpression("COUNT(DISTINCT user_id)", "SELECT"))
	err := pgfrag.CheckExpression("1; DROP TABLE users", "SELECT")
	fmt.Println(errors.Is(err, pgfrag.ErrUnsafeExpression))
	// Output:
	// <nil>
	// true
}

func ExampleRenumber() {
	text, args := pgfrag.Renumber("role = $1 AND dept = $2", []interface{}{"admin", "IT"}, 3)
	fmt.Println(text, args)
	// Output: role = $4 AND dept = $5 [admin IT]
}

func ExampleInSubquery() {
	f, _ := pgfrag.InSubquery("user_id", "SELECT id FROM admins WHERE dept = $1", "IT")
	fmt.Println(f.Text, f.Args)
	// Output: user_id IN (SELECT id FROM admins WHERE dept = $1) [IT]
}

func ExampleCTEBuilder() {
	b := pgfrag.NewCTEBuilder()
	_ = b.With("recent", "SELECT id FROM events WHERE ts > $1", []interface{}{"2024-01-01"})
	sql, args := b.Build("SELECT count(*) FROM recent WHERE kind = $1", []interface{}{"click"})
	fmt.Println(sql)
	fmt.Println(args)
	// Output:
	// WITH recent AS (SELECT id FROM events WHERE ts > $1) SELECT count(*) FROM recent WHERE kind = $2
	// [2024-01-01 click]
}

func ExampleSetOpBuilder() {
	b := pgfrag.NewSetOpBuilder()
	_ = b.Union("SELECT id FROM admins WHERE role = $1", "admin")
	sql, args := b.Build("SELECT id FROM users WHERE status = $1", []interface{}{"active"})
	fmt.Println(sql)
	fmt.Println(args)
	// Output:
	// SELECT id FROM users WHERE status = $1 UNION SELECT id FROM admins WHERE role = $2
	// [active admin]
}

func ExampleStmt_OrderBy() {
	q := pgfrag.NoDialect.Select("id").From("table").OrderBy("id", "name DESC")
	sql, _ := q.Build()
	fmt.Println(sql)
	// Output: SELECT id FROM table ORDER BY id, name DESC
}

func ExampleStmt_Limit() {
	q := pgfrag.NoDialect.Select("id").From("table").Limit(10)
	sql, _ := q.Build()
	fmt.Println(sql)
	// Output: SELECT id FROM table LIMIT ?
}

func ExampleStmt_Paginate() {
	sql, args := pgfrag.NoDialect.Select("id").From("table").Paginate(5, 10).Build()
	fmt.Println(sql, args)
	sql, args = pgfrag.NoDialect.Select("id").From("table").Paginate(1, 10).Build()
	fmt.Println(sql, args)
	// Zero and negative values are replaced with 1
	sql, args = pgfrag.NoDialect.Select("id").From("table").Paginate(-1, -1).Build()
	fmt.Println(sql, args)
	// Output:
	// SELECT id FROM table LIMIT ? OFFSET ? [10 40]
	// SELECT id FROM table LIMIT ? [10]
	// SELECT id FROM table LIMIT ? [1]
}

func ExampleStmt_Update() {
	sql, args := pgfrag.NoDialect.Update("table").Set("field1", "newvalue").Where("id = ?", 42).Build()
	fmt.Println(sql)
	fmt.Println(args)
	// Output:
	// UPDATE table SET field1=? WHERE id = ?
	// [newvalue 42]
}

func ExampleStmt_SetExpr() {
	sql, args := pgfrag.NoDialect.Update("table").SetExpr("field1", "field2 + 1").Where("id = ?", 42).Build()
	fmt.Println(sql)
	fmt.Println(args)
	// Output:
	// UPDATE table SET field1=field2 + 1 WHERE id = ?
	// [42]
}

func ExampleStmt_InsertInto() {
	sql, args := pgfrag.NoDialect.InsertInto("table").
		Set("field1", "newvalue").
		SetExpr("field2", "field2 + 1").
		Build()
	fmt.Println(sql)
	fmt.Println(args)
	// Output:
	// INSERT INTO table ( field1, field2 ) VALUES ( ?, field2 + 1 )
	// [newvalue]
}

func ExampleStmt_DeleteFrom() {
	sql, args := pgfrag.NoDialect.DeleteFrom("table").Where("id = ?", 42).Build()
	fmt.Println(sql)
	fmt.Println(args)
	// Output:
	// DELETE FROM table WHERE id = ?
	// [42]
}

func ExampleStmt_Having() {
	sql, args := pgfrag.NoDialect.From("incomes").
		Select("source, sum(amount) as s").
		Where("amount > ?", 42).
		GroupBy("source").
		Having("s > ?", 100).
		Build()
	fmt.Println(sql)
	fmt.Println(args)
	// Output:
	// SELECT source, sum(amount) as s FROM incomes WHERE amount > ? GROUP BY source HAVING s > ?
	// [42 100]
}

func ExampleStmt_Returning() {
	var newId int
	sql, args := pgfrag.NoDialect.InsertInto("table").
		Set("field1", "newvalue").
		Returning("id").To(&newId).
		Build()
	fmt.Println(sql)
	fmt.Println(args)
	// Output:
	// INSERT INTO table ( field1 ) VALUES ( ? ) RETURNING id
	// [newvalue]
}

func ExampleStmt_WhereFragment() {
	f, _ := pgfrag.ExistsSubquery("SELECT 1 FROM orders WHERE orders.user_id = users.id AND total > $1", 100)
	sql, args := pgfrag.PostgreSQL.From("users").Select("name").WhereFragment(f).Build()
	fmt.Println(sql)
	fmt.Println(args)
	// Output:
	// SELECT name FROM users WHERE EXISTS (SELECT 1 FROM orders WHERE orders.user_id = users.id AND total > $1)
	// [100]
}

func ExampleStmt_Fragment() {
	f := pgfrag.PostgreSQL.From("users").Select("id").Where("status = ?", "active").Fragment()
	fmt.Println(f.Text, f.Args)
	// Output: SELECT id FROM users WHERE status = $1 [active]
}

func ExampleDialect() {
	q := pgfrag.PostgreSQL.From("table").Select("field").Where("id = ?", 42)
	sql, _ := q.Build()
	q.Close()
	fmt.Println(sql)
	// Output:
	// SELECT field FROM table WHERE id = $1
}

func ExampleSetDialect() {
	pgfrag.SetDialect(pgfrag.NoDialect)
	pgfrag.SetDialect(pgfrag.PostgreSQL)
}
