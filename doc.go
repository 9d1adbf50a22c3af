// Package pgfrag assembles parameterized PostgreSQL statements from typed,
// composable fragments.
/*

pgfrag provides:

- An identifier sanitizer that decides whether a name can be embedded
  literally, must be double-quoted, or has to be rejected,
- A quote-aware comment stripper that removes SQL comments without ever
  touching the contents of single-quoted, double-quoted or dollar-quoted
  string literals,
- A parameter renumberer that splices independently numbered fragments
  ($1, $2, ...) into one statement with collision-free placeholder numbering,
- Subquery, CTE and set-operation builders on top of the renumberer,
- A fluent statement builder that converts ? placeholders into numbered
  ones ($1, $2, etc) and maps selected columns to variables for Scan.
*/
package pgfrag
