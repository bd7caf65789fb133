package postgres

import sq "github.com/Masterminds/squirrel"

// QB is the query builder with PostgreSQL placeholder format, shared by
// every collaborator in this package.
var QB = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
