// Package query turns the query-string DSL of list endpoints into a
// validated intermediate representation, [Spec].
//
// Supported parameters:
//
//	field=value              equality (repeat the key to match any of several values)
//	field[gt|gte|lt|lte]=v   comparison
//	sort=field1,-field2      ordering, leading minus is descending
//	fields=field1,field2     projection, "-field" excludes instead
//	page=N&limit=N           pagination, skip = (page-1)*limit
//
// Field names are not checked here. The store layer resolves them against
// the resource schema and rejects anything unknown.
package query
