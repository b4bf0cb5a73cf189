package flatdb

import domrec "github.com/kailas-cloud/flatdb/internal/domain/record"

type (
	// Record is one schemaless JSON object of a collection.
	Record = domrec.Record
	// Query selects records whose fields equal every given value.
	Query = domrec.Query
	// Page is one slice of a collection with its pagination metadata.
	Page = domrec.Page
	// Pagination describes a page and the size of the whole collection.
	Pagination = domrec.Pagination
)

// ByID returns a query selecting the record with the given id.
func ByID(id int64) Query { return domrec.ByID(id) }
