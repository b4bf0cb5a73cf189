// Package flatdb embeds the flatdb record store in a Go program without the
// HTTP layer.
//
// Collections are JSON arrays of schemaless records kept in a directory of
// files, a SQLite database, Redis or process memory:
//
//	client, _ := flatdb.New(ctx, flatdb.WithDataDir("./data"))
//	defer client.Close()
//
//	u, _ := client.Users().Create(ctx, flatdb.Record{"name": "Ivan"})
//	page, _ := client.Users().Paginate(ctx, 1, 10)
//
//	n, _ := client.Records("orders").UpdateMany(ctx,
//	    flatdb.Query{"status": "new"},
//	    flatdb.Record{"status": "paid"},
//	)
package flatdb
