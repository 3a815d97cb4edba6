// Package gallery embeds the minigallery catalog and its free-text search
// in a Go program, backed by Valkey, Redis or an in-process store.
//
//	client, _ := gallery.New(ctx, gallery.WithMemory())
//	defer client.Close()
//
//	report, _ := client.ImportFile(ctx, "collection.yaml", false)
//	res, _ := client.Search(ctx, "necron warriors unopened")
//	for _, b := range res.Batches {
//	    fmt.Println(b.DisplayName, b.Stage, b.Storage)
//	}
//
// A query is split into tokens. Each token is matched against tags,
// categories, stages, unit types, unit names and kits, in that order, and
// the batches selected by every matched token are intersected. Tokens that
// match nothing are reported in SearchResult.Tokens but do not narrow the
// result.
package gallery
