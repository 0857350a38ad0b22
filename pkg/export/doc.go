// Package export stores rendered snapshots of the notes index.
//
// A Snapshot is a complete HTML page. Sinks persist snapshots under a name
// and prune old ones:
//
//	snap, err := export.Render("index.html", page)
//	loc, err := sink.Put(ctx, snap)
//
// DiskSink writes into a directory. S3Sink uploads to a bucket with
// aws-sdk-go-v2 and can return presigned URLs.
package export
