// Package commandfile loads external command-list files into the flat list of
// command strings consumed by the engine. Files are parsed by a codec chosen
// from the file extension; the codec set is a small registry so formats are a
// build-time choice. Local paths are read through an afero filesystem and
// remote URLs are fetched with go-getter.
package commandfile
