package models

import "time"

// FileInfo is a file kept in memory, ready to be served
type FileInfo struct {
	Bytes      []byte
	Compressed []byte
	MediaType  string
	Etag       string
	ModTime    time.Time
}

// StaticFiles maps a request path to its file
type StaticFiles map[string]*FileInfo

// TextFiles maps a request path to a generated text file
type TextFiles map[string]*FileInfo
