// Package source holds the source-code bookkeeping shared by every stage of
// the compiler pipeline.
package source

// File represents a chunk of source code handed to the compiler. Name is
// the path the user supplied; Base is Name with its trailing ".ion"
// stripped, used to derive the output ".asm" filename.
type File struct {
	Name     string
	Base     string
	Contents string
}
