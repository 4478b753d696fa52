// Package ioutils provides file system and archive utilities.
//
// # File Operations
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
//	// Create a destination file, making parent directories as needed
//	f, err := ioutils.CreateFile("/path/to/ebook-package.zip")
//
// # Archives
//
// The Archiver stores downloaded books as members of a single zip file,
// compressed with deflate:
//
//	archiver := ioutils.NewArchiver(flate.DefaultCompression)
//	result, err := archiver.WriteFile(dest, entries)
//	if err != nil {
//	    // dest could not be created or the archive could not be finalized
//	}
//	fmt.Println(result.Written(), result.Failed())
package ioutils
