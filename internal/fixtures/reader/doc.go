// Package reader turns fixture files into an ordered sequence of fixture records.
//
// The reader package is responsible for:
//   - Resolving filenames and glob patterns through a filesystem.FileSystemProvider
//   - Decoding file bytes with the configured text encoding
//   - Dispatching to a format parser selected by file extension
//   - Unwrapping the nested {"fixtures": [...]} form
//   - Concatenating results in list order, then glob match order
//
// Files are read one at a time. The order of the returned fixtures is the
// order in which files were matched and records appear inside each file.
package reader
