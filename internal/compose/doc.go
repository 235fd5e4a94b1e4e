// Package compose paints laid out covers onto the output canvas and writes
// the finished image.
//
// Each cover is stretched to exactly fill its rectangle; the aspect ratio of
// the source is not preserved because the rectangle size encodes the weight.
// Covers that are missing or cannot be decoded never stop a run: they are
// skipped (leaving background) or filled with a placeholder color, and the
// decode failures are returned to the caller.
//
// # Output
//
// Write picks PNG or JPEG from the file extension and always writes through a
// temporary file in the destination directory. A failed write leaves no
// partial output behind.
package compose
