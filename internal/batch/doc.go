// Package batch translates the flat card CSV produced by the converter. Rows
// are grouped into fixed-size batches; the uncached fields of a batch go out
// as a single JSON request whose response is validated item by item. Items
// missing from or invalid in the response fall back to per-field requests,
// so every input row appears in the output.
package batch
