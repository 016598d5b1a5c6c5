// Package io reads analyzer batches and writes formatted interpretations
// as JSON.
//
// # Batch Format
//
// A batch holds analysis results, each a sentence with its candidate
// meaning graphs:
//
//	[
//	  {
//	    "sent-num": 1,
//	    "sentence": "The cat sat.",
//	    "results": [
//	      {"TMR": {"SIT-1": {"AGENT": "CAT-1", "is-in-subtree": "EVENT"}, "CAT-1": {...}}}
//	    ]
//	  }
//	]
//
// Three shapes are accepted:
//
//   - a list of results (above)
//   - a list of {"TMRList": [...]} wrappers, each holding a list of results;
//     wrappers and bare results may be mixed
//   - a single result object, or a single wrapper
//
// Results keep their order, and every graph keeps the document order of
// its entities and attributes.
//
// # Import
//
// Use [ImportBatch] to read a batch from a file path, or [ReadBatch] to read
// from any io.Reader:
//
//	results, err := io.ImportBatch("batch.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Errors carry codes from pkg/errors: INVALID_INPUT for malformed JSON or an
// unexpected shape, INVALID_GRAPH when a TMR is not an object, and
// FILE_NOT_FOUND for missing files.
//
// # Export
//
// Use [ExportOutputs] to write formatted interpretations to a file, or
// [WriteOutputs] to write to any io.Writer. [ReadOutputs] and
// [ImportOutputs] read them back, so saved results can be viewed again
// without reformatting.
package io
