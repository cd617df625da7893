// Package converter turns matrix payloads into clustergram documents.
//
// The converter service coordinates one conversion by:
//   - Building a fresh network through the injected factory
//   - Loading the matrix and computing the clustering layout
//   - Exporting the viz document
//   - Consulting and filling the optional result cache
//   - Recording metrics and classifying failures
//
// The validator checks heatmap documents against their JSON schema.
package converter
