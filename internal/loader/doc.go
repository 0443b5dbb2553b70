// Package loader discovers schema files in a directory and turns them into an
// ordered list of schemas.
//
// File names must match mapping_schema_<NNNN>*.json (or .yaml/.yml), where
// NNNN is a four-digit priority. Priority, not the version inside the file,
// decides order: the result is sorted ascending, oldest schema first.
//
// Each file goes through four gates, and the first failure aborts the whole
// load:
//
//  1. read: ErrIO
//  2. parse: ErrMalformedDocument (syntax error, root not an object)
//  3. structure: wire.ErrSchemaField (checked against the embedded CUE
//     definition in rules.cue, then decoded into wire.Model)
//  4. conversion: wire.ToSchema errors (tag.ErrUnknownValueType,
//     tag.ErrTypeMismatch, wire.ErrSchemaField)
//
// Two files sharing a priority are rejected with ErrDuplicatePriority.
// A partially loaded rule set is never returned.
package loader
