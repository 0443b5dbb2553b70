// Package upgrade applies loaded schemas to block states.
//
// An Upgrader is built once from the loader's ordered schema list and is
// read-only afterwards, so a single handle can be shared by any number of
// goroutines. Upgrade is a pure function of its inputs: it performs no I/O,
// takes no locks and never returns an error.
//
// A schema applies to a state written at version v when v < MaxVersion.
// Each applicable schema is applied in a fixed order, regardless of how the
// schema file was written:
//
//  1. rename the block identifier
//  2. remove properties
//  3. rename properties
//  4. remap property values
//  5. add missing properties
//
// Steps 2 to 5 look the block up by its identifier after step 1.
package upgrade
