// Package tag provides the closed set of typed values a block property can hold.
//
// A property value is exactly one of Int, Byte or String. Values enter the
// package through New, which enforces that the declared type tag and the
// carried payload agree; nothing untyped is ever handed to callers.
//
// This package imports nothing internal.
package tag
