// Package toon implements TOON (Token-Oriented Object Notation), a compact,
// indentation-based serialization format for tree-shaped data.
//
// TOON is designed to be:
//   - Human-readable (significant indentation, no braces for nesting)
//   - Token-cheap (bare strings, tabular encoding for uniform object arrays)
//   - Round-trippable (decode(encode(v)) is value-equal to v)
//   - JSON-convertible (the same value model maps losslessly to JSON)
//
// # Data Model
//
// Scalars: null, bool, int, float, str
// Containers: array, object (insertion-ordered fields)
//
// # Syntax
//
//	name: Alice
//	age: 30
//	tags[2]: red,blue
//	friends[2]{name,age}:
//	  Bob,25
//	  Carol,31
//	address:
//	  city: Lisbon
//	  zip: "1100-048"
//
// Array headers carry the element count in brackets and, for uniform object
// arrays, the field list in braces. The delimiter is comma by default; a
// trailing tab or pipe inside the brackets selects an alternate delimiter.
// Non-uniform arrays fall back to one hyphen-introduced block per element.
//
// # Entry Points
//
// Encode renders a *Value to TOON text and never fails on a finite tree.
// Decode parses TOON text back into a *Value; in strict mode (the default)
// it rejects tab indentation and array length mismatches.
//
// FromJSON and ToJSON convert between the value model and JSON, preserving
// field order and the int/float distinction.
package toon
