// Package resolver turns the ordered input definitions of a requirements
// document into a frozen, typed run configuration.
//
// Resolution walks the definitions in declared order. An input is visible
// when it has no condition or its condition holds against the values
// resolved so far; a condition referencing a value that was never resolved
// is false, not an error. Each visible input's value comes from exactly one
// source, in strict priority: external override, interactive prompt,
// declared default.
package resolver
