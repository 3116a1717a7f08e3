// Package plume augments class-diagram models with the derived metadata the
// Firebird service generators read: external reachability, dependent classes
// by role, parameter validation rules and mock values.
package plume

// Version is the plume release. Model files may constrain it with `requires`.
const Version = "0.4.0"
