// Package naming converts contract, parameter and member names into Go
// identifiers for generated code.
//
// Names are split into words at separators and at lower-to-upper case
// transitions, each word is title-cased with golang.org/x/text/cases, and
// common initialisms (ID, URL, HTTP, ...) are upper-cased as a whole.
package naming
