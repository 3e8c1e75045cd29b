// Package originurl normalizes git remote URLs into canonical host and path
// components.
//
// It recognizes scheme-qualified SSH, HTTP(S), and shorthand SSH remote
// syntaxes, strips credentials and repository suffixes, and rejects any input
// whose components would be unsafe as filesystem path elements. The resulting
// ParsedOrigin feeds the layout package when computing destination paths.
package originurl
