// Package markup finds the parts of an HTML fragment that may carry new links
// and splices links back into the original string.
//
// It works on the token stream of golang.org/x/net/html rather than a parsed
// DOM so that every offset it reports points into the caller's original
// string. Input is build-time authored content, so malformed markup is
// handled best effort: unknown end tags are ignored and unclosed tags are
// closed by their container. Nothing in this package returns an error or
// panics on bad input.
package markup
