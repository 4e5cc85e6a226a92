// Package parser decodes parsed-AST JSON documents into domain entities.
//
// Source parsing happens elsewhere: an external tool emits one JSON document
// per top-level class or interface (or an array of them). This package checks
// each document against an embedded JSON schema before decoding it, so that
// malformed input is reported with the offending JSON path instead of failing
// silently during detection.
//
// Basic usage:
//
//	p, err := parser.New()
//	if err != nil {
//	    // the embedded schema failed to compile
//	}
//	entities, err := p.Parse(data)
package parser
