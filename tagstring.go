// Package tagstring expands tagged-string templates.
//
// A template is plain text with embedded tags delimited by a start and end
// marker (default "${" and "}"). Each tag body is an expression resolved
// against a chain of scopes, optionally followed by processing instructions:
//
//	${user.name}              dotted path into nested maps, slices, structs
//	${user.name:u}            text transform (upper case)
//	${"[admin]":?admin}       literal gated by the admin argument
//	${price:#currency(EUR)}   named formatter
//	${body:*}                 re-expand tags produced by a previous expansion
//
// Basic usage:
//
//	ev, err := tagstring.NewChain([]tagstring.Resolver{
//		tagstring.MapResolver(map[string]any{"user": "Ada", "state": "online"}),
//	})
//	if err != nil {
//		return err
//	}
//	out, err := ev.EvaluateString(ctx, "Hello, ${user}. Are you ${state}?", nil)
//	// out == "Hello, Ada. Are you online?"
//
// A literal start marker is written as start+start+end ("${${}"); see Escape.
package tagstring
