// Package hsml compiles HSML, an indentation-based markup language, to HTML.
//
// An HSML document is a tree of tag lines. Nesting is expressed by indentation
// alone; the first indented line fixes the indentation unit for the document:
//
//	html
//	  head
//	    title Demo
//	  body#main.dark
//	    ul(role="list")
//	      li One
//	      li Two
//
// compiles to
//
//	<html><head><title>Demo</title></head><body id="main" class="dark"><ul role="list"><li>One</li><li>Two</li></ul></body></html>
//
// # Basic Usage
//
//	engine := hsml.MustNew()
//	html, err := engine.CompileString(ctx, "h1 Hello World")
//	// html: "<h1>Hello World</h1>"
//
// Parse and Compile are available separately. Parse failures carry the
// failure kind and the line and column where parsing stopped:
//
//	root, err := engine.Parse(source)
//	if failure, ok := hsml.AsParseFailure(err); ok {
//	    fmt.Println(failure.Kind, failure.Position)
//	}
//
// # Syntax
//
// A tag head is a tag name followed by any mix of .class, #id and
// (attribute="value" bare) groups. A class or id head without a tag name
// defaults to div. The rest of the line after a space is the tag text; a lone
// "." ends the head and opens an indented text block. Lines starting with "//"
// are dev comments and are dropped; "//!" comments are kept as HTML comments.
// Tags with neither text nor children render self-closing.
//
// # Files and Directories
//
// BatchCompiler compiles single files or whole trees on a worker pool, writing
// x.hsml to x.html. Files that fail to parse are reported and skipped.
//
// # Document Storage
//
// DocumentStorage keeps versioned HSML sources. Drivers "memory",
// "filesystem" and "postgres" are registered by default:
//
//	storage, err := hsml.OpenStorage("filesystem", "./documents")
//	html, err := engine.CompileStored(ctx, storage, "nav")
//
// # Thread Safety
//
// Engine, ResultCache, BatchCompiler and every DocumentStorage implementation
// are safe for concurrent use.
package hsml
