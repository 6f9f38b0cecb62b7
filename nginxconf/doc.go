// Package nginxconf parses Nginx server configuration files into a directive
// tree suitable for structural assertions.
//
// The parser understands the subset of Nginx syntax found in conf.d server
// files: simple directives terminated by semicolons, block directives with
// brace-delimited bodies, comments, and quoted arguments. It does not
// interpret directive semantics; it only records names, arguments, and
// source positions so that the checker package can assert on them.
//
// Parse a config file:
//
//	result, err := nginxconf.ParseWithOptions(nginxconf.WithFilePath("default.conf"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	if root := result.Config.Find("root"); root != nil {
//		fmt.Printf("document root: %s (line %d)\n", root.Value(), root.Line)
//	}
package nginxconf
