package nginxconf

import "strings"

// Directive is a single Nginx configuration directive. Simple directives
// (e.g. "listen 80;") have a nil Block; block directives (e.g. "location / {...}")
// carry their body in Block.
type Directive struct {
	// Name is the directive name (e.g., "listen", "fastcgi_pass", "location")
	Name string
	// Args are the directive arguments in source order, with quotes stripped
	Args []string
	// Line is the 1-based line number where the directive name starts
	Line int
	// Column is the 1-based column number where the directive name starts
	Column int
	// Block holds the body of a block directive; nil for simple directives
	Block *Block
}

// Value returns the directive arguments joined by single spaces.
// For "fastcgi_pass php:9000;" it returns "php:9000".
func (d *Directive) Value() string {
	return strings.Join(d.Args, " ")
}

// Arg returns the i-th argument, or "" if out of range.
func (d *Directive) Arg(i int) string {
	if i < 0 || i >= len(d.Args) {
		return ""
	}
	return d.Args[i]
}

// IsBlock returns true if this is a block directive.
func (d *Directive) IsBlock() bool {
	return d.Block != nil
}

// Block is an ordered list of directives, either the top level of a config
// file or the body of a block directive.
type Block struct {
	Directives []*Directive
}

// Find returns the first directive with the given name, searching this block
// and all nested blocks depth-first. Returns nil if not found.
func (b *Block) Find(name string) *Directive {
	if b == nil {
		return nil
	}
	for _, d := range b.Directives {
		if d.Name == name {
			return d
		}
		if found := d.Block.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every directive with the given name, searching this block
// and all nested blocks depth-first.
func (b *Block) FindAll(name string) []*Directive {
	if b == nil {
		return nil
	}
	var found []*Directive
	for _, d := range b.Directives {
		if d.Name == name {
			found = append(found, d)
		}
		found = append(found, d.Block.FindAll(name)...)
	}
	return found
}

// Locations returns every "location" block directive in source order.
func (b *Block) Locations() []*Directive {
	return b.FindAll("location")
}

// Location returns the location block whose joined arguments equal the given
// matcher (e.g. "/" or `~ \.php$`). Returns nil if not found.
func (b *Block) Location(matcher string) *Directive {
	for _, loc := range b.Locations() {
		if loc.Value() == matcher {
			return loc
		}
	}
	return nil
}

// Param returns the directive of the given name whose first argument equals
// key, searching this block and nested blocks. This is the lookup used for
// parameterized directives such as "fastcgi_param SCRIPT_FILENAME ...".
func (b *Block) Param(name, key string) *Directive {
	for _, d := range b.FindAll(name) {
		if d.Arg(0) == key {
			return d
		}
	}
	return nil
}

// Config is the parsed root of an Nginx configuration file.
type Config struct {
	*Block
	// SourcePath is the file the config was read from (empty for byte input)
	SourcePath string
}
