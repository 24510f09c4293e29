// Package profiles provides the style profiles applied to rendered articles.
//
// # Loader Architecture
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in profiles compiled into the binary
//	    ├── FilesystemLoader  - profiles from a directory on disk
//	    └── Resolver          - custom-first lookup with embedded fallback
//
// A profile is a YAML document:
//
//	name: Anthropic
//	container: "max-width: 740px; margin: 0 auto; background-color: #faf9f5"
//	styles:
//	  - selector: h1
//	    style: "font-size: 28px; font-weight: 700"
//	  - selector: blockquote p
//	    style: "margin: 0"
//
// Rules are kept in file order; they are applied in that order, so a later
// rule's declarations follow an earlier rule's on the same element.
//
// Profile keys double as file names ({basePath}/{key}.yaml) and are validated
// against path traversal like any other asset name.
package profiles
