// Package catalog provides a process-wide registry of declared signal names
// that eliminates magic strings and gives every signal a single, documented
// declaration site.
//
// The catalog records what signals exist (their names, owners, payload types
// and documentation), not which nodes are connected to them. Connections live
// in the signal graph itself; the catalog is the static half of the system
// that tooling and humans consult.
//
// Key Features:
//   - Central registry with registration metadata and usage tracking
//   - Dotted, lowercase naming convention enforced at registration
//   - Owner scoping derived from the name's leading segment
//   - Structured errors with machine-readable types
//   - Discovery by owner, prefix and wildcard pattern
//
// Usage:
//
// Declarations are normally created for you by sigslot.NewSignal, which
// registers with the default catalog at init time. Standalone declarations
// work the same way:
//
//	decl := catalog.NewDeclaration(catalog.Config{
//		Name:        "room.message.posted",
//		Owner:       "room",
//		Description: "A message was accepted into a room",
//		Payload:     "main.Message",
//	})
//	catalog.MustRegister(decl)
//
// Declarations can be discovered and listed:
//
//	all := catalog.List()
//	roomSignals := catalog.ListByOwner("room")
//	matches := catalog.Find("room.*")
package catalog
