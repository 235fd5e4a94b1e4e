// Package assets locates the cover image for each catalog entity.
//
// Covers live in one flat directory and are named by a sanitizer applied to
// the entity name at crawl time. Crawls made on different systems stored
// different Unicode forms of the same name, and older crawls used a sanitizer
// that kept non-ASCII letters, so a plain lookup misses covers that exist.
//
// # Resolution Order
//
// Resolve stops at the first hit:
//
//  1. exact: Sanitize(name) + ".jpg"
//  2. normalized: the NFC and NFD forms through Sanitize, then through SanitizeUnicode
//  3. folded: every .jpg/.jpeg file in lexical order, compared case-insensitively
//
// # Usage
//
//	r, err := assets.NewResolver("covers")
//	if err != nil {
//	    return err
//	}
//	for _, a := range r.ResolveAll(catalog.Albums) {
//	    if !a.Resolved() {
//	        fmt.Println("no cover for", a.Entity.Name)
//	    }
//	}
//
// The directory is listed once when the Resolver is created. A missing
// directory is not an error: every entity is simply unresolved.
package assets
