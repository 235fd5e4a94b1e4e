// Package model defines the core data structures used throughout
// the covercluster application.
//
// # Entity
//
// Entity is one weighted album or artist read from the index file:
//
//	e := model.Entity{Name: "Abbey Road", Kind: model.KindAlbum, Count: 12}
//
// A Catalog holds the entities of both index sections in file order.
//
// # Asset
//
// Asset pairs an entity with the cover file located for it, and records the
// resolution strategy that found it:
//
//	if asset.Resolved() {
//	    fmt.Println(asset.Path, asset.Strategy) // covers/Abbey_Road.jpg exact
//	}
//
// # Layout
//
// Canvas is the fixed output surface, Rect is the area assigned to one entity,
// and Placement is a Rect ready to be painted:
//
//	canvas := model.Canvas{Width: 1920, Height: 1080, Background: bg}
//	for _, p := range placements {
//	    fmt.Println(p.Rect.Bounds(), p.Path)
//	}
package model
