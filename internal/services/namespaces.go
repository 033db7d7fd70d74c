package services

import "thriftshop/internal/repos"

// Storage namespaces. Each one is versioned on its own; bump a version when its
// value shape changes.
var (
	NSProducts     = repos.Namespace{Name: "products", Version: 2}
	NSCart         = repos.Namespace{Name: "cart", Version: 1}
	NSSaved        = repos.Namespace{Name: "saved", Version: 1}
	NSRecent       = repos.Namespace{Name: "recent", Version: 1}
	NSTheme        = repos.Namespace{Name: "theme", Version: 1}
	NSBanner       = repos.Namespace{Name: "banner", Version: 1}
	NSCatalogState = repos.Namespace{Name: "catalog_state", Version: 1}
	NSSource       = repos.Namespace{Name: "source", Version: 1}
)

func Namespaces() []repos.Namespace {
	return []repos.Namespace{NSProducts, NSCart, NSSaved, NSRecent, NSTheme, NSBanner, NSCatalogState, NSSource}
}
