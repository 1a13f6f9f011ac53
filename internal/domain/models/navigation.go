package models

// NavItem is one entry of a navigation menu.
type NavItem struct {
	Label       string `json:"label"`
	Destination string `json:"destination"`
	Icon        string `json:"icon"`
}

// NavEntry is a NavItem rendered for a given current location.
type NavEntry struct {
	NavItem
	Active bool `json:"active"`
}

// Sidebar is the primary navigation of the dashboard.
var Sidebar = []NavItem{
	{Label: "Dashboard", Destination: "/", Icon: "home"},
	{Label: "Reports", Destination: "/reports", Icon: "bar-chart-3"},
	{Label: "Assets", Destination: "/assets", Icon: "box"},
	{Label: "Buildings", Destination: "/buildings", Icon: "building"},
	{Label: "IT Equipment", Destination: "/it-assets", Icon: "computer"},
	{Label: "Intangibles", Destination: "/intangibles", Icon: "book-open"},
	{Label: "Land", Destination: "/land", Icon: "map"},
	{Label: "Inventory", Destination: "/inventory", Icon: "database"},
	{Label: "Settings", Destination: "/settings", Icon: "settings"},
}

// AssetClassRoute maps a page slug to the asset type it lists.
type AssetClassRoute struct {
	Slug      string `json:"slug"`
	AssetType string `json:"assetType"`
}

// AssetClassRoutes lists the asset-class pages.
var AssetClassRoutes = []AssetClassRoute{
	{Slug: "buildings", AssetType: "Buildings"},
	{Slug: "it-assets", AssetType: "IT Assets"},
	{Slug: "intangibles", AssetType: "Intangibles"},
	{Slug: "land", AssetType: "Land"},
	{Slug: "inventory", AssetType: "Inventory"},
	{Slug: "plant-machinery", AssetType: "Plant & Machinery"},
}

// LookupAssetClassRoute finds the asset-class page for slug.
func LookupAssetClassRoute(slug string) (AssetClassRoute, bool) {
	for _, r := range AssetClassRoutes {
		if r.Slug == slug {
			return r, true
		}
	}
	return AssetClassRoute{}, false
}

// RenderNavigation marks the entry whose destination equals current.
func RenderNavigation(items []NavItem, current string) []NavEntry {
	entries := make([]NavEntry, len(items))
	for i, item := range items {
		entries[i] = NavEntry{NavItem: item, Active: item.Destination == current}
	}
	return entries
}
