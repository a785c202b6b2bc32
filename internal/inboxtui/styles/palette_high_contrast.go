package styles

// HighContrastTheme favors legibility on low-quality terminals.
var HighContrastTheme = Theme{
	Name:        "high-contrast",
	BorderStyle: "sharp",
	Base: BaseColors{
		Background: "16",
		Foreground: "231",
		Muted:      "250",
		Accent:     "51",
		Border:     "231",
	},
	Row: RowColors{
		Name:     "231",
		Preview:  "252",
		Time:     "250",
		Unread:   "231",
		BadgeFg:  "16",
		BadgeBg:  "226",
		Selected: "238",
		Active:   "51",
	},
	Sync: SyncColors{
		Loading: "226",
		Live:    "46",
		Failing: "196",
	},
	Chrome: ChromeColors{
		Header: "117",
		Footer: "159",
		Search: "195",
	},
	Borders: BorderColors{
		ActivePane:   "231",
		InactivePane: "250",
		Divider:      "248",
	},
}
