package styles

// DefaultTheme is the baseline dark palette.
var DefaultTheme = Theme{
	Name:          "default",
	BorderStyle:   "rounded",
	AvatarPalette: append([]string(nil), AvatarColorPalette...),
	Base: BaseColors{
		Background: "234",
		Foreground: "252",
		Muted:      "245",
		Accent:     "75",
		Border:     "240",
	},
	Row: RowColors{
		Name:     "252",
		Preview:  "247",
		Time:     "243",
		Unread:   "231",
		BadgeFg:  "16",
		BadgeBg:  "75",
		Selected: "237",
		Active:   "111",
	},
	Sync: SyncColors{
		Loading: "220",
		Live:    "41",
		Failing: "203",
	},
	Chrome: ChromeColors{
		Header: "111",
		Footer: "110",
		Search: "109",
	},
	Borders: BorderColors{
		ActivePane:   "75",
		InactivePane: "240",
		Divider:      "238",
	},
}
