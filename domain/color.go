package domain

// palette holds the session member colors. Joiners are assigned a color by
// round-robin over the current member count, so colors are stable per
// membership but not globally unique.
var palette = []string{
	"#e6194b",
	"#3cb44b",
	"#ffe119",
	"#4363d8",
	"#f58231",
	"#911eb4",
	"#46f0f0",
	"#f032e6",
	"#bcf60c",
	"#008080",
}

// ColorAt returns the palette color for the given member index.
func ColorAt(index int) string {
	if index < 0 {
		index = 0
	}
	return palette[index%len(palette)]
}
