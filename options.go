package htmlmin

// Options selects the transformations the minifier applies. Every field is
// positive polarity: true enables the pass, and the zero value disables all of
// them.
type Options struct {
	RemoveComments              bool
	CollapseWhitespace          bool
	RemoveOptionalTags          bool
	RemoveAttributeQuotes       bool
	CollapseBooleanAttributes   bool
	RemoveDefaultAttributes     bool
	RemoveEmptyAttributes       bool
	MinifyJS                    bool
	MinifyCSS                   bool
	PreserveConditionalComments bool
}

// Default returns the options most users want: every size-reducing pass
// enabled, conditional comments not preserved.
func Default() Options {
	return Options{
		RemoveComments:            true,
		CollapseWhitespace:        true,
		RemoveOptionalTags:        true,
		RemoveAttributeQuotes:     true,
		CollapseBooleanAttributes: true,
		RemoveDefaultAttributes:   true,
		RemoveEmptyAttributes:     true,
		MinifyJS:                  true,
		MinifyCSS:                 true,
	}
}

// Conservative returns options that keep the document structure byte-for-byte
// recognizable: no tags, quotes or attributes are removed, but comments,
// whitespace and embedded CSS and JS are still reduced.
func Conservative() Options {
	return Options{
		RemoveComments:              true,
		CollapseWhitespace:          true,
		CollapseBooleanAttributes:   true,
		MinifyJS:                    true,
		MinifyCSS:                   true,
		PreserveConditionalComments: true,
	}
}

// Minimal returns options that only remove comments and collapse whitespace,
// leaving tags, attributes and embedded code untouched.
func Minimal() Options {
	return Options{
		RemoveComments:              true,
		CollapseWhitespace:          true,
		PreserveConditionalComments: true,
	}
}

// Preset returns the named preset, one of "default", "conservative" or
// "minimal". The second return value is false for an unknown name.
func Preset(name string) (Options, bool) {
	switch name {
	case "default":
		return Default(), true
	case "conservative":
		return Conservative(), true
	case "minimal":
		return Minimal(), true
	}
	return Options{}, false
}
