package html

// Static lookup tables consulted by the minification passes. All of them are
// package-level immutable values so that concurrent Minify calls share them
// without synchronization.

// rawTextTagMap lists elements whose content is consumed verbatim by the
// tokenizer until the matching end tag.
var rawTextTagMap = map[string]bool{
	"pre":      true,
	"script":   true,
	"style":    true,
	"textarea": true,
	"title":    true,
}

// voidTagMap lists elements that never have content or an end tag.
var voidTagMap = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// inlineTagMap lists elements around which whitespace is rendered and must not
// be trimmed. Everything else is treated as a block boundary by the whitespace
// collapser.
var inlineTagMap = map[string]bool{
	"a":        true,
	"abbr":     true,
	"b":        true,
	"bdi":      true,
	"bdo":      true,
	"big":      true,
	"br":       true,
	"button":   true,
	"cite":     true,
	"code":     true,
	"data":     true,
	"del":      true,
	"dfn":      true,
	"em":       true,
	"font":     true,
	"i":        true,
	"img":      true,
	"input":    true,
	"ins":      true,
	"kbd":      true,
	"label":    true,
	"mark":     true,
	"meter":    true,
	"output":   true,
	"progress": true,
	"q":        true,
	"rp":       true,
	"rt":       true,
	"ruby":     true,
	"s":        true,
	"samp":     true,
	"select":   true,
	"small":    true,
	"span":     true,
	"strike":   true,
	"strong":   true,
	"sub":      true,
	"sup":      true,
	"textarea": true,
	"time":     true,
	"tt":       true,
	"u":        true,
	"var":      true,
	"wbr":      true,
}

// omitEndTagMap is the optional-tag transition table: an end tag for a key
// element may be omitted when the immediately following token is a start tag
// of one of the listed elements (which implicitly closes it), or end of input.
var omitEndTagMap = map[string]map[string]bool{
	"p": {
		"address": true, "article": true, "aside": true, "blockquote": true,
		"div": true, "dl": true, "fieldset": true, "footer": true, "form": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"header": true, "hr": true, "main": true, "nav": true, "ol": true,
		"p": true, "pre": true, "section": true, "table": true, "ul": true,
	},
	"li":       {"li": true},
	"dt":       {"dt": true, "dd": true},
	"dd":       {"dt": true, "dd": true},
	"option":   {"option": true, "optgroup": true},
	"optgroup": {"optgroup": true},
	"thead":    {"tbody": true, "tfoot": true},
	"tbody":    {"tbody": true, "tfoot": true},
	"tfoot":    {"tbody": true},
	"tr":       {"tr": true},
	"td":       {"td": true, "th": true, "tr": true},
	"th":       {"td": true, "th": true, "tr": true},
	"colgroup": {"col": true, "tr": true, "tbody": true, "thead": true, "tfoot": true},
}

// omitStartTagMap lists elements whose attribute-less start tag sits exactly
// where the parser would insert it implicitly. For colgroup and tbody the
// following start tag must confirm the implicit insertion point.
var omitStartTagMap = map[string]bool{
	"html":     true,
	"head":     true,
	"body":     true,
	"colgroup": true,
	"tbody":    true,
}

// booleanAttrMap lists attributes whose presence alone signals a true state.
var booleanAttrMap = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"autoplay":        true,
	"checked":         true,
	"controls":        true,
	"default":         true,
	"defer":           true,
	"disabled":        true,
	"formnovalidate":  true,
	"hidden":          true,
	"inert":           true,
	"ismap":           true,
	"itemscope":       true,
	"loop":            true,
	"multiple":        true,
	"muted":           true,
	"nomodule":        true,
	"novalidate":      true,
	"open":            true,
	"playsinline":     true,
	"readonly":        true,
	"required":        true,
	"reversed":        true,
	"selected":        true,
	"typemustmatch":   true,
}

// emptyAttrMap lists attributes that are safe to drop when their value is
// empty. Event handlers (on*) are matched by prefix in the attribute pass.
var emptyAttrMap = map[string]bool{
	"action": true,
	"class":  true,
	"dir":    true,
	"id":     true,
	"lang":   true,
	"name":   true,
	"style":  true,
	"target": true,
	"title":  true,
	"value":  true,
}

type elemAttr struct {
	elem, attr string
}

// defaultAttrMap maps (element, attribute) to the value implied when the
// attribute is absent; such attributes can be dropped entirely.
var defaultAttrMap = map[elemAttr]string{
	{"script", "type"}:       "text/javascript",
	{"style", "type"}:        "text/css",
	{"style", "media"}:       "all",
	{"link", "type"}:         "text/css",
	{"form", "method"}:       "get",
	{"form", "autocomplete"}: "on",
	{"form", "enctype"}:      "application/x-www-form-urlencoded",
	{"input", "type"}:        "text",
	{"button", "type"}:       "submit",
}
