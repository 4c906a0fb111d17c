package recagent

import "strings"

// Section identifies which navigation entry is highlighted for the current
// route. The zero value [SectionNone] means no entry is highlighted, which
// is the case for every chromeless route.
type Section uint8

const (
	SectionNone Section = iota
	SectionHome
	SectionSearch
	SectionLibrary
	SectionHistory
	SectionSettings
	SectionProfile
)

func (s Section) String() string {
	switch s {
	case SectionHome:
		return "home"
	case SectionSearch:
		return "search"
	case SectionLibrary:
		return "library"
	case SectionHistory:
		return "history"
	case SectionSettings:
		return "settings"
	case SectionProfile:
		return "profile"
	default:
		return "none"
	}
}

// RouteClassification tells the shell whether to wrap the page in
// navigation chrome and which section is active. ActiveSection is
// [SectionNone] whenever NeedsChrome is false. Derived, never persisted.
type RouteClassification struct {
	NeedsChrome   bool
	ActiveSection Section
}

// Auth-flow pages render bare, with no header or footer. Matching is on the
// first path segment so token-bearing links (/reset-password/<token>) stay
// chromeless.
var chromelessSegments = map[string]struct{}{
	"login":           {},
	"register":        {},
	"forgot-password": {},
	"reset-password":  {},
	"verify-email":    {},
}

var sectionBySegment = map[string]Section{
	"":         SectionHome,
	"search":   SectionSearch,
	"library":  SectionLibrary,
	"history":  SectionHistory,
	"settings": SectionSettings,
	"profile":  SectionProfile,
}

// Classify maps a path to its chrome decision and active section. Pure and
// synchronous: the shell calls it on every navigation event. Unknown
// segments fall back to the home section rather than erroring.
func Classify(path string) RouteClassification {
	segment := firstSegment(path)

	if _, ok := chromelessSegments[segment]; ok {
		return RouteClassification{NeedsChrome: false, ActiveSection: SectionNone}
	}

	section, ok := sectionBySegment[segment]
	if !ok {
		section = SectionHome
	}
	return RouteClassification{NeedsChrome: true, ActiveSection: section}
}

func firstSegment(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}
