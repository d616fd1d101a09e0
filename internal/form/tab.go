package form

// Tab is the active view of the editor.
type Tab string

const (
	TabBasic    Tab = "basic"
	TabMedia    Tab = "media"
	TabVariants Tab = "variants"
	TabDetails  Tab = "details"
)

// Tabs lists the views in display order.
var Tabs = []Tab{TabBasic, TabMedia, TabVariants, TabDetails}

// ParseTab validates a tab name.
func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}
