package domain

// ToolInventory maps tool name to availability. Built once per session and
// read-only after construction, so unsynchronized concurrent reads are safe.
type ToolInventory map[string]bool

// Has reports whether the tool was probed present. Unprobed tools are absent.
func (t ToolInventory) Has(tool string) bool {
	return t[tool]
}

// Available returns the names of present tools, for reasoning text.
func (t ToolInventory) Available() []string {
	var names []string
	for name, ok := range t {
		if ok {
			names = append(names, name)
		}
	}
	return names
}
