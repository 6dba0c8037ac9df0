package theme

// Element is a handle on a node of the page document.
type Element interface {
	SetAttribute(name, value string)
	SetInnerHTML(markup string) error
	AppendChild(child Element) error
	// Remove detaches the element from its parent.
	Remove() error
}

// Page is the document the toggler manipulates. Implementations exist for the
// browser (syscall/js) and for parsed HTML held in memory.
type Page interface {
	Head() (Element, bool)
	ElementByID(id string) (Element, bool)
	CreateElement(tag string) (Element, error)
}
