package idea

import "github.com/beevik/etree"

const (
	componentTag  = "component"
	componentName = "name"
)

// FindOrCreateComponent returns the first <component name="name"> directly
// under root, appending a new one when none exists. created reports whether
// the node was appended; creation alone does not mark the document modified.
func FindOrCreateComponent(root *etree.Element, name string) (el *etree.Element, created bool) {
	if el := FindComponent(root, name); el != nil {
		return el, false
	}

	el = root.CreateElement(componentTag)
	el.CreateAttr(componentName, name)
	return el, true
}

// FindComponent returns the first <component name="name"> directly under root, or nil.
func FindComponent(root *etree.Element, name string) *etree.Element {
	for _, child := range root.ChildElements() {
		if child.Tag == componentTag && child.SelectAttrValue(componentName, "") == name {
			return child
		}
	}
	return nil
}

// FindContent returns the first <content> element anywhere below root, or nil.
func FindContent(root *etree.Element) *etree.Element {
	return root.FindElement(".//content")
}

// HasChildElements reports whether el has at least one element child.
func HasChildElements(el *etree.Element) bool {
	return len(el.ChildElements()) > 0
}
