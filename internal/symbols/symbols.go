// Package symbols holds the catalog of insertable formula symbols.
//
// The catalog is pure data: grouped items with the text they insert and
// the element kind they become. How the catalog is presented is up to the
// caller.
package symbols

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/formulary/internal/formula/element"
)

// Item is one insertable symbol.
type Item struct {
	// Value is what the symbol looks like.
	Value string
	// Insert is the text inserted into the formula; Value when empty.
	Insert string
	// Kind is the element kind the symbol becomes. An item whose kind
	// was never set becomes element.Symbol.
	Kind    element.Kind
	KindSet bool

	Description string
}

// InsertValue returns the text the item inserts.
func (it Item) InsertValue() string {
	if it.Insert != "" {
		return it.Insert
	}
	return it.Value
}

// ElementKind returns the kind the item becomes when inserted.
func (it Item) ElementKind() element.Kind {
	if it.KindSet {
		return it.Kind
	}
	return element.Symbol
}

// Element builds a new element for the item.
func (it Item) Element() element.Element {
	return element.New(it.ElementKind(), it.InsertValue())
}

// Group is a named set of items.
type Group struct {
	Name        string
	DisplayName string
	Items       []Item
}

// Title returns DisplayName, or Name with its first letter upper-cased.
func (g Group) Title() string {
	if g.DisplayName != "" {
		return g.DisplayName
	}
	if g.Name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(g.Name)
	return string(unicode.ToUpper(r)) + g.Name[size:]
}

// Catalog is an ordered list of groups.
type Catalog struct {
	Groups []Group
}

// Merge returns a catalog with groups appended after c. A group whose name
// already exists replaces the existing one in place.
func (c Catalog) Merge(groups ...Group) Catalog {
	out := Catalog{Groups: append([]Group(nil), c.Groups...)}
	for _, g := range groups {
		replaced := false
		for i := range out.Groups {
			if out.Groups[i].Name == g.Name {
				out.Groups[i] = g
				replaced = true
				break
			}
		}
		if !replaced {
			out.Groups = append(out.Groups, g)
		}
	}
	return out
}

// Group returns the group with the given name.
func (c Catalog) Group(name string) (Group, bool) {
	for _, g := range c.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// Lookup finds an item by its displayed value, searching groups in order.
func (c Catalog) Lookup(value string) (Item, bool) {
	for _, g := range c.Groups {
		for _, it := range g.Items {
			if it.Value == value {
				return it, true
			}
		}
	}
	return Item{}, false
}
