// Package a11y derives accessibility roles from spec nodes and provides the
// restriction predicates used to walk a page the way a screen reader does.
package a11y

import (
	"strconv"
	"strings"

	"github.com/heathj/webui/spec"
)

// Role is an accessibility role, named as chrome.automation names them.
type Role string

// As defined in chromium/src/extensions/common/api/automation.idl
const (
	Alert             Role = "alert"
	AlertDialog       Role = "alertDialog"
	Article           Role = "article"
	Banner            Role = "banner"
	Button            Role = "button"
	Cell              Role = "cell"
	CheckBox          Role = "checkBox"
	ColumnHeader      Role = "columnHeader"
	ComboBoxSelect    Role = "comboBoxSelect"
	Complementary     Role = "complementary"
	ContentInfo       Role = "contentInfo"
	Dialog            Role = "dialog"
	Form              Role = "form"
	GenericContainer  Role = "genericContainer"
	Group             Role = "group"
	Heading           Role = "heading"
	Ignored           Role = "ignored"
	Image             Role = "image"
	Link              Role = "link"
	List              Role = "list"
	ListBoxOption     Role = "listBoxOption"
	ListItem          Role = "listItem"
	Main              Role = "main"
	MathRole          Role = "math"
	Menu              Role = "menu"
	MenuItem          Role = "menuItem"
	Navigation        Role = "navigation"
	Paragraph         Role = "paragraph"
	ProgressIndicator Role = "progressIndicator"
	RadioButton       Role = "radioButton"
	Region            Role = "region"
	RootWebArea       Role = "rootWebArea"
	Row               Role = "row"
	RowHeader         Role = "rowHeader"
	Search            Role = "search"
	SearchBox         Role = "searchBox"
	Separator         Role = "splitter"
	Slider            Role = "slider"
	SpinButton        Role = "spinButton"
	StaticText        Role = "staticText"
	Switch            Role = "switch"
	Tab               Role = "tab"
	TabList           Role = "tabList"
	Table             Role = "table"
	TextField         Role = "textField"
	Toolbar           Role = "toolbar"
	Tree              Role = "tree"
	TreeItem          Role = "treeItem"
)

// ariaRoles maps the ARIA role attribute to automation roles.
var ariaRoles = map[string]Role{
	"alert":         Alert,
	"alertdialog":   AlertDialog,
	"article":       Article,
	"banner":        Banner,
	"button":        Button,
	"cell":          Cell,
	"checkbox":      CheckBox,
	"columnheader":  ColumnHeader,
	"combobox":      ComboBoxSelect,
	"complementary": Complementary,
	"contentinfo":   ContentInfo,
	"dialog":        Dialog,
	"form":          Form,
	"generic":       GenericContainer,
	"group":         Group,
	"heading":       Heading,
	"img":           Image,
	"link":          Link,
	"list":          List,
	"listitem":      ListItem,
	"main":          Main,
	"math":          MathRole,
	"menu":          Menu,
	"menuitem":      MenuItem,
	"navigation":    Navigation,
	"none":          Ignored,
	"option":        ListBoxOption,
	"paragraph":     Paragraph,
	"presentation":  Ignored,
	"progressbar":   ProgressIndicator,
	"radio":         RadioButton,
	"region":        Region,
	"row":           Row,
	"rowheader":     RowHeader,
	"search":        Search,
	"searchbox":     SearchBox,
	"separator":     Separator,
	"slider":        Slider,
	"spinbutton":    SpinButton,
	"switch":        Switch,
	"tab":           Tab,
	"tablist":       TabList,
	"table":         Table,
	"textbox":       TextField,
	"toolbar":       Toolbar,
	"tree":          Tree,
	"treeitem":      TreeItem,
}

// tagRoles are the implicit roles of html elements.
var tagRoles = map[string]Role{
	"a":        Link,
	"article":  Article,
	"aside":    Complementary,
	"button":   Button,
	"dialog":   Dialog,
	"footer":   ContentInfo,
	"form":     Form,
	"header":   Banner,
	"hr":       Separator,
	"img":      Image,
	"li":       ListItem,
	"main":     Main,
	"math":     MathRole,
	"menu":     List,
	"nav":      Navigation,
	"ol":       List,
	"option":   ListBoxOption,
	"p":        Paragraph,
	"progress": ProgressIndicator,
	"section":  Region,
	"select":   ComboBoxSelect,
	"table":    Table,
	"td":       Cell,
	"textarea": TextField,
	"th":       ColumnHeader,
	"tr":       Row,
	"ul":       List,
	"h1":       Heading,
	"h2":       Heading,
	"h3":       Heading,
	"h4":       Heading,
	"h5":       Heading,
	"h6":       Heading,

	"head":     Ignored,
	"meta":     Ignored,
	"link":     Ignored,
	"noscript": Ignored,
	"script":   Ignored,
	"style":    Ignored,
	"template": Ignored,
	"title":    Ignored,
}

var inputRoles = map[string]Role{
	"button":   Button,
	"checkbox": CheckBox,
	"image":    Button,
	"number":   SpinButton,
	"radio":    RadioButton,
	"range":    Slider,
	"reset":    Button,
	"search":   SearchBox,
	"submit":   Button,
	"hidden":   Ignored,
}

// RoleOf is the role of n: the first known token of its role attribute,
// otherwise the implicit role of its tag.
func RoleOf(n *spec.Node) Role {
	if n == nil {
		return Ignored
	}
	switch n.NodeType {
	case spec.DocumentNode:
		return RootWebArea
	case spec.TextNode:
		return StaticText
	case spec.ElementNode:
	default:
		return Ignored
	}

	for _, tok := range strings.Fields(strings.ToLower(n.GetAttribute("role"))) {
		if r, ok := ariaRoles[tok]; ok {
			return r
		}
	}

	switch n.NodeName {
	case "input":
		if r, ok := inputRoles[strings.ToLower(n.GetAttribute("type"))]; ok {
			return r
		}
		return TextField
	case "a":
		if !n.HasAttribute("href") {
			return GenericContainer
		}
	case "svg":
		return Image
	}
	if r, ok := tagRoles[n.NodeName]; ok {
		return r
	}
	return GenericContainer
}

// HierarchicalLevel is a heading's level, 0 for other nodes.
func HierarchicalLevel(n *spec.Node) int {
	if RoleOf(n) != Heading {
		return 0
	}
	if l, err := strconv.Atoi(n.GetAttribute("aria-level")); err == nil && l > 0 {
		return l
	}
	if len(n.NodeName) == 2 && n.NodeName[0] == 'h' {
		if l, err := strconv.Atoi(n.NodeName[1:]); err == nil {
			return l
		}
	}
	return 2
}

// Name is the accessible name of n.
func Name(n *spec.Node) string {
	if n == nil {
		return ""
	}
	if n.NodeType == spec.TextNode {
		return strings.Join(strings.Fields(n.Text.Data), " ")
	}
	for _, attr := range []string{"aria-label", "alt", "title", "placeholder"} {
		if v := strings.TrimSpace(n.GetAttribute(attr)); v != "" {
			return v
		}
	}
	switch RoleOf(n) {
	case Ignored, List, Table, Main, Navigation, Region, GenericContainer, RootWebArea, Form, TextField:
		return ""
	}
	return strings.Join(strings.Fields(n.TextContent()), " ")
}
