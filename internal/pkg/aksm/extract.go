package aksm

import "strconv"

// groupNodeType marks a synthetic header row rather than a real
// controller.
const groupNodeType = "255"

// DeviceRecord flattens one <device> element for the refrigeration
// overview panel. Recomputed on every response, never cached.
type DeviceRecord struct {
	Name      string
	Value     string
	Status    string
	Type      string
	CtrlVal   string
	Alarm     string
	Online    string
	Defrost   string
	ModelName string
	NodeType  string
	Indent    string
	IsGroup   bool
}

// ValRecord flattens one value-bearing element for the alarm and input
// panels. AllAttrs keeps the complete attribute map so nothing the
// projection has no name for gets hidden from the UI.
type ValRecord struct {
	N        string
	Descr    string
	Val      string
	Unit     string
	State    string
	Tag      string
	AllAttrs map[string]string
}

// ExtractDevices projects every <device> element, at any depth, out of
// a raw response. Best effort: malformed XML yields an empty list, not
// an error — the panel renders what it can and the decoder remains the
// source of truth.
func ExtractDevices(raw string) []DeviceRecord {
	root, err := parse(raw)
	if err != nil {
		return nil
	}

	var records []DeviceRecord
	for _, el := range findAll(root, "device") {
		name := childText(el, "name")
		if name == "" {
			name = el.Attr("name")
		}
		records = append(records, DeviceRecord{
			Name:      name,
			Value:     el.Attr("value"),
			Status:    el.Attr("status"),
			Type:      childText(el, "type"),
			CtrlVal:   el.Attr("ctrl_val"),
			Alarm:     el.Attr("alarm"),
			Online:    el.Attr("online"),
			Defrost:   el.Attr("defrost"),
			ModelName: el.Attr("modelname"),
			NodeType:  el.Attr("nodetype"),
			Indent:    el.Attr("indent"),
			IsGroup:   el.Attr("nodetype") == groupNodeType,
		})
	}
	return records
}

// ExtractVals projects every <val> element below the root. Some actions
// return bare children instead of <val> wrappers, so when no <val>
// exists anywhere the root's direct children are taken. Best effort
// like ExtractDevices.
func ExtractVals(raw string) []ValRecord {
	root, err := parse(raw)
	if err != nil {
		return nil
	}

	elements := descendants(root, "val")
	if len(elements) == 0 {
		elements = root.Children
	}

	records := make([]ValRecord, 0, len(elements))
	for i, el := range elements {
		attrs := make(map[string]string, len(el.Attrs))
		for _, a := range el.Attrs {
			attrs[a.Name] = a.Value
		}
		records = append(records, ValRecord{
			Tag:      el.Tag,
			N:        attrOr(attrs, strconv.Itoa(i), "n", "id"),
			Descr:    attrOr(attrs, el.Tag, "descr", "name", "type"),
			Val:      attrOr(attrs, el.Text, "val", "value", "v"),
			Unit:     attrOr(attrs, "", "unit", "u"),
			State:    attrOr(attrs, "", "state", "s", "status"),
			AllAttrs: attrs,
		})
	}
	return records
}

// DeviceError reports the device-level failure carried in the root's
// error attribute, for callers holding only raw text. Any value other
// than "0" counts; a missing attribute or unparseable document does
// not.
func DeviceError(raw string) (string, bool) {
	root, err := parse(raw)
	if err != nil {
		return "", false
	}
	if code := root.Attr("error"); code != "" && code != "0" {
		return "device error: " + code, true
	}
	return "", false
}

// findAll selects n and every descendant with the given tag, document
// order.
func findAll(n *Node, tag string) []*Node {
	var out []*Node
	if n.Tag == tag {
		out = append(out, n)
	}
	for _, c := range n.Children {
		out = append(out, findAll(c, tag)...)
	}
	return out
}

// descendants is findAll excluding n itself.
func descendants(n *Node, tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		out = append(out, findAll(c, tag)...)
	}
	return out
}

// childText returns the text of the first descendant with the given
// tag, preferring direct children. Empty when no such element exists.
func childText(n *Node, tag string) string {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c.Text
		}
	}
	for _, c := range n.Children {
		if t := childText(c, tag); t != "" {
			return t
		}
	}
	return ""
}

// attrOr returns the first present attribute among names, fallback when
// none is present. Present-but-empty wins over the fallback, matching
// how the panels treat explicitly empty device fields.
func attrOr(attrs map[string]string, fallback string, names ...string) string {
	for _, name := range names {
		if v, ok := attrs[name]; ok {
			return v
		}
	}
	return fallback
}
