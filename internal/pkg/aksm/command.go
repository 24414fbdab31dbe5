package aksm

import (
	"strconv"
	"strings"
)

// CommandRequest is a single command for an AK-SM controller. Optional
// fields are pointers: nil means the attribute is omitted from the
// encoded command, an explicit zero is emitted as "0".
type CommandRequest struct {
	Action   string
	NodeType *int
	Node     *int
	Mod      *int
	Point    *int
	CID      *int
	VID      *int
}

// ValueRequest addresses one point inside a batched read_val command.
// Tag and Field are optional string selectors some controllers expect
// on point reads.
type ValueRequest struct {
	NodeType *int
	Node     *int
	CID      *int
	VID      *int
	Tag      string
	Field    string
}

func appendAttr(attrs []string, name string, v *int) []string {
	if v == nil {
		return attrs
	}
	return append(attrs, name+`="`+strconv.Itoa(*v)+`"`)
}

// Encode renders req in the device's XML command grammar. The action
// attribute always comes first; nodetype, node, mod and point follow in
// that order when present. A read_val carrying cid or vid is scoped
// inside a nested <val> element instead, which is how the device wants
// point-level reads addressed.
//
// Attribute values are emitted verbatim. Callers only pass integers or
// actions from the fixed vocabulary, so nothing is escaped; routing
// free-form text through here would need the device's tolerance for
// escaped characters verified first.
func Encode(req CommandRequest) string {
	if req.Action == ActionReadVal && (req.CID != nil || req.VID != nil) {
		valAttrs := []string{}
		valAttrs = appendAttr(valAttrs, "nodetype", req.NodeType)
		valAttrs = appendAttr(valAttrs, "node", req.Node)
		valAttrs = appendAttr(valAttrs, "cid", req.CID)
		valAttrs = appendAttr(valAttrs, "vid", req.VID)
		return `<cmd action="` + req.Action + `"><val ` + strings.Join(valAttrs, " ") + ` /></cmd>`
	}

	attrs := []string{`action="` + req.Action + `"`}
	attrs = appendAttr(attrs, "nodetype", req.NodeType)
	attrs = appendAttr(attrs, "node", req.Node)
	attrs = appendAttr(attrs, "mod", req.Mod)
	attrs = appendAttr(attrs, "point", req.Point)
	return `<cmd ` + strings.Join(attrs, " ") + ` />`
}

// EncodeMulti builds one read_val command wrapping every requested
// value. Nested element order matches input order; the device answers
// positionally, there is no echoed identifier to correlate on.
func EncodeMulti(values []ValueRequest) string {
	elements := make([]string, 0, len(values))
	for _, v := range values {
		attrs := []string{}
		attrs = appendAttr(attrs, "nodetype", v.NodeType)
		attrs = appendAttr(attrs, "node", v.Node)
		attrs = appendAttr(attrs, "cid", v.CID)
		attrs = appendAttr(attrs, "vid", v.VID)
		if v.Tag != "" {
			attrs = append(attrs, `tag="`+v.Tag+`"`)
		}
		if v.Field != "" {
			attrs = append(attrs, `field="`+v.Field+`"`)
		}
		elements = append(elements, `<val `+strings.Join(attrs, " ")+` />`)
	}
	return "<cmd action=\"" + ActionReadVal + "\">\n  " + strings.Join(elements, "\n  ") + "\n</cmd>"
}
