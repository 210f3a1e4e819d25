package models

// NodeType identifies what a decoded document node holds.
type NodeType int

const (
	NullNode NodeType = iota
	StringNode
	NumberNode
	BoolNode
	BytesNode
	ObjectNode
	ArrayNode
)

func (t NodeType) String() string {
	switch t {
	case NullNode:
		return "null"
	case StringNode:
		return "string"
	case NumberNode:
		return "number"
	case BoolNode:
		return "bool"
	case BytesNode:
		return "bytes"
	case ObjectNode:
		return "object"
	case ArrayNode:
		return "array"
	default:
		return "unknown"
	}
}

// Member is one key/value pair of an object, in document order.
type Member struct {
	Key   string
	Value *Node
}

// Node is one decoded JSON or YAML value. Objects keep their members in
// document order, duplicates included. Numbers keep their source text.
type Node struct {
	Type    NodeType
	Text    string // string content, or number text
	Bool    bool
	Bytes   []byte
	Members []Member
	Items   []*Node
}

// Member returns the value of the first member named key.
func (n *Node) Member(key string) (*Node, bool) {
	for _, m := range n.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// IntermediateRepresentation holds a parsed document in a form the builder
// can walk.
type IntermediateRepresentation struct {
	Root        *Node
	RootIsArray bool // True if the root of the document is an array
	Format      string
}

// Document formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)
