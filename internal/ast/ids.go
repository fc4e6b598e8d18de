package ast

type (
	NodeID uint32
	ExprID uint32
)

const (
	NoNodeID NodeID = 0
	NoExprID ExprID = 0
)

func (id NodeID) IsValid() bool { return id != NoNodeID }
func (id ExprID) IsValid() bool { return id != NoExprID }

// Range addresses Len consecutive entries of a flat index list.
type Range struct {
	Start uint32
	Len   uint32
}

func (r Range) Empty() bool { return r.Len == 0 }
