package ast

// Info is reserved for pass annotations. Passes copy it unchanged.
type Info struct{}

// Program is the unit every pass consumes and produces.
type Program struct {
	Info Info
	Exp  Node
}
