package ast

import "github.com/chrlskrt/bisayaplusplus/pkg/token"

type NodeType string

const (
	NodeLiteral              NodeType = "Literal"
	NodeVariable             NodeType = "Variable"
	NodeAssign               NodeType = "Assign"
	NodeBinary               NodeType = "Binary"
	NodeLogical              NodeType = "Logical"
	NodeGrouping             NodeType = "Grouping"
	NodeUnary                NodeType = "Unary"
	NodeIncrementOrDecrement NodeType = "IncrementOrDecrement"
	NodeBlock                NodeType = "Block"
	NodeExpressionStatement  NodeType = "ExpressionStatement"
	NodeVarDecl              NodeType = "VarDecl"
	NodePrint                NodeType = "Print"
	NodeInput                NodeType = "Input"
	NodeIf                   NodeType = "If"
	NodeElseIf               NodeType = "ElseIf"
	NodeWhile                NodeType = "While"
	NodeDoWhile              NodeType = "DoWhile"
	NodeForLoop              NodeType = "ForLoop"
)

// Type names carried by literals. PULONG (string) and null never name a
// declared variable type.
const (
	TypeInteger = "NUMERO"
	TypeFloat   = "TIPIK"
	TypeChar    = "LETRA"
	TypeBool    = "TINUOD"
	TypeString  = "PULONG"
	TypeNull    = "null"
)

type Node interface {
	NodeType() NodeType
	// Line is the 1-based source line the node starts on.
	Line() int
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	Pos  int      `json:"line"`
}

func newNodeImpl(kind NodeType, line int) nodeImpl {
	return nodeImpl{Type: kind, Pos: line}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Line() int          { return n.Pos }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Expressions

type Literal struct {
	nodeImpl
	expressionMarker

	// TypeName is one of the Type* constants. Value holds int64, float64,
	// rune, bool, string or nil accordingly.
	TypeName string `json:"typeName"`
	Value    any    `json:"value"`
}

func NewLiteral(typeName string, value any, line int) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral, line), TypeName: typeName, Value: value}
}

type Variable struct {
	nodeImpl
	expressionMarker

	Name token.Token `json:"name"`
}

func NewVariable(name token.Token) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable, name.Line), Name: name}
}

type Assign struct {
	nodeImpl
	expressionMarker

	Name  token.Token `json:"name"`
	Value Expression  `json:"value"`
}

func NewAssign(name token.Token, value Expression) *Assign {
	return &Assign{nodeImpl: newNodeImpl(NodeAssign, name.Line), Name: name, Value: value}
}

type Binary struct {
	nodeImpl
	expressionMarker

	Left     Expression  `json:"left"`
	Operator token.Token `json:"operator"`
	Right    Expression  `json:"right"`
}

func NewBinary(left Expression, operator token.Token, right Expression) *Binary {
	return &Binary{nodeImpl: newNodeImpl(NodeBinary, operator.Line), Left: left, Operator: operator, Right: right}
}

// Logical is a short-circuiting O / UG expression.
type Logical struct {
	nodeImpl
	expressionMarker

	Left     Expression  `json:"left"`
	Operator token.Token `json:"operator"`
	Right    Expression  `json:"right"`
}

func NewLogical(left Expression, operator token.Token, right Expression) *Logical {
	return &Logical{nodeImpl: newNodeImpl(NodeLogical, operator.Line), Left: left, Operator: operator, Right: right}
}

type Grouping struct {
	nodeImpl
	expressionMarker

	Inner Expression `json:"inner"`
}

func NewGrouping(inner Expression, line int) *Grouping {
	return &Grouping{nodeImpl: newNodeImpl(NodeGrouping, line), Inner: inner}
}

type Unary struct {
	nodeImpl
	expressionMarker

	Operator token.Token `json:"operator"`
	Operand  Expression  `json:"operand"`
}

func NewUnary(operator token.Token, operand Expression) *Unary {
	return &Unary{nodeImpl: newNodeImpl(NodeUnary, operator.Line), Operator: operator, Operand: operand}
}

type IncrementOrDecrement struct {
	nodeImpl
	expressionMarker

	Operator token.Token `json:"operator"`
	Target   *Variable   `json:"target"`
	IsPrefix bool        `json:"isPrefix"`
}

func NewIncrementOrDecrement(operator token.Token, target *Variable, isPrefix bool) *IncrementOrDecrement {
	return &IncrementOrDecrement{nodeImpl: newNodeImpl(NodeIncrementOrDecrement, operator.Line), Operator: operator, Target: target, IsPrefix: isPrefix}
}

// Statements

type Block struct {
	nodeImpl
	statementMarker

	Statements []Statement `json:"statements"`
}

func NewBlock(statements []Statement, line int) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock, line), Statements: statements}
}

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement, expr.Line()), Expression: expr}
}

type VarDecl struct {
	nodeImpl
	statementMarker

	TypeName    string      `json:"typeName"`
	Name        token.Token `json:"name"`
	Initializer Expression  `json:"initializer,omitempty"`
}

func NewVarDecl(typeName string, name token.Token, initializer Expression) *VarDecl {
	return &VarDecl{nodeImpl: newNodeImpl(NodeVarDecl, name.Line), TypeName: typeName, Name: name, Initializer: initializer}
}

type Print struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewPrint(expr Expression, line int) *Print {
	return &Print{nodeImpl: newNodeImpl(NodePrint, line), Expression: expr}
}

type Input struct {
	nodeImpl
	statementMarker

	Names []token.Token `json:"names"`
}

func NewInput(names []token.Token, line int) *Input {
	return &Input{nodeImpl: newNodeImpl(NodeInput, line), Names: names}
}

type ElseIf struct {
	nodeImpl

	Condition Expression `json:"condition"`
	Branch    *Block     `json:"branch"`
}

func NewElseIf(condition Expression, branch *Block, line int) *ElseIf {
	return &ElseIf{nodeImpl: newNodeImpl(NodeElseIf, line), Condition: condition, Branch: branch}
}

type If struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      *Block     `json:"then"`
	ElseIfs   []*ElseIf  `json:"elseIfs,omitempty"`
	Else      *Block     `json:"else,omitempty"`
}

func NewIf(condition Expression, then *Block, elseIfs []*ElseIf, elseBranch *Block, line int) *If {
	return &If{nodeImpl: newNodeImpl(NodeIf, line), Condition: condition, Then: then, ElseIfs: elseIfs, Else: elseBranch}
}

type While struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      *Block     `json:"body"`
}

func NewWhile(condition Expression, body *Block, line int) *While {
	return &While{nodeImpl: newNodeImpl(NodeWhile, line), Condition: condition, Body: body}
}

type DoWhile struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      *Block     `json:"body"`
}

func NewDoWhile(condition Expression, body *Block, line int) *DoWhile {
	return &DoWhile{nodeImpl: newNodeImpl(NodeDoWhile, line), Condition: condition, Body: body}
}

type ForLoop struct {
	nodeImpl
	statementMarker

	Init      Statement  `json:"init"`
	Condition Expression `json:"condition"`
	Update    Statement  `json:"update"`
	Body      *Block     `json:"body"`
}

func NewForLoop(init Statement, condition Expression, update Statement, body *Block, line int) *ForLoop {
	return &ForLoop{nodeImpl: newNodeImpl(NodeForLoop, line), Init: init, Condition: condition, Update: update, Body: body}
}

// StripGroupings removes any number of enclosing parentheses.
func StripGroupings(expr Expression) Expression {
	for {
		g, ok := expr.(*Grouping)
		if !ok {
			return expr
		}
		expr = g.Inner
	}
}
