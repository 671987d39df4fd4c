// Package compiler transforms abstract syntax tree (AST) nodes into bytecode instructions.
//
// This package provides a compiler that traverses an AST produced by the parser and generates
// bytecode instructions that can be executed by a virtual machine.
// The compiler handles expression evaluation, control flow, variable scoping,
// function compilation, and constant management.
//
// # Architecture
//
// The compiler uses a stack-based bytecode generation approach with support for:
//
//   - Multiple compilation scopes for nested functions and closures
//   - Symbol tables for variable resolution (local, global, free, and builtin variables)
//   - A write-once constant pool shared with the cipher encoders and the emitter
//   - Jump targets stored as patchable constant-pool offsets rather than
//     rewritten instruction bytes
//
// # Compilation Process
//
// The compiler works by recursively traversing the AST and emitting bytecode instructions:
//
//  1. Expressions are compiled to push their results onto the stack
//  2. Operators pop operands from the stack and push results
//  3. Variables are resolved through symbol tables and compiled to LOAD_VAR/STORE_VAR instructions
//  4. Control flow (if/while/for/switch/try) is compiled using conditional and unconditional jumps
//  5. Functions are compiled in separate scopes and stored as constants
//  6. Closures capture free variables from enclosing scopes
package compiler

import (
	"fmt"

	"github.com/dr8co/vmask/ast"
	"github.com/dr8co/vmask/code"
	"github.com/dr8co/vmask/pool"
	"github.com/dr8co/vmask/runtime"
)

// Compiler is responsible for compiling an AST into bytecode instructions and managing compilation states.
type Compiler struct {
	// pool holds every constant encountered during compilation.
	pool *pool.Pool

	// symbolTable manages variable bindings and symbol resolution.
	symbolTable *SymbolTable

	// Tracks the current compilation scope and its instruction sequence.
	scopes []CompilationScope

	// scopeIndex tracks the current compilation scope.
	scopeIndex int

	// breaks is a stack of pending BREAK jump sites, one frame per
	// enclosing loop or switch.
	breaks []*breakFrame

	// loops is a stack of pending CONTINUE jump sites, one frame per
	// enclosing loop (switch does not push one; continue may not target it).
	loops []*loopFrame
}

// Bytecode represents the compiled instructions and constant pool for a program or function.
type Bytecode struct {
	Instructions code.Instructions
	Pool         *pool.Pool
}

// EmittedInstruction represents a bytecode instruction that has been emitted during compilation.
type EmittedInstruction struct {
	Opcode   code.Opcode
	Position int
}

// CompilationScope represents a single layer of compilation containing instructions and metadata about recently emitted instructions.
type CompilationScope struct {
	instructions        code.Instructions
	lastInstruction     EmittedInstruction
	previousInstruction EmittedInstruction
}

func newCompilationScope() CompilationScope {
	return CompilationScope{instructions: code.Instructions{}}
}

// jumpSite records a jump instruction's pool-index operand together with the
// program counter immediately following it, the two numbers needed to turn
// a known target address into the displacement stored at that pool index.
type jumpSite struct {
	poolIndex   int
	pcAfterJump int
}

type breakFrame struct {
	patches []jumpSite
}

type loopFrame struct {
	// continueTarget is the instruction position CONTINUE jumps to directly
	// (a while loop's test re-check). nil means the target is not known yet
	// (a for loop's update clause, resolved once the loop body is compiled).
	continueTarget *int
	patches        []jumpSite
}

// New creates a new compiler instance with the host intrinsics from package
// runtime bound into the global symbol table's builtin scope.
func New() *Compiler {
	st := NewSymbolTable()
	for i, b := range runtime.Builtins {
		st.DefineBuiltin(i, b.Name)
	}

	return &Compiler{
		pool:        pool.New(),
		symbolTable: st,
		scopes:      []CompilationScope{newCompilationScope()},
	}
}

// NewWithState creates a new compiler instance that compiles into an
// existing symbol table and constant pool instead of fresh ones.
func NewWithState(s *SymbolTable, p *pool.Pool) *Compiler {
	return &Compiler{
		pool:        p,
		symbolTable: s,
		scopes:      []CompilationScope{newCompilationScope()},
	}
}

// Compile traverses the given AST node and translates it into bytecode instructions.
func (c *Compiler) Compile(node ast.Node) error {
	switch node := node.(type) {

	case *ast.Program:
		for _, s := range node.Statements {
			if err := c.Compile(s); err != nil {
				return err
			}
		}

	case *ast.ExpressionStatement:
		if err := c.Compile(node.Expression); err != nil {
			return err
		}
		c.emit(code.Pop)

	case *ast.BlockStatement:
		for _, s := range node.Statements {
			if err := c.Compile(s); err != nil {
				return err
			}
		}

	case *ast.VarStatement:
		sym := c.symbolTable.Define(node.Name.Value)
		if node.Value != nil {
			if err := c.Compile(node.Value); err != nil {
				return err
			}
		} else {
			c.emit(code.Undefined)
		}
		c.storeSymbol(sym)

	case *ast.FunctionDeclaration:
		sym := c.symbolTable.Define(node.Function.Name)
		if err := c.Compile(node.Function); err != nil {
			return err
		}
		c.storeSymbol(sym)

	case *ast.ReturnStatement:
		if node.ReturnValue != nil {
			if err := c.Compile(node.ReturnValue); err != nil {
				return err
			}
		} else {
			c.emit(code.Undefined)
		}
		c.emit(code.Return)

	case *ast.BreakStatement:
		if len(c.breaks) == 0 {
			return fmt.Errorf("break outside of loop or switch")
		}
		idx, pc := c.emitJump(code.Jump)
		top := c.breaks[len(c.breaks)-1]
		top.patches = append(top.patches, jumpSite{idx, pc})

	case *ast.ContinueStatement:
		if len(c.loops) == 0 {
			return fmt.Errorf("continue outside of loop")
		}
		top := c.loops[len(c.loops)-1]
		if top.continueTarget != nil {
			c.emitJumpTo(code.Jump, *top.continueTarget)
		} else {
			idx, pc := c.emitJump(code.Jump)
			top.patches = append(top.patches, jumpSite{idx, pc})
		}

	case *ast.ThrowStatement:
		if err := c.Compile(node.Value); err != nil {
			return err
		}
		c.emit(code.Throw)

	case *ast.IfStatement:
		if err := c.compileIf(node); err != nil {
			return err
		}

	case *ast.WhileStatement:
		if err := c.compileWhile(node); err != nil {
			return err
		}

	case *ast.ForStatement:
		if err := c.compileFor(node); err != nil {
			return err
		}

	case *ast.SwitchStatement:
		if err := c.compileSwitch(node); err != nil {
			return err
		}

	case *ast.TryStatement:
		if err := c.compileTry(node); err != nil {
			return err
		}

	case *ast.Identifier:
		sym, ok := c.symbolTable.Resolve(node.Value)
		if !ok {
			return fmt.Errorf("undefined variable %s", node.Value)
		}
		c.loadSymbol(sym)

	case *ast.ThisExpression:
		c.emit(code.This)

	case *ast.NumberLiteral:
		c.emit(code.LoadConst, c.pool.AddNumber(node.Value))

	case *ast.StringLiteral:
		c.emit(code.LoadConst, c.pool.AddString(node.Value))

	case *ast.BooleanLiteral:
		c.emit(code.LoadConst, c.pool.AddBool(node.Value))

	case *ast.NullLiteral:
		c.emit(code.Null)

	case *ast.UndefinedLiteral:
		c.emit(code.Undefined)

	case *ast.PrefixExpression:
		if err := c.Compile(node.Right); err != nil {
			return err
		}
		c.emit(code.UnaryOp, c.pool.AddIdentifier(node.Operator))

	case *ast.InfixExpression:
		if err := c.Compile(node.Left); err != nil {
			return err
		}
		if err := c.Compile(node.Right); err != nil {
			return err
		}
		c.emit(code.BinaryOp, c.pool.AddIdentifier(node.Operator))

	case *ast.LogicalExpression:
		if err := c.compileLogical(node); err != nil {
			return err
		}

	case *ast.ConditionalExpression:
		if err := c.compileConditional(node); err != nil {
			return err
		}

	case *ast.AssignmentExpression:
		if err := c.compileAssignment(node); err != nil {
			return err
		}

	case *ast.MemberExpression:
		if err := c.Compile(node.Object); err != nil {
			return err
		}
		if node.Computed {
			if err := c.Compile(node.Property); err != nil {
				return err
			}
			c.emit(code.LoadIndex)
		} else {
			ident, ok := node.Property.(*ast.Identifier)
			if !ok {
				return fmt.Errorf("invalid property access")
			}
			c.emit(code.LoadProperty, c.pool.AddIdentifier(ident.Value))
		}

	case *ast.CallExpression:
		if err := c.Compile(node.Function); err != nil {
			return err
		}
		for _, a := range node.Arguments {
			if err := c.Compile(a); err != nil {
				return err
			}
		}
		c.emit(code.CallFunction, len(node.Arguments))

	case *ast.NewExpression:
		if err := c.Compile(node.Callee); err != nil {
			return err
		}
		for _, a := range node.Arguments {
			if err := c.Compile(a); err != nil {
				return err
			}
		}
		c.emit(code.NewInstance, len(node.Arguments))

	case *ast.ArrayLiteral:
		for _, el := range node.Elements {
			if err := c.Compile(el); err != nil {
				return err
			}
		}
		c.emit(code.CreateArray, len(node.Elements))

	case *ast.ObjectLiteral:
		for _, prop := range node.Properties {
			var key string
			switch k := prop.Key.(type) {
			case *ast.Identifier:
				key = k.Value
			case *ast.StringLiteral:
				key = k.Value
			default:
				return fmt.Errorf("invalid object literal key")
			}
			c.emit(code.LoadConst, c.pool.AddString(key))
			if err := c.Compile(prop.Value); err != nil {
				return err
			}
		}
		c.emit(code.CreateObject, len(node.Properties))

	case *ast.FunctionLiteral:
		if err := c.compileFunctionLiteral(node); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileIf(node *ast.IfStatement) error {
	if err := c.Compile(node.Condition); err != nil {
		return err
	}
	elseIdx, elsePC := c.emitJump(code.JumpIfFalse)

	if err := c.Compile(node.Consequence); err != nil {
		return err
	}

	if node.Alternative == nil {
		c.patchJumpHere(elseIdx, elsePC)
		return nil
	}

	endIdx, endPC := c.emitJump(code.Jump)
	c.patchJumpHere(elseIdx, elsePC)
	if err := c.Compile(node.Alternative); err != nil {
		return err
	}
	c.patchJumpHere(endIdx, endPC)
	return nil
}

func (c *Compiler) compileWhile(node *ast.WhileStatement) error {
	testPos := len(c.currentInstructions())
	if err := c.Compile(node.Condition); err != nil {
		return err
	}
	exitIdx, exitPC := c.emitJump(code.JumpIfFalse)

	c.breaks = append(c.breaks, &breakFrame{})
	c.loops = append(c.loops, &loopFrame{continueTarget: &testPos})

	if err := c.Compile(node.Body); err != nil {
		return err
	}

	c.popLoop()
	c.emitJumpTo(code.Jump, testPos)
	loopEnd := len(c.currentInstructions())
	c.patchJumpTo(exitIdx, exitPC, loopEnd)
	c.popBreak(loopEnd)
	return nil
}

func (c *Compiler) compileFor(node *ast.ForStatement) error {
	if node.Init != nil {
		if err := c.Compile(node.Init); err != nil {
			return err
		}
	}

	testPos := len(c.currentInstructions())
	var exitIdx, exitPC int
	hasTest := node.Test != nil
	if hasTest {
		if err := c.Compile(node.Test); err != nil {
			return err
		}
		exitIdx, exitPC = c.emitJump(code.JumpIfFalse)
	}

	c.breaks = append(c.breaks, &breakFrame{})
	c.loops = append(c.loops, &loopFrame{})

	if err := c.Compile(node.Body); err != nil {
		return err
	}

	updatePos := len(c.currentInstructions())
	loop := c.loops[len(c.loops)-1]
	for _, js := range loop.patches {
		c.patchJumpTo(js.poolIndex, js.pcAfterJump, updatePos)
	}
	c.loops = c.loops[:len(c.loops)-1]

	if node.Update != nil {
		if err := c.Compile(node.Update); err != nil {
			return err
		}
		c.emit(code.Pop)
	}

	c.emitJumpTo(code.Jump, testPos)
	loopEnd := len(c.currentInstructions())
	if hasTest {
		c.patchJumpTo(exitIdx, exitPC, loopEnd)
	}
	c.popBreak(loopEnd)
	return nil
}

func (c *Compiler) compileSwitch(node *ast.SwitchStatement) error {
	if err := c.Compile(node.Discriminant); err != nil {
		return err
	}

	c.breaks = append(c.breaks, &breakFrame{})

	type pendingTest struct {
		js        jumpSite
		caseIndex int
	}
	var pendings []pendingTest
	defaultIndex := -1

	for i, cs := range node.Cases {
		if cs.Test == nil {
			defaultIndex = i
			continue
		}
		c.emit(code.Duplicate)
		if err := c.Compile(cs.Test); err != nil {
			return err
		}
		c.emit(code.BinaryOp, c.pool.AddIdentifier("==="))
		idx, pc := c.emitJump(code.JumpIfTrue)
		pendings = append(pendings, pendingTest{jumpSite{idx, pc}, i})
	}

	if defaultIndex < 0 {
		// no case matched and there's no default: drop the discriminant
		// before leaving the switch.
		c.emit(code.Pop)
	}
	fallbackIdx, fallbackPC := c.emitJump(code.Jump)

	bodyStarts := make([]int, len(node.Cases))
	for i, cs := range node.Cases {
		// Falling through from the previous body skips this body's POP:
		// the discriminant was already dropped on entry to that body.
		var skipIdx, skipPC int
		if i > 0 {
			skipIdx, skipPC = c.emitJump(code.Jump)
		}
		bodyStarts[i] = len(c.currentInstructions())
		c.emit(code.Pop)
		if i > 0 {
			c.patchJumpHere(skipIdx, skipPC)
		}
		for _, s := range cs.Statements {
			if err := c.Compile(s); err != nil {
				return err
			}
		}
	}
	switchEnd := len(c.currentInstructions())

	for _, pt := range pendings {
		c.patchJumpTo(pt.js.poolIndex, pt.js.pcAfterJump, bodyStarts[pt.caseIndex])
	}
	if defaultIndex >= 0 {
		c.patchJumpTo(fallbackIdx, fallbackPC, bodyStarts[defaultIndex])
	} else {
		c.patchJumpTo(fallbackIdx, fallbackPC, switchEnd)
	}

	c.popBreak(switchEnd)
	return nil
}

func (c *Compiler) compileTry(node *ast.TryStatement) error {
	catchOffIdx := c.pool.AddOffset(-1)
	finallyOffIdx := c.pool.AddOffset(-1)
	c.emit(code.TryBegin, catchOffIdx, finallyOffIdx)
	tryBeginPC := len(c.currentInstructions())

	if err := c.Compile(node.Block); err != nil {
		return err
	}
	c.emit(code.TryEnd)

	var converge []jumpSite
	idx, pc := c.emitJump(code.Jump)
	converge = append(converge, jumpSite{idx, pc})

	if node.Catch != nil {
		catchTarget := len(c.currentInstructions())
		c.pool.SetOffset(catchOffIdx, catchTarget-tryBeginPC)
		c.emit(code.Catch)
		if node.Catch.Param != nil {
			sym := c.symbolTable.Define(node.Catch.Param.Value)
			c.storeSymbol(sym)
		} else {
			c.emit(code.Pop)
		}
		if err := c.Compile(node.Catch.Body); err != nil {
			return err
		}
		idx, pc := c.emitJump(code.Jump)
		converge = append(converge, jumpSite{idx, pc})
	}

	if node.Finally != nil {
		finallyTarget := len(c.currentInstructions())
		c.pool.SetOffset(finallyOffIdx, finallyTarget-tryBeginPC)
		for _, js := range converge {
			c.patchJumpTo(js.poolIndex, js.pcAfterJump, finallyTarget)
		}
		if err := c.Compile(node.Finally); err != nil {
			return err
		}
	} else {
		end := len(c.currentInstructions())
		for _, js := range converge {
			c.patchJumpTo(js.poolIndex, js.pcAfterJump, end)
		}
	}
	return nil
}

// compileLogical lowers `&&`, `||`, and `??` with jump-and-skip
// short-circuiting rather than the fixed LOGICAL_OP opcode: LOGICAL_OP
// always evaluates both sides, which is wrong for all three operators, so
// the compiler never emits it. The opcode stays defined for completeness
// of the fixed instruction set and the Go-native vm still implements it.
func (c *Compiler) compileLogical(node *ast.LogicalExpression) error {
	if err := c.Compile(node.Left); err != nil {
		return err
	}
	c.emit(code.Duplicate)

	var jumpIdx, jumpPC int
	switch node.Operator {
	case "&&":
		jumpIdx, jumpPC = c.emitJump(code.JumpIfFalse)
	case "||":
		jumpIdx, jumpPC = c.emitJump(code.JumpIfTrue)
	case "??":
		c.emit(code.UnaryOp, c.pool.AddIdentifier("??defined"))
		jumpIdx, jumpPC = c.emitJump(code.JumpIfFalse)
	default:
		return fmt.Errorf("unknown logical operator %s", node.Operator)
	}

	c.emit(code.Pop)
	if err := c.Compile(node.Right); err != nil {
		return err
	}
	c.patchJumpHere(jumpIdx, jumpPC)
	return nil
}

func (c *Compiler) compileConditional(node *ast.ConditionalExpression) error {
	if err := c.Compile(node.Test); err != nil {
		return err
	}
	elseIdx, elsePC := c.emitJump(code.JumpIfFalse)
	if err := c.Compile(node.Consequent); err != nil {
		return err
	}
	endIdx, endPC := c.emitJump(code.Jump)
	c.patchJumpHere(elseIdx, elsePC)
	if err := c.Compile(node.Alternate); err != nil {
		return err
	}
	c.patchJumpHere(endIdx, endPC)
	return nil
}

// compileAssignment lowers `target = value`. Identifier targets need an
// explicit DUPLICATE because STORE_VAR pops without pushing; STORE_PROPERTY
// and STORE_INDEX already push the stored value back, per the resolved
// Open Question on assignment-expression value semantics.
func (c *Compiler) compileAssignment(node *ast.AssignmentExpression) error {
	switch target := node.Target.(type) {
	case *ast.Identifier:
		sym, ok := c.symbolTable.Resolve(target.Value)
		if !ok {
			return fmt.Errorf("undefined variable %s", target.Value)
		}
		if err := c.Compile(node.Value); err != nil {
			return err
		}
		c.emit(code.Duplicate)
		c.storeSymbol(sym)

	case *ast.MemberExpression:
		if err := c.Compile(target.Object); err != nil {
			return err
		}
		if target.Computed {
			if err := c.Compile(target.Property); err != nil {
				return err
			}
			if err := c.Compile(node.Value); err != nil {
				return err
			}
			c.emit(code.StoreIndex)
		} else {
			ident, ok := target.Property.(*ast.Identifier)
			if !ok {
				return fmt.Errorf("invalid assignment target")
			}
			if err := c.Compile(node.Value); err != nil {
				return err
			}
			c.emit(code.StoreProperty, c.pool.AddIdentifier(ident.Value))
		}

	default:
		return fmt.Errorf("invalid assignment target")
	}
	return nil
}

func (c *Compiler) compileFunctionLiteral(node *ast.FunctionLiteral) error {
	c.enterScope()
	if node.Name != "" {
		c.symbolTable.DefineFunctionName(node.Name)
	}
	for _, param := range node.Parameters {
		c.symbolTable.Define(param.Value)
	}

	if err := c.Compile(node.Body); err != nil {
		return err
	}
	if !c.lastInstructionIs(code.Return) {
		c.emit(code.Undefined)
		c.emit(code.Return)
	}

	freeSymbols := c.symbolTable.FreeSymbols
	numLocals := c.symbolTable.numDefinitions
	instructions := c.leaveScope()

	for _, s := range freeSymbols {
		c.loadSymbol(s)
	}

	fn := &pool.Function{
		Instructions:  instructions,
		NumLocals:     numLocals,
		NumParameters: len(node.Parameters),
		NumFree:       len(freeSymbols),
		Name:          node.Name,
	}
	fnIndex := c.pool.AddFunction(fn)
	c.emit(code.CreateFunction, fnIndex, len(freeSymbols))
	return nil
}

// popBreak removes the innermost break frame and patches every BREAK jump
// site it collected to target.
func (c *Compiler) popBreak(target int) {
	top := c.breaks[len(c.breaks)-1]
	c.breaks = c.breaks[:len(c.breaks)-1]
	for _, js := range top.patches {
		c.patchJumpTo(js.poolIndex, js.pcAfterJump, target)
	}
}

// popLoop removes the innermost loop frame without patching — used by
// compileWhile, whose CONTINUE jumps are already resolved at emission time.
func (c *Compiler) popLoop() {
	c.loops = c.loops[:len(c.loops)-1]
}

// loadSymbol emits a LOAD_VAR for the given symbol. Symbol.Scope is already
// a code.VarScope, so it goes onto the instruction as-is.
func (c *Compiler) loadSymbol(s Symbol) {
	c.emit(code.LoadVar, int(s.Scope), s.Index)
}

// storeSymbol emits a STORE_VAR for the given symbol.
func (c *Compiler) storeSymbol(s Symbol) {
	c.emit(code.StoreVar, int(s.Scope), s.Index)
}

// emit generates a bytecode instruction with the given opcode and operands,
// adds it to the instruction list, and tracks its position.
func (c *Compiler) emit(op code.Opcode, operands ...int) int {
	ins := code.Make(op, operands...)
	pos := c.addInstruction(ins)
	c.setLastInstruction(op, pos)
	return pos
}

// emitJump emits a jump instruction with a placeholder (zero) displacement
// and returns the pool index holding that displacement, together with the
// program counter immediately following the instruction. Call patchJumpTo
// or patchJumpHere once the real target is known.
func (c *Compiler) emitJump(op code.Opcode) (poolIndex, pcAfterJump int) {
	poolIndex = c.pool.AddOffset(0)
	c.emit(op, poolIndex)
	pcAfterJump = len(c.currentInstructions())
	return poolIndex, pcAfterJump
}

// emitJumpTo emits a jump instruction whose target is already known (a
// backward jump to a loop's test or start).
func (c *Compiler) emitJumpTo(op code.Opcode, target int) {
	const jumpInstructionLen = 3 // opcode byte + 2-byte pool-index operand
	pcAfterJump := len(c.currentInstructions()) + jumpInstructionLen
	poolIndex := c.pool.AddOffset(target - pcAfterJump)
	c.emit(op, poolIndex)
}

// patchJumpTo sets the displacement of a previously emitted jump so that
// pcAfterJump + displacement == target.
func (c *Compiler) patchJumpTo(poolIndex, pcAfterJump, target int) {
	c.pool.SetOffset(poolIndex, target-pcAfterJump)
}

// patchJumpHere patches a jump to target the current instruction position.
func (c *Compiler) patchJumpHere(poolIndex, pcAfterJump int) {
	c.patchJumpTo(poolIndex, pcAfterJump, len(c.currentInstructions()))
}

func (c *Compiler) setLastInstruction(op code.Opcode, pos int) {
	previous := c.scopes[c.scopeIndex].lastInstruction
	c.scopes[c.scopeIndex].previousInstruction = previous
	c.scopes[c.scopeIndex].lastInstruction = EmittedInstruction{Opcode: op, Position: pos}
}

func (c *Compiler) addInstruction(ins []byte) int {
	posNewInstruction := len(c.currentInstructions())
	c.scopes[c.scopeIndex].instructions = append(c.currentInstructions(), ins...)
	return posNewInstruction
}

// Bytecode returns the compiled bytecode and the constant pool built while compiling.
func (c *Compiler) Bytecode() *Bytecode {
	return &Bytecode{
		Instructions: c.currentInstructions(),
		Pool:         c.pool,
	}
}

func (c *Compiler) lastInstructionIs(op code.Opcode) bool {
	if len(c.currentInstructions()) == 0 {
		return false
	}
	return c.scopes[c.scopeIndex].lastInstruction.Opcode == op
}

func (c *Compiler) currentInstructions() code.Instructions {
	return c.scopes[c.scopeIndex].instructions
}

func (c *Compiler) enterScope() {
	c.scopes = append(c.scopes, newCompilationScope())
	c.scopeIndex++
	c.symbolTable = NewEnclosedSymbolTable(c.symbolTable)
}

func (c *Compiler) leaveScope() code.Instructions {
	instructions := c.currentInstructions()
	c.scopes = c.scopes[:len(c.scopes)-1]
	c.scopeIndex--
	c.symbolTable = c.symbolTable.Outer
	return instructions
}
