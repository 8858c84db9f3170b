package runtime

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/stakk/sparse"
)

// StackMachine holds the operand stack and the register table of a program.
// Pop and Top never fail: on an empty stack they return 0. Callers check
// Empty or Size where absence is meaningful.
type StackMachine struct {
	stack     *arraystack.Stack
	registers *sparse.IntVector
}

// NewStackMachine creates a stack machine with an empty stack and all
// registers set to 0.
func NewStackMachine() *StackMachine {
	return &StackMachine{
		stack:     arraystack.New(),
		registers: sparse.NewIntVector(0),
	}
}

// Push pushes v onto the stack.
func (m *StackMachine) Push(v int64) {
	m.stack.Push(v)
}

// Pop removes and returns the top of the stack, or 0 if the stack is empty.
func (m *StackMachine) Pop() int64 {
	if v, ok := m.stack.Pop(); ok {
		return v.(int64)
	}
	return 0
}

// Top returns the top of the stack, or 0 if the stack is empty.
func (m *StackMachine) Top() int64 {
	if v, ok := m.stack.Peek(); ok {
		return v.(int64)
	}
	return 0
}

// Size returns the number of values on the stack.
func (m *StackMachine) Size() int {
	return m.stack.Size()
}

// Empty is a predicate: is the stack empty?
func (m *StackMachine) Empty() bool {
	return m.stack.Empty()
}

// Values returns the stack contents, top first.
func (m *StackMachine) Values() []int64 {
	vals := m.stack.Values()
	ints := make([]int64, len(vals))
	for i, v := range vals {
		ints[i] = v.(int64)
	}
	return ints
}

// Clear empties the stack and resets all registers.
func (m *StackMachine) Clear() {
	m.stack.Clear()
	m.registers.Clear()
}

// Register returns the value of register i. Registers never set hold 0.
func (m *StackMachine) Register(i int64) int64 {
	return m.registers.Value(i)
}

// SetRegister sets register i to v.
func (m *StackMachine) SetRegister(i int64, v int64) {
	m.registers.Set(i, v)
}

// Registers returns the register table.
func (m *StackMachine) Registers() *sparse.IntVector {
	return m.registers
}

func (m *StackMachine) String() string {
	vals := m.Values()
	s := make([]string, len(vals))
	for i, v := range vals {
		s[len(vals)-1-i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(s, " ") + "]"
}
