package runtime

import "testing"

func TestStackMachineEmpty(t *testing.T) {
	m := NewStackMachine()
	if !m.Empty() || m.Size() != 0 {
		t.Errorf("expected new stack to be empty")
	}
	if m.Pop() != 0 || m.Top() != 0 {
		t.Errorf("expected Pop and Top on empty stack to return 0")
	}
}

func TestStackMachineLIFO(t *testing.T) {
	m := NewStackMachine()
	m.Push(1)
	m.Push(2)
	m.Push(3)
	if m.Top() != 3 || m.Size() != 3 {
		t.Errorf("expected top 3 and size 3, have %d and %d", m.Top(), m.Size())
	}
	if v := m.Values(); len(v) != 3 || v[0] != 3 || v[2] != 1 {
		t.Errorf("expected values top first, have %v", v)
	}
	if m.String() != "[1 2 3]" {
		t.Errorf("expected bottom-up string form, have %s", m)
	}
	if m.Pop() != 3 || m.Pop() != 2 || m.Size() != 1 {
		t.Errorf("unexpected pop order")
	}
}

func TestStackMachineRegisters(t *testing.T) {
	m := NewStackMachine()
	if m.Register(99) != 0 {
		t.Errorf("expected uninitialized register to be 0")
	}
	m.SetRegister(-5, 12)
	m.SetRegister(1<<40, 7)
	if m.Register(-5) != 12 || m.Register(1<<40) != 7 {
		t.Errorf("registers do not keep their values")
	}
	m.Push(1)
	m.Clear()
	if !m.Empty() || m.Register(-5) != 0 {
		t.Errorf("expected Clear to reset stack and registers")
	}
}
