package runtime

import (
	"fmt"
)

// This module implements a stack of memory frames.
// Memory frames are used by an interpreter to track active function calls.
// Every frame carries the generation id of the evaluation it belongs to,
// which is used to find the target of a return.

// DynamicMemoryFrame is a memory frame, representing an active function call.
type DynamicMemoryFrame struct {
	Name       string
	Scope      *Scope // local scope of the call
	Generation uint64 // generation id of the call's body evaluation
	Parent     *DynamicMemoryFrame
}

// NewDynamicMemoryFrame creates a new memory frame.
func NewDynamicMemoryFrame(nm string, scope *Scope) *DynamicMemoryFrame {
	mf := &DynamicMemoryFrame{
		Name:  nm,
		Scope: scope,
	}
	return mf
}

func (mf *DynamicMemoryFrame) String() string {
	return fmt.Sprintf("<mem %s#%d -> %v>", mf.Name, mf.Generation, mf.Scope)
}

// IsRoot is a predicate: Is this a root frame?
func (mf *DynamicMemoryFrame) IsRoot() bool {
	return (mf.Parent == nil)
}

// ---------------------------------------------------------------------------

// MemoryFrameStack is a (call-)stack of memory frames.
type MemoryFrameStack struct {
	memoryFrameTOS *DynamicMemoryFrame
	depth          int
}

// Current gets the current memory frame of a stack (TOS), or nil if no call is
// active.
func (mfst *MemoryFrameStack) Current() *DynamicMemoryFrame {
	return mfst.memoryFrameTOS
}

// Depth returns the number of active frames.
func (mfst *MemoryFrameStack) Depth() int {
	return mfst.depth
}

// PushNewMemoryFrame pushes a new memory frame as TOS.
// A frame is constructed, having the recent TOS as its parent.
//
func (mfst *MemoryFrameStack) PushNewMemoryFrame(nm string, scope *Scope, generation uint64) *DynamicMemoryFrame {
	newmf := NewDynamicMemoryFrame(nm, scope)
	newmf.Generation = generation
	newmf.Parent = mfst.memoryFrameTOS
	mfst.memoryFrameTOS = newmf // new frame now TOS
	mfst.depth++
	T().P("mem", newmf.Name).Debugf("pushing new memory frame #%d", generation)
	return newmf
}

// PopMemoryFrame pops the top-most memory frame. Returns the popped frame.
func (mfst *MemoryFrameStack) PopMemoryFrame() *DynamicMemoryFrame {
	if mfst.memoryFrameTOS == nil {
		panic("attempt to pop memory frame from empty call stack")
	}
	mf := mfst.memoryFrameTOS
	T().Debugf("popping memory frame [%s]", mf.Name)
	mfst.memoryFrameTOS = mfst.memoryFrameTOS.Parent
	mfst.depth--
	return mf
}

// Reset drops all frames. Interpreters call it after a failed evaluation.
func (mfst *MemoryFrameStack) Reset() {
	mfst.memoryFrameTOS = nil
	mfst.depth = 0
}

// FindMemoryFrameForScope finds the top-most memory frame pointing to scope.
func (mfst *MemoryFrameStack) FindMemoryFrameForScope(scope *Scope) *DynamicMemoryFrame {
	mf := mfst.memoryFrameTOS
	for mf != nil {
		if mf.Scope == scope {
			return mf
		}
		mf = mf.Parent
	}
	return nil
}
