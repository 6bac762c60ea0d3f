package editor

import "github.com/colonyops/csword/internal/core/richtext"

type bufferSnapshot struct {
	content richtext.Content
	sel     richtext.Selection
}

type historyState struct {
	undo []bufferSnapshot
	redo []bufferSnapshot
}

func (b *Buffer) snapshot() bufferSnapshot {
	return bufferSnapshot{content: b.content, sel: b.sel}
}

func (b *Buffer) recordUndo(prev bufferSnapshot) {
	limit := b.opt.HistoryLimit
	if limit <= 0 {
		return
	}

	b.hist.undo = append(b.hist.undo, prev)
	if len(b.hist.undo) > limit {
		b.hist.undo = b.hist.undo[len(b.hist.undo)-limit:]
	}
	b.hist.redo = nil
}

func (b *Buffer) CanUndo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.hist.undo) > 0
}

func (b *Buffer) CanRedo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.hist.redo) > 0
}

// Undo restores the state before the last change. It reports false when
// there is nothing to undo.
func (b *Buffer) Undo() bool {
	return b.step(func(h *historyState) (bufferSnapshot, bool) {
		if len(h.undo) == 0 {
			return bufferSnapshot{}, false
		}
		i := len(h.undo) - 1
		prev := h.undo[i]
		h.undo = h.undo[:i]
		h.redo = append(h.redo, b.snapshot())
		return prev, true
	})
}

// Redo reapplies the last undone change.
func (b *Buffer) Redo() bool {
	return b.step(func(h *historyState) (bufferSnapshot, bool) {
		if len(h.redo) == 0 {
			return bufferSnapshot{}, false
		}
		i := len(h.redo) - 1
		next := h.redo[i]
		h.redo = h.redo[:i]
		h.undo = append(h.undo, b.snapshot())
		return next, true
	})
}

func (b *Buffer) step(pop func(*historyState) (bufferSnapshot, bool)) bool {
	b.mu.Lock()
	target, ok := pop(&b.hist)
	if !ok {
		b.mu.Unlock()
		return false
	}

	change := b.commit(target.content, target.sel, SourceUser)
	listeners := b.listenerSnapshot()
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(change)
	}
	return true
}
