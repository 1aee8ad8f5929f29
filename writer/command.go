package writer

// Command is an executable operation that can be reverted. Both methods
// report success by boolean so composite logic can branch on the result
// instead of handling panics or errors mid-unwind.
//
// Implementation obligation: an Execute that returns false must leave no side
// effect requiring its own Revert. MacroCommand only re-invokes Revert on
// sub-commands whose Execute already returned true.
type Command interface {
	Execute() bool
	Revert() bool
}

// MacroCommand executes a sequence of sub-commands and can unwind partial
// progress. The cursor position always equals the count of sub-commands
// successfully executed so far.
type MacroCommand struct {
	cmds []Command
	iter *listIterator[Command]
}

// NewMacroCommand constructs an empty composite command.
func NewMacroCommand() *MacroCommand {
	return &MacroCommand{}
}

// Add registers a sub-command at the end of the traversal list.
func (mc *MacroCommand) Add(cmd Command) {
	mc.cmds = append(mc.cmds, cmd)
}

// Remove deregisters the first occurrence of a sub-command. An execution
// already in progress is unaffected; it iterates its own snapshot.
func (mc *MacroCommand) Remove(cmd Command) {
	for i, registered := range mc.cmds {
		if registered == cmd {
			mc.cmds = append(mc.cmds[:i], mc.cmds[i+1:]...)
			return
		}
	}
}

// Execute runs each registered sub-command in order. On the first sub-command
// reporting failure, the cursor steps back to point at the failed command and
// Execute returns false; remaining sub-commands are never attempted.
func (mc *MacroCommand) Execute() bool {
	if mc.iter == nil {
		mc.iter = newListIterator(mc.cmds)
	}

	for mc.iter.HasNext() {
		cmd, _ := mc.iter.Next()
		if !cmd.Execute() {
			mc.iter.Previous()
			return false
		}
	}

	return true
}

// Revert unwinds in reverse order, beginning with the last successfully
// executed sub-command. A failing revert steps the cursor forward by one and
// returns false, so a later Revert retries from exactly that point. A fully
// successful revert parks the cursor at zero, allowing Execute to run again
// from scratch.
func (mc *MacroCommand) Revert() bool {
	if mc.iter == nil {
		return true
	}

	for mc.iter.HasPrevious() {
		cmd, _ := mc.iter.Previous()
		if !cmd.Revert() {
			mc.iter.Next()
			return false
		}
	}

	return true
}
