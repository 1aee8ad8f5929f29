package writer

import "testing"

// fakeCommand records invocations and returns scripted results.
type fakeCommand struct {
	execResult   bool
	revertResult bool
	execCalls    int
	revertCalls  int
}

func (c *fakeCommand) Execute() bool {
	c.execCalls++
	return c.execResult
}

func (c *fakeCommand) Revert() bool {
	c.revertCalls++
	return c.revertResult
}

func okCommand() *fakeCommand {
	return &fakeCommand{execResult: true, revertResult: true}
}

func TestMacroExecuteAll(t *testing.T) {
	first, second := okCommand(), okCommand()
	macro := NewMacroCommand()
	macro.Add(first)
	macro.Add(second)

	if !macro.Execute() {
		t.Fatalf("Execute() = false, want true")
	}
	if first.execCalls != 1 || second.execCalls != 1 {
		t.Fatalf("exec calls = %d, %d; want 1, 1", first.execCalls, second.execCalls)
	}
}

func TestMacroExecuteStopsAtFailure(t *testing.T) {
	first := okCommand()
	second := &fakeCommand{execResult: false, revertResult: true}
	third := okCommand()
	macro := NewMacroCommand()
	macro.Add(first)
	macro.Add(second)
	macro.Add(third)

	if macro.Execute() {
		t.Fatalf("Execute() = true, want false")
	}
	// The failure is detected from the command's own result, so it must have
	// been invoked.
	if second.execCalls != 1 {
		t.Fatalf("second.execCalls = %d, want 1", second.execCalls)
	}
	if third.execCalls != 0 {
		t.Fatalf("command after the failure was executed")
	}

	// Only the successfully executed prefix is unwound; the failed command
	// must not be reverted.
	if !macro.Revert() {
		t.Fatalf("Revert() = false, want true")
	}
	if first.revertCalls != 1 {
		t.Fatalf("first.revertCalls = %d, want 1", first.revertCalls)
	}
	if second.revertCalls != 0 {
		t.Fatalf("failed command was reverted")
	}
	if third.revertCalls != 0 {
		t.Fatalf("unexecuted command was reverted")
	}
}

func TestMacroEmptyExecutes(t *testing.T) {
	macro := NewMacroCommand()
	if !macro.Execute() {
		t.Fatalf("empty Execute() = false, want true")
	}
	if !macro.Revert() {
		t.Fatalf("empty Revert() = false, want true")
	}
}

func TestMacroRevertBeforeExecute(t *testing.T) {
	macro := NewMacroCommand()
	macro.Add(okCommand())
	if !macro.Revert() {
		t.Fatalf("Revert() before Execute() = false, want true")
	}
}

func TestMacroRevertFailureResumes(t *testing.T) {
	first := okCommand()
	second := &fakeCommand{execResult: true, revertResult: false}
	third := okCommand()
	macro := NewMacroCommand()
	macro.Add(first)
	macro.Add(second)
	macro.Add(third)

	if !macro.Execute() {
		t.Fatalf("Execute() = false, want true")
	}

	if macro.Revert() {
		t.Fatalf("Revert() = true, want false on revert failure")
	}
	if third.revertCalls != 1 || second.revertCalls != 1 || first.revertCalls != 0 {
		t.Fatalf("revert calls = %d, %d, %d; want 0, 1, 1",
			first.revertCalls, second.revertCalls, third.revertCalls)
	}

	// A later Revert resumes at exactly the command that failed.
	second.revertResult = true
	if !macro.Revert() {
		t.Fatalf("second Revert() = false, want true")
	}
	if third.revertCalls != 1 {
		t.Fatalf("already-reverted command was reverted again")
	}
	if second.revertCalls != 2 || first.revertCalls != 1 {
		t.Fatalf("revert calls after retry = %d, %d; want 1, 2",
			first.revertCalls, second.revertCalls)
	}
}

func TestMacroReExecuteAfterFullRevert(t *testing.T) {
	first, second := okCommand(), okCommand()
	macro := NewMacroCommand()
	macro.Add(first)
	macro.Add(second)

	if !macro.Execute() || !macro.Revert() || !macro.Execute() {
		t.Fatalf("execute/revert/execute cycle failed")
	}
	if first.execCalls != 2 || second.execCalls != 2 {
		t.Fatalf("exec calls = %d, %d; want 2, 2", first.execCalls, second.execCalls)
	}
}

func TestMacroExecutionSnapshotIgnoresLateAdd(t *testing.T) {
	first := okCommand()
	late := okCommand()
	macro := NewMacroCommand()
	macro.Add(first)

	if !macro.Execute() {
		t.Fatalf("Execute() = false, want true")
	}

	// The traversal snapshot was taken at the first Execute; a command added
	// afterwards is invisible to the execution in progress.
	macro.Add(late)
	if !macro.Execute() {
		t.Fatalf("resumed Execute() = false, want true")
	}
	if late.execCalls != 0 {
		t.Fatalf("late command executed within the old snapshot")
	}

	if !macro.Revert() {
		t.Fatalf("Revert() = false, want true")
	}
}

func TestMacroRemove(t *testing.T) {
	first, second := okCommand(), okCommand()
	macro := NewMacroCommand()
	macro.Add(first)
	macro.Add(second)
	macro.Remove(first)

	if !macro.Execute() {
		t.Fatalf("Execute() = false, want true")
	}
	if first.execCalls != 0 || second.execCalls != 1 {
		t.Fatalf("exec calls = %d, %d; want 0, 1", first.execCalls, second.execCalls)
	}
}
