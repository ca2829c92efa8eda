// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/cmd"

// A cmdHandler is stored in the Data field of every command in the tree.
type cmdHandler func(h *Host, c *cmd.Command, args []string) error

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "nes6502"})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "help",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
		Data:        cmdHandler((*Host).cmdHelp),
	})

	// Breakpoint commands
	bp := root.AddSubtree(cmd.TreeDescriptor{Name: "breakpoint", Brief: "Breakpoint commands"})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:        "list",
		Brief:       "List breakpoints",
		Description: "List all current breakpoints.",
		Usage:       "breakpoint list",
		Data:        cmdHandler((*Host).cmdBreakpointList),
	})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:  "add",
		Brief: "Add a breakpoint",
		Description: "Add a breakpoint at the specified address." +
			" The breakpoint starts enabled.",
		Usage: "breakpoint add <address>",
		Data:  cmdHandler((*Host).cmdBreakpointAdd),
	})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:        "remove",
		Brief:       "Remove a breakpoint",
		Description: "Remove a breakpoint at the specified address.",
		Usage:       "breakpoint remove <address>",
		Data:        cmdHandler((*Host).cmdBreakpointRemove),
	})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:        "enable",
		Brief:       "Enable a breakpoint",
		Description: "Enable a previously added breakpoint.",
		Usage:       "breakpoint enable <address>",
		Data:        cmdHandler((*Host).cmdBreakpointEnable),
	})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:  "disable",
		Brief: "Disable a breakpoint",
		Description: "Disable a previously added breakpoint. This" +
			" prevents the breakpoint from being hit when running the" +
			" CPU.",
		Usage: "breakpoint disable <address>",
		Data:  cmdHandler((*Host).cmdBreakpointDisable),
	})

	// Data breakpoint commands
	db := root.AddSubtree(cmd.TreeDescriptor{Name: "databreakpoint", Brief: "Data breakpoint commands"})
	db.AddCommand(cmd.CommandDescriptor{
		Name:        "list",
		Brief:       "List data breakpoints",
		Description: "List all current data breakpoints.",
		Usage:       "databreakpoint list",
		Data:        cmdHandler((*Host).cmdDataBreakpointList),
	})
	db.AddCommand(cmd.CommandDescriptor{
		Name:  "add",
		Brief: "Add a data breakpoint",
		Description: "Add a new data breakpoint at the specified" +
			" memory address. When the CPU stores data at this address, the" +
			" breakpoint will stop the CPU. Optionally, a byte" +
			" value may be specified, and the CPU will stop only" +
			" when this value is stored. The data breakpoint starts" +
			" enabled.",
		Usage: "databreakpoint add <address> [<value>]",
		Data:  cmdHandler((*Host).cmdDataBreakpointAdd),
	})
	db.AddCommand(cmd.CommandDescriptor{
		Name:  "remove",
		Brief: "Remove a data breakpoint",
		Description: "Remove a previously added data breakpoint at" +
			" the specified memory address.",
		Usage: "databreakpoint remove <address>",
		Data:  cmdHandler((*Host).cmdDataBreakpointRemove),
	})
	db.AddCommand(cmd.CommandDescriptor{
		Name:        "enable",
		Brief:       "Enable a data breakpoint",
		Description: "Enable a previously added data breakpoint.",
		Usage:       "databreakpoint enable <address>",
		Data:        cmdHandler((*Host).cmdDataBreakpointEnable),
	})
	db.AddCommand(cmd.CommandDescriptor{
		Name:        "disable",
		Brief:       "Disable a data breakpoint",
		Description: "Disable a previously added data breakpoint.",
		Usage:       "databreakpoint disable <address>",
		Data:        cmdHandler((*Host).cmdDataBreakpointDisable),
	})

	root.AddCommand(cmd.CommandDescriptor{
		Name:  "disassemble",
		Brief: "Disassemble code",
		Description: "Disassemble machine code starting at the requested" +
			" address. The number of instruction lines to disassemble may be" +
			" specified as an option. If no address is specified, the" +
			" disassembly continues from where the last disassembly left off.",
		Usage: "disassemble [<address>] [<lines>]",
		Data:  cmdHandler((*Host).cmdDisassemble),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "evaluate",
		Brief:       "Evaluate an expression",
		Description: "Evaluate a mathematical expression.",
		Usage:       "evaluate <expression>",
		Data:        cmdHandler((*Host).cmdEvaluate),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "execute",
		Brief: "Execute a command file",
		Description: "Load a file of host commands from disk and execute" +
			" the commands it contains.",
		Usage: "execute <filename>",
		Data:  cmdHandler((*Host).cmdExecute),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "header",
		Brief: "Display the cartridge header",
		Description: "Display the iNES header metadata of the most recently" +
			" loaded cartridge image.",
		Usage: "header",
		Data:  cmdHandler((*Host).cmdHeader),
	})

	// Interrupt commands
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "reset",
		Brief: "Reset the CPU",
		Description: "Run the CPU reset sequence. The stack pointer drops by" +
			" three, interrupts are disabled and the program counter is loaded" +
			" from the reset vector at $FFFC.",
		Usage: "reset",
		Data:  cmdHandler((*Host).cmdReset),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "nmi",
		Brief: "Raise a non-maskable interrupt",
		Description: "Push the program counter and status, disable interrupts" +
			" and continue at the address stored in the NMI vector at $FFFA.",
		Usage: "nmi",
		Data:  cmdHandler((*Host).cmdNMI),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "irq",
		Brief: "Raise an interrupt request",
		Description: "Raise a maskable interrupt through the vector at $FFFE." +
			" The request is ignored while the interrupt disable flag is set.",
		Usage: "irq",
		Data:  cmdHandler((*Host).cmdIRQ),
	})

	// I/O register commands
	io := root.AddSubtree(cmd.TreeDescriptor{Name: "io", Brief: "Memory-mapped register commands"})
	io.AddCommand(cmd.CommandDescriptor{
		Name:  "list",
		Brief: "List recent register accesses",
		Description: "List the most recent reads and writes of the PPU, APU," +
			" DMA and joypad registers, oldest first.",
		Usage: "io list",
		Data:  cmdHandler((*Host).cmdIOList),
	})
	io.AddCommand(cmd.CommandDescriptor{
		Name:  "latch",
		Brief: "Set the value a register reads as",
		Description: "Latch a byte into a memory-mapped register. Subsequent" +
			" CPU reads of the register return this value. The register may be" +
			" given by address or by name.",
		Usage: "io latch <register> <value>",
		Data:  cmdHandler((*Host).cmdIOLatch),
	})
	io.AddCommand(cmd.CommandDescriptor{
		Name:        "clear",
		Brief:       "Clear the register access log",
		Description: "Discard all logged register accesses.",
		Usage:       "io clear",
		Data:        cmdHandler((*Host).cmdIOClear),
	})

	// Load commands
	ld := root.AddSubtree(cmd.TreeDescriptor{Name: "load", Brief: "Load commands"})
	ld.AddCommand(cmd.CommandDescriptor{
		Name:  "image",
		Brief: "Load an iNES cartridge image",
		Description: "Load the PRG ROM of an iNES cartridge image into the" +
			" cartridge address space and reset the CPU. The program window" +
			" covers $8000-$FFFF.",
		Usage: "load image <filename>",
		Data:  cmdHandler((*Host).cmdLoadImage),
	})
	ld.AddCommand(cmd.CommandDescriptor{
		Name:  "binary",
		Brief: "Load a raw binary file",
		Description: "Load the contents of a raw binary file into memory at" +
			" the specified address. The program counter is set to the load" +
			" address and the program window covers the loaded bytes.",
		Usage: "load binary <filename> <address>",
		Data:  cmdHandler((*Host).cmdLoadBinary),
	})
	ld.AddCommand(cmd.CommandDescriptor{
		Name:  "raw",
		Brief: "Load a file to run in place",
		Description: "Load an entire file, header included, at address $0000" +
			" and start executing after the 16-byte header. Execution stops" +
			" when the program counter runs past the end of the file.",
		Usage: "load raw <filename>",
		Data:  cmdHandler((*Host).cmdLoadRaw),
	})

	// Memory commands
	me := root.AddSubtree(cmd.TreeDescriptor{Name: "memory", Brief: "Memory commands"})
	me.AddCommand(cmd.CommandDescriptor{
		Name:  "dump",
		Brief: "Dump memory at address",
		Description: "Dump the contents of memory starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option. If no address is specified, the" +
			" memory dump continues from where the last dump left off.",
		Usage: "memory dump [<address>] [<bytes>]",
		Data:  cmdHandler((*Host).cmdMemoryDump),
	})
	me.AddCommand(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set memory at address",
		Description: "Set the contents of memory starting from the specified" +
			" address. The values to assign should be a series of" +
			" space-separated byte values. You may use an expression for each" +
			" byte value.",
		Usage: "memory set <address> <byte> [<byte> ...]",
		Data:  cmdHandler((*Host).cmdMemorySet),
	})
	me.AddCommand(cmd.CommandDescriptor{
		Name:  "copy",
		Brief: "Copy memory",
		Description: "Copy memory from one range of addresses to another. You" +
			" must specify the destination address, the first byte of the source" +
			" address, and the last byte of the source address.",
		Usage: "memory copy <dst addr> <src addr begin> <src addr end>",
		Data:  cmdHandler((*Host).cmdMemoryCopy),
	})

	root.AddCommand(cmd.CommandDescriptor{
		Name:        "quit",
		Brief:       "Quit the program",
		Description: "Quit the program.",
		Usage:       "quit",
		Data:        cmdHandler((*Host).cmdQuit),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "register",
		Brief: "View or change register values",
		Description: "When used without arguments, this command displays the current" +
			" contents of the CPU registers. When used with arguments, this" +
			" command changes the value of a register or one of the CPU's status" +
			" flags. Allowed register names include A, X, Y, PC and SP. Allowed status" +
			" flag names include N (Negative), V (Overflow), D (Decimal)," +
			" I (InterruptDisable), Z (Zero) and C (Carry).",
		Usage: "register [<name> <value>]",
		Data:  cmdHandler((*Host).cmdRegister),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "run",
		Brief: "Run the CPU",
		Description: "Run the CPU until a breakpoint is hit, the program" +
			" runs out of its window, or the user types Ctrl-C.",
		Usage: "run [<address>]",
		Data:  cmdHandler((*Host).cmdRun),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "script",
		Brief: "Run a Lua script",
		Description: "Run a Lua script that drives the CPU. Scripts may call" +
			" step, run, reg, setreg, flag, peek, poke, latch, cycles and cmd.",
		Usage: "script <filename>",
		Data:  cmdHandler((*Host).cmdScript),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a configuration variable. To see the" +
			" current values of all configuration variables, type set" +
			" without any arguments.",
		Usage: "set [<var> <value>]",
		Data:  cmdHandler((*Host).cmdSet),
	})

	// Step commands
	st := root.AddSubtree(cmd.TreeDescriptor{Name: "step", Brief: "Step the debugger"})
	st.AddCommand(cmd.CommandDescriptor{
		Name:  "in",
		Brief: "Step into next instruction",
		Description: "Step the CPU by a single instruction. If the" +
			" instruction is a subroutine call, step into the subroutine." +
			" The number of steps may be specified as an option.",
		Usage: "step in [<count>]",
		Data:  cmdHandler((*Host).cmdStepIn),
	})
	st.AddCommand(cmd.CommandDescriptor{
		Name:  "over",
		Brief: "Step over next instruction",
		Description: "Step the CPU by a single instruction. If the" +
			" instruction is a subroutine call, step over the subroutine." +
			" The number of steps may be specified as an option.",
		Usage: "step over [<count>]",
		Data:  cmdHandler((*Host).cmdStepOver),
	})
	st.AddCommand(cmd.CommandDescriptor{
		Name:  "out",
		Brief: "Step out of the current subroutine",
		Description: "Step the CPU until it executes an RTS or RTI" +
			" instruction. This has the effect of stepping until the" +
			" currently running subroutine has returned.",
		Usage: "step out",
		Data:  cmdHandler((*Host).cmdStepOut),
	})

	// Add command shortcuts.
	root.AddShortcut("ba", "breakpoint add")
	root.AddShortcut("br", "breakpoint remove")
	root.AddShortcut("bl", "breakpoint list")
	root.AddShortcut("be", "breakpoint enable")
	root.AddShortcut("bd", "breakpoint disable")
	root.AddShortcut("d", "disassemble")
	root.AddShortcut("dbl", "databreakpoint list")
	root.AddShortcut("dba", "databreakpoint add")
	root.AddShortcut("dbr", "databreakpoint remove")
	root.AddShortcut("dbe", "databreakpoint enable")
	root.AddShortcut("dbd", "databreakpoint disable")
	root.AddShortcut("e", "evaluate")
	root.AddShortcut("l", "load image")
	root.AddShortcut("lb", "load binary")
	root.AddShortcut("lr", "load raw")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("mc", "memory copy")
	root.AddShortcut("ms", "memory set")
	root.AddShortcut("r", "register")
	root.AddShortcut("s", "step over")
	root.AddShortcut("si", "step in")
	root.AddShortcut("so", "step out")
	root.AddShortcut("?", "help")
	root.AddShortcut(".", "register")

	cmds = root
}
