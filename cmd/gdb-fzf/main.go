// gdb-fzf is built as a c-shared object and loaded into a running GDB by
// the scripting shim in scripts/gdb-fzf.py. Everything starts from the
// exported gdbfzf_setup entry point; main never runs.
package main

func main() {}
